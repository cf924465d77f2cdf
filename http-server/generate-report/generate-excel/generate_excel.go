package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"plant-logbook/http-server/api"
	"plant-logbook/internal/service/jobs"
	excel "plant-logbook/internal/service/generate-excel"
)

type GenerateExcelHandler interface {
	GenerateOfficerReport(ctx context.Context, filter excel.ReportFilter) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		plant := jobs.PlantCode(r.URL.Query().Get("plant"))
		if plant == "" {
			http.Error(w, "Missing required query parameter 'plant'", http.StatusBadRequest)
			return
		}

		view, err := jobs.ParseView(r.URL.Query().Get("view"))
		if r.URL.Query().Get("view") == "" {
			view, err = jobs.ViewToday, nil
		}
		if err != nil {
			http.Error(w, "invalid view", http.StatusBadRequest)
			return
		}

		ref, err := api.DateOrToday(r, "date")
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		// на Excel даём больше времени
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateOfficerReport(ctx, excel.ReportFilter{Plant: plant, View: view, Date: ref})
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("Officer_Log_%s_%s_%s.xlsx", plant, view, ref.Format("2006-01-02"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
