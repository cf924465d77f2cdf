package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	generate_excel "plant-logbook/http-server/generate-report/generate-excel"
	getjobs "plant-logbook/http-server/jobs/get"
	savejobs "plant-logbook/http-server/jobs/save"
	updatejobs "plant-logbook/http-server/jobs/update"
	getofficer "plant-logbook/http-server/officer/get"
	getreference "plant-logbook/http-server/reference/get"
	getremarks "plant-logbook/http-server/remarks/get"
	saveremarks "plant-logbook/http-server/remarks/save"
	updateremarks "plant-logbook/http-server/remarks/update"
	"plant-logbook/http-server/session"
	getsummary "plant-logbook/http-server/summary/get"
	"plant-logbook/internal/config"
	excel "plant-logbook/internal/service/generate-excel"
	"plant-logbook/internal/service/lifecycle"
	"plant-logbook/internal/service/officer"
	"plant-logbook/internal/service/refdata"
	"plant-logbook/internal/service/summary"
)

func routes(cfg config.Config, log *slog.Logger, ctl *lifecycle.Controller, ledger *officer.Ledger, ref *refdata.Static, dash *summary.Service, genService *excel.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Route("/api/plants/{plant}", func(r chi.Router) {
		// справочники: техники, инженеры, участки, контуры
		r.Get("/reference", getreference.GetReference(log, ref))

		// разбивка журнала на today/tomorrow/prev/weekly/monthly
		r.Get("/jobs", getjobs.GetJobs(log, ctl))
		r.Put("/jobs", savejobs.SaveJobs(log, ctl))

		r.Post("/jobs/assign", savejobs.AssignJob(log, ctl))
		r.Post("/jobs", savejobs.AddTechnicianJob(log, ctl))
		r.Put("/jobs/{id}", updatejobs.WriteJob(log, ctl))
		r.Post("/jobs/{id}/reassign", updatejobs.ReassignJob(log, ctl))

		// замечания инженера/руководства
		r.Post("/jobs/{id}/remarks", saveremarks.SaveRemark(log, ctl))
		r.Post("/remarks/ack", updateremarks.AcknowledgeRemarks(log, ctl))
		r.Get("/remarks/pending", getremarks.GetPendingAcks(log, ctl))
	})

	// журнал сменного инженера
	router.Get("/api/officer", getofficer.GetOfficerEntries(log, ledger))
	router.Get("/api/report/officer", generate_excel.GenerateReportExcel(log, genService))

	router.Get("/api/summary", getsummary.GetSummary(log, dash))

	router.Get("/api/session", session.GetSession(log, ctl))
	router.Put("/api/session", session.UpdateSession(log, ctl))
	router.Put("/api/session/view", session.SelectView(log, ctl))

	return router
}
