package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"plant-logbook/http-server/api"
	"plant-logbook/internal/service/summary"
)

type Dashboard interface {
	Dashboard(ctx context.Context, ref time.Time) ([]summary.PlantSummary, error)
}

func GetSummary(log *slog.Logger, dash Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.summary.get.GetSummary"

		ref, err := api.DateOrToday(r, "date")
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		plants, err := dash.Dashboard(ctx, ref)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, plants)
	}
}
