package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"plant-logbook/http-server/api"
	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/lifecycle"
)

type JobViews interface {
	Views(ctx context.Context, plant string, ref time.Time) (jobs.Views, lifecycle.Backlog, error)
}

type Response struct {
	Plant   string            `json:"plant"`
	Views   jobs.Views        `json:"views"`
	Backlog lifecycle.Backlog `json:"backlog"`
}

// GetJobs отдаёт все пять представлений завода относительно ?date= (по умолчанию сегодня).
func GetJobs(log *slog.Logger, views JobViews) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.get.GetJobs"

		plant := jobs.PlantCode(chi.URLParam(r, "plant"))
		if plant == "" {
			http.Error(w, "Missing plant", http.StatusBadRequest)
			return
		}

		ref, err := api.Date(r, "date")
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		v, backlog, err := views.Views(ctx, plant, ref)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, Response{Plant: plant, Views: v, Backlog: backlog})
	}
}
