package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"plant-logbook/http-server/api"
	"plant-logbook/internal/service/lifecycle"
)

type JobUpdater interface {
	Write(ctx context.Context, plant, id string, req lifecycle.WriteRequest) (lifecycle.Outcome, error)
	Reassign(ctx context.Context, plant, id, technician string) (lifecycle.Outcome, error)
}

func WriteJob(log *slog.Logger, update JobUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.update.WriteJob"

		plant := chi.URLParam(r, "plant")
		id := chi.URLParam(r, "id")

		var req lifecycle.WriteRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := update.Write(ctx, plant, id, req)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, out)
	}
}

func ReassignJob(log *slog.Logger, update JobUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.update.ReassignJob"

		plant := chi.URLParam(r, "plant")
		id := chi.URLParam(r, "id")

		// тело необязательно: без technician задание уходит тому же исполнителю
		var req struct {
			Technician string `json:"technician"`
		}
		if r.ContentLength != 0 {
			if err := render.DecodeJSON(r.Body, &req); err != nil {
				log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
				http.Error(w, "Invalid data", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := update.Reassign(ctx, plant, id, req.Technician)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, out)
	}
}
