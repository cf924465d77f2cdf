package save

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
	"plant-logbook/internal/storage"
)

type JobCreator interface {
	Assign(ctx context.Context, plant string, req lifecycle.AssignRequest) (lifecycle.Outcome, error)
	TechnicianAdd(ctx context.Context, plant string, req lifecycle.TechnicianAddRequest) (lifecycle.Outcome, error)
}

type JobsSaver interface {
	ReplaceJobs(ctx context.Context, plant string, list []storage.Job) (lifecycle.Outcome, error)
}

func AssignJob(log *slog.Logger, creator JobCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.save.AssignJob"

		plant := chi.URLParam(r, "plant")

		var req lifecycle.AssignRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := creator.Assign(ctx, plant, req)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, out)
	}
}

func AddTechnicianJob(log *slog.Logger, creator JobCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.save.AddTechnicianJob"

		plant := chi.URLParam(r, "plant")

		var req lifecycle.TechnicianAddRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := creator.TechnicianAdd(ctx, plant, req)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, out)
	}
}

// SaveJobs replaces the plant's whole list. Locked jobs stay as stored.
func SaveJobs(log *slog.Logger, saver JobsSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobs.save.SaveJobs"

		plant := jobs.PlantCode(chi.URLParam(r, "plant"))
		if plant == "" {
			http.Error(w, "Missing plant", http.StatusBadRequest)
			return
		}

		var req struct {
			Jobs []storage.Job `json:"jobs"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := saver.ReplaceJobs(ctx, plant, req.Jobs)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, out)
	}
}
