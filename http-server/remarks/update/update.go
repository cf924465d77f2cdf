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

type RemarkAcknowledger interface {
	Acknowledge(ctx context.Context, plant string, role lifecycle.Role, targets []lifecycle.AckTarget) (lifecycle.Outcome, error)
}

func AcknowledgeRemarks(log *slog.Logger, ack RemarkAcknowledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.remarks.update.AcknowledgeRemarks"

		plant := chi.URLParam(r, "plant")

		var req struct {
			Role    string                `json:"role"`
			Targets []lifecycle.AckTarget `json:"targets"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := ack.Acknowledge(ctx, plant, lifecycle.Role(req.Role), req.Targets)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, out)
	}
}
