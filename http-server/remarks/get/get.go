package get

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

type PendingAcks interface {
	PendingAcks(ctx context.Context, plant string, role lifecycle.Role) ([]lifecycle.PendingAck, error)
}

func GetPendingAcks(log *slog.Logger, acks PendingAcks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.remarks.get.GetPendingAcks"

		plant := chi.URLParam(r, "plant")
		role := r.URL.Query().Get("role")
		if role == "" {
			http.Error(w, "Missing required query parameter 'role'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := acks.PendingAcks(ctx, plant, lifecycle.Role(role))
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, list)
	}
}
