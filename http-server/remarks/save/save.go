package save

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

type RemarkAppender interface {
	AppendRemark(ctx context.Context, plant, id string, req lifecycle.RemarkRequest) (lifecycle.Outcome, error)
}

func SaveRemark(log *slog.Logger, remarks RemarkAppender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.remarks.save.SaveRemark"

		plant := chi.URLParam(r, "plant")
		id := chi.URLParam(r, "id")

		var req lifecycle.RemarkRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		out, err := remarks.AppendRemark(ctx, plant, id, req)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, out)
	}
}
