package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"plant-logbook/http-server/api"
	"plant-logbook/internal/service/lifecycle"
)

type Session interface {
	Session() lifecycle.SessionContext
	SelectView(ctx context.Context, view string) (lifecycle.SessionContext, error)
	SetPlant(plant string)
	SetRole(role lifecycle.Role)
	SetPendingOnly(ctx context.Context, on bool) (lifecycle.SessionContext, error)
}

func GetSession(log *slog.Logger, s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, s.Session())
	}
}

func SelectView(log *slog.Logger, s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.SelectView"

		var req struct {
			View string `json:"view"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sess, err := s.SelectView(ctx, req.View)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, sess)
	}
}

// UpdateSession changes the plant, role and pending filter. Absent fields are kept.
func UpdateSession(log *slog.Logger, s Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.session.UpdateSession"

		var req struct {
			Plant       *string `json:"plant"`
			Role        *string `json:"role"`
			PendingOnly *bool   `json:"pendingOnly"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		if req.Role != nil {
			role, ok := lifecycle.ParseRole(*req.Role)
			if !ok {
				http.Error(w, "invalid role", http.StatusBadRequest)
				return
			}
			s.SetRole(role)
		}
		if req.Plant != nil {
			s.SetPlant(*req.Plant)
		}

		sess := s.Session()
		if req.PendingOnly != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			var err error
			sess, err = s.SetPendingOnly(ctx, *req.PendingOnly)
			if err != nil {
				api.Error(w, r, log, op, err)
				return
			}
		}

		render.JSON(w, r, sess)
	}
}
