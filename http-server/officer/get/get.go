package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"plant-logbook/http-server/api"
	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/storage"
)

type OfficerEntries interface {
	GetOfficerEntriesByView(ctx context.Context, view jobs.View, plant string, ref time.Time) ([]storage.OfficerEntry, error)
}

// GetOfficerEntries serves ?plant=&view=&date=; view defaults to today.
func GetOfficerEntries(log *slog.Logger, officer OfficerEntries) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.officer.get.GetOfficerEntries"

		plant := jobs.PlantCode(r.URL.Query().Get("plant"))
		if plant == "" {
			log.With(slog.String("op", op)).Warn("Missing 'plant' in query parameters")
			http.Error(w, "Missing required query parameter 'plant'", http.StatusBadRequest)
			return
		}

		view := jobs.View(r.URL.Query().Get("view"))
		if view == "" {
			view = jobs.ViewToday
		}

		ref, err := api.DateOrToday(r, "date")
		if err != nil {
			http.Error(w, "invalid date", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := officer.GetOfficerEntriesByView(ctx, view, plant, ref)
		if err != nil {
			api.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, entries)
	}
}
