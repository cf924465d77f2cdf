package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/refdata"
)

type Reference interface {
	Plant(code string) (refdata.Plant, bool)
}

// GetReference serves the pick lists of one plant. A plant without lists
// gets empty ones, which the UI treats as free text.
func GetReference(log *slog.Logger, ref Reference) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reference.get.GetReference"

		plant := jobs.PlantCode(chi.URLParam(r, "plant"))
		if plant == "" {
			http.Error(w, "Missing plant code", http.StatusBadRequest)
			return
		}

		lists, ok := ref.Plant(plant)
		if !ok {
			log.Debug("no reference data for plant", slog.String("op", op), slog.String("plant", plant))
			lists = refdata.Plant{Technicians: []string{}, Engineers: []string{}, Areas: []string{}, Loops: map[string][]string{}}
		}

		render.JSON(w, r, lists)
	}
}
