package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"plant-logbook/internal/service/normalize"
	"plant-logbook/internal/service/store"
	"plant-logbook/internal/storage"
)

type StateStore interface {
	Load(ctx context.Context) storage.RootState
	Update(ctx context.Context, fn func(state *storage.RootState) error) (storage.RootState, error)
}

// Repository owns the per-plant job lists kept inside the logbook document.
type Repository struct {
	log     *slog.Logger
	store   StateStore
	rebaser DateRebaser
}

// NewRepository wires the repository; rebaser may be nil outside demo setups.
func NewRepository(log *slog.Logger, st StateStore, rebaser DateRebaser) *Repository {
	return &Repository{log: log, store: st, rebaser: rebaser}
}

// PlantCode canonicalizes user-supplied plant codes.
func PlantCode(plant string) string {
	return normalize.PlantCode(plant)
}

// GetJobs returns a copy of the plant's jobs, registering unknown plants.
func (r *Repository) GetJobs(ctx context.Context, plant string) ([]storage.Job, error) {
	const op = "service.jobs.GetJobs"

	plant = PlantCode(plant)
	if plant == "" {
		return nil, fmt.Errorf("%s: empty plant code", op)
	}

	st := r.store.Load(ctx)
	if p, ok := st.Plants[plant]; ok {
		return p.Jobs, nil
	}

	st, err := r.store.Update(ctx, func(state *storage.RootState) error {
		if _, ok := state.Plants[plant]; !ok {
			state.Plants[plant] = storage.PlantState{Jobs: []storage.Job{}}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r.log.Info("plant registered", slog.String("op", op), slog.String("plant", plant))

	return st.Plants[plant].Jobs, nil
}

// SetJobs replaces the whole job list of a plant and returns fresh views.
func (r *Repository) SetJobs(ctx context.Context, plant string, list []storage.Job, ref time.Time) (Views, error) {
	const op = "service.jobs.SetJobs"

	plant = PlantCode(plant)
	if plant == "" {
		return Views{}, fmt.Errorf("%s: empty plant code", op)
	}

	st, err := r.store.Update(ctx, func(state *storage.RootState) error {
		state.Plants[plant] = storage.PlantState{Jobs: store.CloneJobs(list)}
		return nil
	})
	if err != nil {
		return Views{}, fmt.Errorf("%s: %w", op, err)
	}

	return Partition(plant, st.Plants[plant].Jobs, ref, r.rebaser), nil
}

// Mutate runs fn over the plant's job list and the surrounding state inside one
// store update. The list fn leaves behind is written back as the plant's jobs.
func (r *Repository) Mutate(ctx context.Context, plant string, fn func(state *storage.RootState, list *[]storage.Job) error) (storage.RootState, error) {
	plant = PlantCode(plant)

	return r.store.Update(ctx, func(state *storage.RootState) error {
		list := state.Plants[plant].Jobs
		if list == nil {
			list = []storage.Job{}
		}
		if err := fn(state, &list); err != nil {
			return err
		}
		state.Plants[plant] = storage.PlantState{Jobs: list}
		return nil
	})
}

// GetJobsByView is a pure read; unknown plants yield empty buckets.
func (r *Repository) GetJobsByView(ctx context.Context, plant string, ref time.Time) Views {
	plant = PlantCode(plant)
	st := r.store.Load(ctx)
	return r.Views(plant, st.Plants[plant].Jobs, ref)
}

// Views partitions an already loaded list with the repository's rebaser.
func (r *Repository) Views(plant string, list []storage.Job, ref time.Time) Views {
	return Partition(PlantCode(plant), list, ref, r.rebaser)
}

// SelectView persists the technician's last chosen view.
func (r *Repository) SelectView(ctx context.Context, view View) error {
	const op = "service.jobs.SelectView"

	if _, err := ParseView(string(view)); err != nil {
		return fmt.Errorf("%s: %q: %w", op, view, err)
	}

	_, err := r.store.Update(ctx, func(state *storage.RootState) error {
		state.UI.TechnicianSelectedView = string(view)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SelectedView is the persisted view, today when nothing valid is stored.
func (r *Repository) SelectedView(ctx context.Context) View {
	v, err := ParseView(r.store.Load(ctx).UI.TechnicianSelectedView)
	if err != nil {
		return ViewToday
	}
	return v
}

// Plants lists known plant codes in order.
func (r *Repository) Plants(ctx context.Context) []string {
	st := r.store.Load(ctx)
	codes := make([]string, 0, len(st.Plants))
	for code := range st.Plants {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// FindJob returns the index of job id in list, or -1.
func FindJob(list []storage.Job, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
