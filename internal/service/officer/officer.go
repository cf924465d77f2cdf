// Package officer maintains the shift-handover ledger of closed jobs.
package officer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/normalize"
	"plant-logbook/internal/storage"
)

const remarkSeparator = " | "

// Eligible reports whether a job belongs in the ledger. Night shift (C)
// closures are kept out of it.
func Eligible(job storage.Job) bool {
	return job.Closed() && (job.Shift == storage.ShiftA || job.Shift == storage.ShiftB)
}

// Build derives the ledger entry for a closed job. The id is left empty.
func Build(plant string, job storage.Job, now time.Time) storage.OfficerEntry {
	name := job.Engineer
	if name == "" {
		name = job.Technician
	}
	if name == "" {
		name = normalize.DefaultOfficerName
	}

	texts := make([]string, 0, len(job.Remarks))
	for _, r := range job.Remarks {
		if t := strings.TrimSpace(r.Text); t != "" {
			texts = append(texts, t)
		}
	}

	tag := job.Tag
	if tag == "" {
		tag = normalize.DefaultTagNo
	}

	return storage.OfficerEntry{
		Date:        job.TargetDate,
		Plant:       plant,
		Shift:       job.Shift,
		Time:        normalize.ShiftTime(job.Shift),
		TagNo:       tag,
		JobType:     job.JobType,
		Description: job.Description,
		Officer:     name,
		Status:      storage.OfficerStatusOver,
		Remarks:     strings.Join(texts, remarkSeparator),
		SourceJobID: job.ID,
		UpdatedAt:   now.UTC(),
	}
}

// UpsertFromJob writes the entry for job into state. An existing entry for
// the same source job is replaced and keeps its id; otherwise the new entry
// goes first. ok is false when the job is not eligible.
func UpsertFromJob(state *storage.RootState, plant string, job storage.Job, now time.Time) (storage.OfficerEntry, bool) {
	if !Eligible(job) {
		return storage.OfficerEntry{}, false
	}

	entry := Build(plant, job, now)

	for i, e := range state.Officer.Entries {
		if e.SourceJobID == job.ID {
			entry.ID = e.ID
			state.Officer.Entries[i] = entry
			return entry, true
		}
	}

	entry.ID = fmt.Sprintf("O-%s", job.ID)
	state.Officer.Entries = append([]storage.OfficerEntry{entry}, state.Officer.Entries...)

	return entry, true
}

type StateLoader interface {
	Load(ctx context.Context) storage.RootState
}

// Ledger reads the handover log. Entries are written by the job mutations
// themselves through UpsertFromJob, inside the same store update.
type Ledger struct {
	log   *slog.Logger
	store StateLoader
}

func NewLedger(log *slog.Logger, st StateLoader) *Ledger {
	return &Ledger{log: log, store: st}
}

// GetOfficerEntriesByView returns the plant's entries whose date falls in the
// view's window around ref, newest first.
func (l *Ledger) GetOfficerEntriesByView(ctx context.Context, view jobs.View, plant string, ref time.Time) ([]storage.OfficerEntry, error) {
	const op = "service.officer.GetOfficerEntriesByView"

	if _, err := jobs.ParseView(string(view)); err != nil {
		return nil, fmt.Errorf("%s: %q: %w", op, view, err)
	}

	plant = jobs.PlantCode(plant)
	entries := jobs.OfficerView(l.store.Load(ctx).Officer.Entries, view, plant, ref)

	l.log.Debug("officer entries read", slog.String("op", op), slog.String("plant", plant), slog.Int("count", len(entries)))

	return entries, nil
}
