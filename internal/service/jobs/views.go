package jobs

import (
	"errors"
	"sort"
	"time"

	"plant-logbook/internal/service/normalize"
	"plant-logbook/internal/storage"
)

type View string

const (
	ViewToday    View = "today"
	ViewTomorrow View = "tomorrow"
	ViewPrev     View = "prev"
	ViewWeekly   View = "weekly"
	ViewMonthly  View = "monthly"
)

// Window sizes in days back from the reference date, inclusive.
const (
	WeeklyDays  = 6
	MonthlyDays = 90
)

var ErrUnknownView = errors.New("unknown view")

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewToday, ViewTomorrow, ViewPrev, ViewWeekly, ViewMonthly:
		return v, nil
	}
	return "", ErrUnknownView
}

// Views are the rolling buckets of one plant. A job may sit in several.
type Views struct {
	Today    []storage.Job `json:"today"`
	Tomorrow []storage.Job `json:"tomorrow"`
	Prev     []storage.Job `json:"prev"`
	Weekly   []storage.Job `json:"weekly"`
	Monthly  []storage.Job `json:"monthly"`
}

func (v Views) Get(view View) []storage.Job {
	switch view {
	case ViewToday:
		return v.Today
	case ViewTomorrow:
		return v.Tomorrow
	case ViewPrev:
		return v.Prev
	case ViewWeekly:
		return v.Weekly
	case ViewMonthly:
		return v.Monthly
	}
	return nil
}

// DateRebaser lets demo data override the stored target date of a job.
// ok=false means the stored date applies.
type DateRebaser interface {
	EffectiveDate(plant string, job storage.Job, ref time.Time) (date time.Time, ok bool)
}

// Day strips the clock part, keeping the calendar date of t in t's own zone,
// the same date storage.DateOf writes.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysFrom is the signed number of calendar days from ref to d.
func DaysFrom(ref, d time.Time) int {
	return int(Day(d).Sub(Day(ref)).Hours() / 24)
}

// InWindow reports whether a date offset (see DaysFrom) belongs to view.
func InWindow(view View, diff int) bool {
	switch view {
	case ViewToday:
		return diff == 0
	case ViewTomorrow:
		return diff == 1
	case ViewPrev:
		return diff == -1
	case ViewWeekly:
		return diff >= -WeeklyDays && diff <= 0
	case ViewMonthly:
		return diff >= -MonthlyDays && diff <= 0
	}
	return false
}

type datedJob struct {
	job   storage.Job
	date  time.Time
	valid bool
}

// Partition buckets jobs around ref. Jobs are ordered newest date first, then
// most recently touched; equal keys keep their input order.
func Partition(plant string, list []storage.Job, ref time.Time, rebaser DateRebaser) Views {
	dated := make([]datedJob, 0, len(list))
	for _, j := range list {
		dated = append(dated, effective(plant, j, ref, rebaser))
	}

	sort.SliceStable(dated, func(a, b int) bool {
		da, db := dated[a], dated[b]
		if da.valid != db.valid {
			return da.valid
		}
		if !da.date.Equal(db.date) {
			return da.date.After(db.date)
		}
		return da.job.LastTouched().After(db.job.LastTouched())
	})

	v := Views{
		Today:    []storage.Job{},
		Tomorrow: []storage.Job{},
		Prev:     []storage.Job{},
		Weekly:   []storage.Job{},
		Monthly:  []storage.Job{},
	}

	for _, d := range dated {
		if !d.valid {
			continue
		}
		diff := DaysFrom(ref, d.date)
		if InWindow(ViewToday, diff) {
			v.Today = append(v.Today, d.job)
		}
		if InWindow(ViewTomorrow, diff) {
			v.Tomorrow = append(v.Tomorrow, d.job)
		}
		if InWindow(ViewPrev, diff) {
			v.Prev = append(v.Prev, d.job)
		}
		if InWindow(ViewWeekly, diff) {
			v.Weekly = append(v.Weekly, d.job)
		}
		if InWindow(ViewMonthly, diff) {
			v.Monthly = append(v.Monthly, d.job)
		}
	}

	return v
}

func effective(plant string, j storage.Job, ref time.Time, rebaser DateRebaser) datedJob {
	if rebaser != nil {
		if d, ok := rebaser.EffectiveDate(plant, j, ref); ok {
			return datedJob{job: j, date: Day(d), valid: true}
		}
	}
	d, ok := normalize.ParseDate(j.TargetDate)
	return datedJob{job: j, date: d, valid: ok}
}

// OfficerView filters the ledger for one plant and view, newest first.
func OfficerView(entries []storage.OfficerEntry, view View, plant string, ref time.Time) []storage.OfficerEntry {
	type datedEntry struct {
		entry storage.OfficerEntry
		date  time.Time
	}

	var matched []datedEntry
	for _, e := range entries {
		if e.Plant != plant {
			continue
		}
		d, ok := normalize.ParseDate(e.Date)
		if !ok || !InWindow(view, DaysFrom(ref, d)) {
			continue
		}
		matched = append(matched, datedEntry{entry: e, date: d})
	}

	sort.SliceStable(matched, func(a, b int) bool {
		if !matched[a].date.Equal(matched[b].date) {
			return matched[a].date.After(matched[b].date)
		}
		return matched[a].entry.UpdatedAt.After(matched[b].entry.UpdatedAt)
	})

	out := make([]storage.OfficerEntry, 0, len(matched))
	for _, m := range matched {
		out = append(out, m.entry)
	}
	return out
}

// PendingOnly keeps only jobs still waiting for a write-up in every bucket.
func (v Views) PendingOnly() Views {
	return Views{
		Today:    pendingOf(v.Today),
		Tomorrow: pendingOf(v.Tomorrow),
		Prev:     pendingOf(v.Prev),
		Weekly:   pendingOf(v.Weekly),
		Monthly:  pendingOf(v.Monthly),
	}
}

func pendingOf(list []storage.Job) []storage.Job {
	out := make([]storage.Job, 0, len(list))
	for _, j := range list {
		if j.PendingWrite {
			out = append(out, j)
		}
	}
	return out
}

// CountPending counts jobs still waiting for the technician's write-up.
func CountPending(list []storage.Job) int {
	n := 0
	for _, j := range list {
		if j.PendingWrite {
			n++
		}
	}
	return n
}
