// Package fixtures builds the demo logbook and keeps its dates fresh.
// Only wired when logbook.demo_fixtures is enabled; never used in production setups.
package fixtures

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"plant-logbook/internal/service/officer"
	"plant-logbook/internal/storage"
)

const (
	firstSeq = 1001
	lastSeq  = 1006
)

// offsets re-anchor each seeded job relative to the reference date.
var offsets = map[int]int{
	1001: 0,
	1002: 0,
	1003: -1,
	1004: 1,
	1005: -3,
	1006: -30,
}

type seedJob struct {
	area, loop, tag, instrument, jobType string
	technician, engineer                 string
	status, shift, description           string
	pending, emergency                   bool
	hours, priority                      int
}

var seedJobs = map[int]seedJob{
	1001: {area: "Boiler House", loop: "FIC-101", tag: "FT-101", instrument: "TRANSMITTER", jobType: "Routine Check",
		technician: "Ravi", pending: true, priority: 5, description: "Zero check on flow transmitter"},
	1002: {area: "Boiler House", loop: "TIC-204", tag: "TE-204", instrument: "RTD", jobType: "Breakdown",
		technician: "Meena", engineer: "S. Iyer", status: "IN PROGRESS", shift: storage.ShiftB, emergency: true, hours: 2, priority: 12,
		description: "Erratic temperature reading, RTD head rewired"},
	1003: {area: "Cooling Tower", loop: "LIC-310", tag: "LT-310", instrument: "TRANSMITTER", jobType: storage.JobTypeAbnormality,
		technician: "Ravi", engineer: "S. Iyer", status: storage.StatusOver, shift: storage.ShiftA, priority: 18,
		description: "Level transmitter recalibrated after drift"},
	1004: {area: "Compressor", loop: "PIC-402", tag: "PCV-402", instrument: "CONTROL VALVE", jobType: "Preventive Maintenance",
		technician: "Meena", pending: true, priority: 3, description: "Stroke check on pressure control valve"},
	1005: {area: "Compressor", loop: "PIC-402", tag: "PT-402", instrument: "TRANSMITTER", jobType: "Routine Check",
		technician: "Arun", engineer: "K. Das", status: storage.StatusOver, shift: storage.ShiftB, hours: 1, priority: 7,
		description: "Impulse line flushed"},
	1006: {area: "Cooling Tower", loop: "FIC-330", tag: "FCV-330", instrument: "CONTROL VALVE", jobType: "Breakdown",
		technician: "Arun", status: storage.StatusOver, shift: storage.ShiftC, priority: 20,
		description: "Positioner replaced on night shift"},
}

// ID is the fixture id of seq in plant, e.g. J-AA-1003.
func ID(plant string, seq int) string {
	return fmt.Sprintf("J-%s-%d", plant, seq)
}

// Seq extracts the fixture sequence number from id when it belongs to plant.
func Seq(plant, id string) (int, bool) {
	prefix := "J-" + plant + "-"
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < firstSeq || n > lastSeq {
		return 0, false
	}
	return n, true
}

// Seed returns a logbook holding the six demo jobs for each plant. Closed A and
// B shift jobs are already in the officer ledger.
func Seed(plants []string, now time.Time) storage.RootState {
	state := storage.Empty()

	for _, plant := range plants {
		plant = strings.ToUpper(strings.TrimSpace(plant))
		if plant == "" {
			continue
		}

		list := make([]storage.Job, 0, len(seedJobs))
		for seq := firstSeq; seq <= lastSeq; seq++ {
			list = append(list, seedToJob(plant, seq, now))
		}
		state.Plants[plant] = storage.PlantState{Jobs: list}

		for _, j := range list {
			officer.UpsertFromJob(&state, plant, j, now)
		}
	}

	return state
}

func seedToJob(plant string, seq int, now time.Time) storage.Job {
	s := seedJobs[seq]
	created := now.UTC().Add(-time.Duration(lastSeq-seq+1) * time.Hour)

	shift := s.shift
	if shift == "" {
		shift = storage.ShiftA
	}

	j := storage.Job{
		ID:               ID(plant, seq),
		TargetDate:       storage.DateOf(now.AddDate(0, 0, offsets[seq])),
		CreatedAt:        created,
		UpdatedAt:        created,
		Area:             s.area,
		Loop:             s.loop,
		Tag:              s.tag,
		TypeOfInstrument: s.instrument,
		JobType:          s.jobType,
		Technician:       s.technician,
		Engineer:         s.engineer,
		Status:           s.status,
		PendingWrite:     s.pending,
		Emergency:        s.emergency,
		Abnormality:      s.jobType == storage.JobTypeAbnormality,
		ExtraDutyHours:   s.hours,
		Shift:            shift,
		Priority:         s.priority,
		Locked:           s.status == storage.StatusOver,
		Source:           storage.SourceManual,
		Description:      s.description,
		Remarks:          []storage.Remark{},
	}

	if seq == 1002 {
		j.Remarks = append(j.Remarks, storage.Remark{
			ID:      fmt.Sprintf("R-%s-%d-1", plant, seq),
			Type:    storage.RemarkEngineer,
			Text:    "Check cable gland at junction box",
			Author:  s.engineer,
			Date:    j.TargetDate,
			AckTech: true,
		})
	}

	return j
}

// Rebaser pins fixture jobs to fixed offsets from the reference date so the
// demo data never goes stale. Everything else keeps its stored date.
type Rebaser struct{}

func (Rebaser) EffectiveDate(plant string, job storage.Job, ref time.Time) (time.Time, bool) {
	seq, ok := Seq(plant, job.ID)
	if !ok {
		return time.Time{}, false
	}
	return ref.AddDate(0, 0, offsets[seq]), true
}
