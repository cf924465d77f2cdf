package storage

import "time"

// SchemaVersion is the version stamped into every persisted document.
// A stored document with any other version is backed up and reseeded.
const SchemaVersion = 2

const (
	StatusOver        = "✓ OVER"
	OfficerStatusOver = "OVER"

	JobTypeAbnormality = "Abnormality"

	ShiftA = "A"
	ShiftB = "B"
	ShiftC = "C"
)

const (
	SourceManual        = "Manual"
	SourceReassigned    = "Re-Assigned"
	SourceTechnicianAdd = "Technician Add"
	SourceWeeklyPending = "Weekly Pending"
	SourceMonthly       = "Monthly"
)

// DateLayout is the calendar-date format for targetDate and officer dates.
const DateLayout = "2006-01-02"

// DateOf is the calendar date of t in t's own zone. Timestamps are stored in
// UTC, calendar dates follow the plant clock.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

type Job struct {
	ID               string    `json:"id"`
	TargetDate       string    `json:"targetDate"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	Area             string    `json:"area"`
	Loop             string    `json:"loop"`
	Tag              string    `json:"tag"`
	TypeOfInstrument string    `json:"typeOfInstrument"`
	JobType          string    `json:"jobType"`
	Technician       string    `json:"technician"`
	Engineer         string    `json:"engineer"`
	Status           string    `json:"status"`
	PendingWrite     bool      `json:"pendingWrite"`
	Emergency        bool      `json:"emergency"`
	Abnormality      bool      `json:"abnormality"`
	ExtraDutyHours   int       `json:"extraDutyHours"`
	Shift            string    `json:"shift"`
	Priority         int       `json:"priority"`
	Locked           bool      `json:"locked"`
	Source           string    `json:"source"`
	Description      string    `json:"description"`
	Remarks          []Remark  `json:"remarks"`
}

// Closed reports whether the job carries the terminal status.
func (j Job) Closed() bool {
	return j.Status == StatusOver
}

// LastTouched is updatedAt, or createdAt when the job was never updated.
func (j Job) LastTouched() time.Time {
	if j.UpdatedAt.IsZero() {
		return j.CreatedAt
	}
	return j.UpdatedAt
}

const (
	RemarkEngineer  = "engineer"
	RemarkExecutive = "executive"
)

type Remark struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Date      string `json:"date"`
	AckTech   bool   `json:"ackTech"`
	AckEng    bool   `json:"ackEng"`
	AckByTech bool   `json:"ackByTech"`
	AckByEng  bool   `json:"ackByEng"`
}

type OfficerEntry struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Plant       string    `json:"plant"`
	Shift       string    `json:"shift"`
	Time        string    `json:"time"`
	TagNo       string    `json:"tagNo"`
	JobType     string    `json:"jobType"`
	Description string    `json:"description"`
	Officer     string    `json:"officer"`
	Status      string    `json:"status"`
	Remarks     string    `json:"remarks"`
	SourceJobID string    `json:"sourceJobId"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PlantState struct {
	Jobs []Job `json:"jobs"`
}

type OfficerState struct {
	Entries []OfficerEntry `json:"entries"`
}

type UIState struct {
	TechnicianSelectedView string `json:"technicianSelectedView"`
}

// RootState is the whole persisted logbook document.
type RootState struct {
	Version int                   `json:"version"`
	Plants  map[string]PlantState `json:"plants"`
	Officer OfficerState          `json:"officer"`
	UI      UIState               `json:"ui"`
}

// Empty returns a state with initialized collections and the current schema version.
func Empty() RootState {
	return RootState{
		Version: SchemaVersion,
		Plants:  map[string]PlantState{},
		Officer: OfficerState{Entries: []OfficerEntry{}},
		UI:      UIState{TechnicianSelectedView: "today"},
	}
}
