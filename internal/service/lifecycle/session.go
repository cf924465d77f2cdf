package lifecycle

import "plant-logbook/internal/service/jobs"

type Role string

const (
	RoleTechnician Role = "technician"
	RoleEngineer   Role = "engineer"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleTechnician, RoleEngineer:
		return r, true
	}
	return "", false
}

// SessionContext is the per-session UI state the controller carries between calls.
type SessionContext struct {
	CurrentView jobs.View `json:"currentView"`
	PendingOnly bool      `json:"pendingOnly"`
	Role        Role      `json:"role"`
	Plant       string    `json:"plant"`
}

type BacklogLevel string

const (
	BacklogOK       BacklogLevel = "ok"
	BacklogWarning  BacklogLevel = "warning"
	BacklogBlocking BacklogLevel = "blocking"
)

type Backlog struct {
	Plant   string       `json:"plant"`
	Pending int          `json:"pending"`
	Level   BacklogLevel `json:"level"`
}

// Thresholds are strict: a backlog equal to Warn is still ok.
type Thresholds struct {
	Warn  int
	Block int
}

var DefaultThresholds = Thresholds{Warn: 50, Block: 150}

func (t Thresholds) Level(pending int) BacklogLevel {
	switch {
	case pending > t.Block:
		return BacklogBlocking
	case pending > t.Warn:
		return BacklogWarning
	}
	return BacklogOK
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notice is a transient message for the user.
type Notice struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Blocking bool     `json:"blocking,omitempty"`
}
