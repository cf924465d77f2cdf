// Package normalize coerces arbitrary or legacy logbook records into the
// canonical storage shape. Nothing in here returns an error or panics: bad
// input is replaced by defaults.
package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"plant-logbook/internal/storage"
)

// Defaults downstream filters key off; keep the literals stable.
const (
	DefaultArea             = "N.A"
	DefaultLoop             = "N.A"
	DefaultTag              = "N.A"
	DefaultTypeOfInstrument = "OTHERS"
	DefaultJobType          = "Routine Check"
	DefaultSource           = storage.SourceManual
	DefaultShift            = storage.ShiftA

	DefaultOfficerPlant = "N.A"
	DefaultOfficerName  = "N.A"
	DefaultTagNo        = "N.A"

	MaxPriority = 25
)

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

var shiftTimes = map[string]string{
	storage.ShiftA: "06:00 - 14:00",
	storage.ShiftB: "14:00 - 22:00",
	storage.ShiftC: "22:00 - 06:00",
}

// ShiftTime is the display window of a shift; unknown shifts map to shift A.
func ShiftTime(shift string) string {
	if t, ok := shiftTimes[shift]; ok {
		return t
	}
	return shiftTimes[DefaultShift]
}

// InferShift picks the first recognizable shift out of free-text values such
// as "B" or "14:00 - 22:00". Unrecognized input falls back to shift A.
func InferShift(values ...string) string {
	for _, v := range values {
		s := strings.ToUpper(strings.TrimSpace(v))
		switch s {
		case storage.ShiftA, storage.ShiftB, storage.ShiftC:
			return s
		}
		// a window is identified by its start, "22:00 - 06:00" is C
		switch {
		case strings.HasPrefix(s, "06:00"):
			return storage.ShiftA
		case strings.HasPrefix(s, "14:00"):
			return storage.ShiftB
		case strings.HasPrefix(s, "22:00"):
			return storage.ShiftC
		}
	}
	return DefaultShift
}

// Job converts a raw record into a canonical job. index only feeds id synthesis.
func Job(raw map[string]any, index int, now time.Time) storage.Job {
	createdAt := timestamp(raw["createdAt"], now)
	jobType := text(raw["jobType"], DefaultJobType)
	status := text(raw["status"], "")

	j := storage.Job{
		ID:               text(raw["id"], fmt.Sprintf("J-%d-%d", now.UnixMilli(), index)),
		TargetDate:       targetDate(raw, now),
		CreatedAt:        createdAt,
		UpdatedAt:        timestamp(raw["updatedAt"], createdAt),
		Area:             text(raw["area"], DefaultArea),
		Loop:             text(raw["loop"], DefaultLoop),
		Tag:              text(raw["tag"], DefaultTag),
		TypeOfInstrument: text(raw["typeOfInstrument"], DefaultTypeOfInstrument),
		JobType:          jobType,
		Technician:       text(raw["technician"], ""),
		Engineer:         text(raw["engineer"], ""),
		Status:           status,
		PendingWrite:     flag(raw["pendingWrite"]),
		Emergency:        flag(raw["emergency"]),
		Abnormality:      flag(raw["abnormality"]) || jobType == storage.JobTypeAbnormality,
		ExtraDutyHours:   Hours(raw["extraDutyHours"]),
		Shift:            InferShift(text(raw["shift"], ""), text(raw["time"], "")),
		Priority:         clamp(integer(raw["priority"]), 0, MaxPriority),
		Locked:           flag(raw["locked"]) || status == storage.StatusOver,
		Source:           text(raw["source"], DefaultSource),
		Description:      text(raw["description"], ""),
		Remarks:          Remarks(raw["remarks"], now),
	}

	return j
}

// PlantJob is Job for a record stored under plant. A synthesized id carries
// the plant code, so id-less records of two plants never collide.
func PlantJob(plant string, raw map[string]any, index int, now time.Time) storage.Job {
	j := Job(raw, index, now)
	if plant != "" && !HasID(raw) {
		j.ID = fmt.Sprintf("J-%s-%d-%d", plant, now.UnixMilli(), index)
	}
	return j
}

// HasID reports whether raw carries an id of its own.
func HasID(raw map[string]any) bool {
	return text(raw["id"], "") != ""
}

// PlantCode canonicalizes a plant code: trimmed, upper case.
func PlantCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// JobValue re-normalizes an already typed job by routing it through its raw shape.
func JobValue(j storage.Job, index int, now time.Time) storage.Job {
	return Job(toRaw(j), index, now)
}

// Remarks normalizes a raw remark list. Plain strings become remark texts,
// anything else that is not an object is dropped.
func Remarks(v any, now time.Time) []storage.Remark {
	list, _ := v.([]any)
	out := make([]storage.Remark, 0, len(list))
	for i, item := range list {
		switch r := item.(type) {
		case map[string]any:
			out = append(out, Remark(r, i, now))
		case string:
			out = append(out, Remark(map[string]any{"text": r}, i, now))
		}
	}
	return out
}

func Remark(raw map[string]any, index int, now time.Time) storage.Remark {
	kind := text(raw["type"], storage.RemarkEngineer)
	if kind != storage.RemarkEngineer && kind != storage.RemarkExecutive {
		kind = storage.RemarkEngineer
	}

	r := storage.Remark{
		ID:      text(raw["id"], fmt.Sprintf("R-%d-%d", now.UnixMilli(), index)),
		Type:    kind,
		Text:    text(raw["text"], ""),
		Author:  text(raw["author"], ""),
		Date:    date(raw["date"], now),
		AckTech: flag(raw["ackTech"]),
		AckEng:  flag(raw["ackEng"]),
	}
	// a fulfilled ack without a request is meaningless
	r.AckByTech = r.AckTech && flag(raw["ackByTech"])
	r.AckByEng = r.AckEng && flag(raw["ackByEng"])

	return r
}

func OfficerEntry(raw map[string]any, index int, now time.Time) storage.OfficerEntry {
	shift := InferShift(text(raw["shift"], ""), text(raw["time"], ""))

	return storage.OfficerEntry{
		ID:          text(raw["id"], fmt.Sprintf("O-%d-%d", now.UnixMilli(), index)),
		Date:        date(raw["date"], now),
		Plant:       PlantCode(text(raw["plant"], DefaultOfficerPlant)),
		Shift:       shift,
		Time:        text(raw["time"], ShiftTime(shift)),
		TagNo:       text(raw["tagNo"], text(raw["tag"], DefaultTagNo)),
		JobType:     text(raw["jobType"], DefaultJobType),
		Description: text(raw["description"], ""),
		Officer:     text(raw["officer"], DefaultOfficerName),
		Status:      text(raw["status"], storage.OfficerStatusOver),
		Remarks:     text(raw["remarks"], ""),
		SourceJobID: text(raw["sourceJobId"], ""),
		UpdatedAt:   timestamp(raw["updatedAt"], now),
	}
}

func OfficerEntryValue(e storage.OfficerEntry, index int, now time.Time) storage.OfficerEntry {
	return OfficerEntry(toRaw(e), index, now)
}

// Hours coerces extra duty hours to a non-negative integer by truncation.
func Hours(v any) int {
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Trunc(f))
}

// ParseDate parses a calendar date, accepting a longer ISO timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if !isoDate.MatchString(s) {
		return time.Time{}, false
	}
	d, err := time.Parse(storage.DateLayout, s[:10])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func targetDate(raw map[string]any, now time.Time) string {
	if s, ok := raw["targetDate"].(string); ok {
		if d, ok := ParseDate(s); ok {
			return d.Format(storage.DateLayout)
		}
	}
	// legacy records only carried "date"
	if s, ok := raw["date"].(string); ok {
		if d, ok := ParseDate(s); ok {
			return d.Format(storage.DateLayout)
		}
	}
	return storage.DateOf(now)
}

func date(v any, now time.Time) string {
	if s, ok := v.(string); ok {
		if d, ok := ParseDate(s); ok {
			return d.Format(storage.DateLayout)
		}
	}
	return storage.DateOf(now)
}

func timestamp(v any, fallback time.Time) time.Time {
	switch t := v.(type) {
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(t))
		if err == nil && !parsed.IsZero() {
			return parsed.UTC()
		}
		if d, ok := ParseDate(t); ok {
			return d
		}
	case time.Time:
		if !t.IsZero() {
			return t.UTC()
		}
	default:
		// epoch milliseconds from older clients
		if f, ok := number(v); ok && f > 0 && !math.IsInf(f, 0) {
			return time.UnixMilli(int64(f)).UTC()
		}
	}
	return fallback.UTC()
}

func text(v any, def string) string {
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		s = strconv.Itoa(t)
	case json.Number:
		s = t.String()
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func flag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true
		}
	default:
		if f, ok := number(v); ok {
			return f != 0 && !math.IsNaN(f)
		}
	}
	return false
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

func integer(v any) int {
	f, ok := number(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	if f < math.MinInt32 {
		return math.MinInt32
	}
	return int(math.Trunc(f))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toRaw(v any) map[string]any {
	raw := map[string]any{}
	b, err := json.Marshal(v)
	if err != nil {
		return raw
	}
	_ = json.Unmarshal(b, &raw)
	return raw
}
