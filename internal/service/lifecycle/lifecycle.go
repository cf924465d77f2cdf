// Package lifecycle drives jobs from assignment through write-up to closure
// and keeps the officer ledger and backlog alarm in step with every change.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/normalize"
	"plant-logbook/internal/service/officer"
	"plant-logbook/internal/storage"
)

// Repository is the part of jobs.Repository the controller needs.
type Repository interface {
	GetJobs(ctx context.Context, plant string) ([]storage.Job, error)
	Mutate(ctx context.Context, plant string, fn func(state *storage.RootState, list *[]storage.Job) error) (storage.RootState, error)
	Views(plant string, list []storage.Job, ref time.Time) jobs.Views
	SelectView(ctx context.Context, view jobs.View) error
	SelectedView(ctx context.Context) jobs.View
}

// ReferenceData answers pick-list membership questions for a plant.
type ReferenceData interface {
	KnownTechnician(plant, name string) bool
	KnownEngineer(plant, name string) bool
	KnownArea(plant, area string) bool
	KnownTag(plant, loop, tag string) bool
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithThresholds(t Thresholds) Option {
	return func(c *Controller) { c.thresholds = t }
}

// WithIDs replaces the random id source.
func WithIDs(next func() string) Option {
	return func(c *Controller) { c.nextID = next }
}

type Controller struct {
	log        *slog.Logger
	repo       Repository
	ref        ReferenceData
	validate   *validator.Validate
	now        func() time.Time
	nextID     func() string
	thresholds Thresholds

	mu      sync.Mutex
	session SessionContext
}

// Outcome is what every mutation hands back to the caller.
type Outcome struct {
	Job     *storage.Job `json:"job,omitempty"`
	Views   jobs.Views   `json:"views"`
	Backlog Backlog      `json:"backlog"`
	Notices []Notice     `json:"notices"`
}

func New(log *slog.Logger, repo Repository, ref ReferenceData, opts ...Option) *Controller {
	c := &Controller{
		log:        log,
		repo:       repo,
		ref:        ref,
		validate:   newValidator(),
		now:        time.Now,
		nextID:     uuid.NewString,
		thresholds: DefaultThresholds,
		session: SessionContext{
			CurrentView: jobs.ViewToday,
			Role:        RoleTechnician,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Restore picks up the persisted view selection.
func (c *Controller) Restore(ctx context.Context) {
	view := c.repo.SelectedView(ctx)

	c.mu.Lock()
	c.session.CurrentView = view
	c.mu.Unlock()
}

func (c *Controller) Session() SessionContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) SetPlant(plant string) {
	c.mu.Lock()
	c.session.Plant = jobs.PlantCode(plant)
	c.mu.Unlock()
}

func (c *Controller) SetRole(role Role) {
	c.mu.Lock()
	c.session.Role = role
	c.mu.Unlock()
}

// SetPendingOnly toggles the pending filter. It cannot be switched off while
// the plant in session is over the blocking threshold.
func (c *Controller) SetPendingOnly(ctx context.Context, on bool) (SessionContext, error) {
	const op = "service.lifecycle.SetPendingOnly"

	c.mu.Lock()
	defer c.mu.Unlock()

	if !on && c.session.Plant != "" {
		list, err := c.repo.GetJobs(ctx, c.session.Plant)
		if err != nil {
			return c.session, fmt.Errorf("%s: %w", op, err)
		}
		if c.thresholds.Level(jobs.CountPending(list)) == BacklogBlocking {
			return c.session, invalid("pendingOnly", "backlog")
		}
	}

	c.session.PendingOnly = on
	return c.session, nil
}

// SelectView switches the session view and persists the choice.
func (c *Controller) SelectView(ctx context.Context, view string) (SessionContext, error) {
	const op = "service.lifecycle.SelectView"

	v, err := jobs.ParseView(strings.TrimSpace(view))
	if err != nil {
		return c.Session(), invalid("view", "oneof")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.repo.SelectView(ctx, v); err != nil {
		return c.session, fmt.Errorf("%s: %w", op, err)
	}
	c.session.CurrentView = v

	return c.session, nil
}

// Views returns the plant's buckets around ref as the session should see
// them. A zero ref means today.
func (c *Controller) Views(ctx context.Context, plant string, ref time.Time) (jobs.Views, Backlog, error) {
	const op = "service.lifecycle.Views"

	plant = jobs.PlantCode(plant)
	list, err := c.repo.GetJobs(ctx, plant)
	if err != nil {
		return jobs.Views{}, Backlog{}, fmt.Errorf("%s: %w", op, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if ref.IsZero() {
		ref = c.now()
	}

	backlog, _ := c.backlog(plant, list)
	return c.filtered(c.repo.Views(plant, list, ref)), backlog, nil
}

// Assign creates a new open job for a technician on the date the view points at.
func (c *Controller) Assign(ctx context.Context, plant string, req AssignRequest) (Outcome, error) {
	const op = "service.lifecycle.Assign"

	plant = jobs.PlantCode(plant)
	req.trim()
	if err := c.validate.Struct(req); err != nil {
		return Outcome{}, fromValidator(err)
	}
	if err := c.checkRefs(plant, req.Technician, req.Engineer, req.Area, req.Loop, req.Tag); err != nil {
		return Outcome{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	view := c.session.CurrentView
	if req.View != "" {
		v, err := jobs.ParseView(req.View)
		if err != nil {
			return Outcome{}, invalid("view", "oneof")
		}
		view = v
	}

	clock := c.now()
	now := clock.UTC()
	job := storage.Job{
		ID:               c.id("J"),
		TargetDate:       targetDate(view, clock),
		CreatedAt:        now,
		UpdatedAt:        now,
		Area:             req.Area,
		Loop:             req.Loop,
		Tag:              req.Tag,
		TypeOfInstrument: req.TypeOfInstrument,
		JobType:          req.JobType,
		Technician:       req.Technician,
		Engineer:         req.Engineer,
		PendingWrite:     true,
		Emergency:        req.Emergency,
		Abnormality:      req.JobType == storage.JobTypeAbnormality,
		Shift:            normalize.InferShift(req.Shift),
		Priority:         req.Priority,
		Source:           sourceFor(view),
		Description:      req.Description,
		Remarks:          []storage.Remark{},
	}

	st, err := c.repo.Mutate(ctx, plant, func(_ *storage.RootState, list *[]storage.Job) error {
		*list = append(*list, job)
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("job assigned",
		slog.String("op", op),
		slog.String("plant", plant),
		slog.String("job_id", job.ID),
		slog.String("technician", job.Technician),
	)

	return c.outcome(plant, st, job.ID, Notice{Severity: SeverityInfo, Message: "Job assigned to " + job.Technician}), nil
}

// TechnicianAdd logs a job the technician carried out without an assignment.
func (c *Controller) TechnicianAdd(ctx context.Context, plant string, req TechnicianAddRequest) (Outcome, error) {
	const op = "service.lifecycle.TechnicianAdd"

	plant = jobs.PlantCode(plant)
	req.trim()
	if err := c.validate.Struct(req); err != nil {
		return Outcome{}, fromValidator(err)
	}
	if err := c.checkRefs(plant, req.Technician, req.Engineer, req.Area, req.Loop, req.Tag); err != nil {
		return Outcome{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	clock := c.now()
	now := clock.UTC()
	date := storage.DateOf(clock)
	if req.TargetDate != "" {
		date = req.TargetDate
	}

	job := storage.Job{
		ID:               c.id("J"),
		TargetDate:       date,
		CreatedAt:        now,
		UpdatedAt:        now,
		Area:             req.Area,
		Loop:             req.Loop,
		Tag:              req.Tag,
		TypeOfInstrument: req.TypeOfInstrument,
		JobType:          req.JobType,
		Technician:       req.Technician,
		Engineer:         req.Engineer,
		Status:           req.Status,
		Emergency:        req.Emergency,
		Abnormality:      req.JobType == storage.JobTypeAbnormality,
		ExtraDutyHours:   normalize.Hours(req.ExtraDutyHours),
		Shift:            normalize.InferShift(req.Shift),
		Locked:           req.Status == storage.StatusOver,
		Source:           storage.SourceTechnicianAdd,
		Description:      req.Description,
		Remarks:          []storage.Remark{},
	}

	var notices []Notice
	st, err := c.repo.Mutate(ctx, plant, func(state *storage.RootState, list *[]storage.Job) error {
		*list = append(*list, job)
		if _, ok := officer.UpsertFromJob(state, plant, job, now); ok {
			notices = append(notices, Notice{Severity: SeverityInfo, Message: "Officer log updated"})
		}
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("technician job added", slog.String("op", op), slog.String("plant", plant), slog.String("job_id", job.ID))

	notices = append([]Notice{{Severity: SeverityInfo, Message: "Job saved"}}, notices...)
	return c.outcome(plant, st, job.ID, notices...), nil
}

// Write saves the technician's write-up. Locked jobs are rejected untouched.
func (c *Controller) Write(ctx context.Context, plant, id string, req WriteRequest) (Outcome, error) {
	const op = "service.lifecycle.Write"

	plant = jobs.PlantCode(plant)
	req.trim()
	if err := c.validate.Struct(req); err != nil {
		return Outcome{}, fromValidator(err)
	}
	if err := c.checkRefs(plant, req.Technician, req.Engineer, req.Area, "", ""); err != nil {
		return Outcome{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	var closed bool

	st, err := c.repo.Mutate(ctx, plant, func(state *storage.RootState, list *[]storage.Job) error {
		i := jobs.FindJob(*list, id)
		if i < 0 {
			return storage.ErrJobNotFound
		}
		j := (*list)[i]
		if j.Locked {
			return locked(id)
		}

		j.Description = req.Description
		j.Status = req.Status
		if req.Technician != "" {
			j.Technician = req.Technician
		}
		j.Engineer = req.Engineer
		if req.Area != "" {
			j.Area = req.Area
		}
		j.Emergency = req.Emergency
		j.ExtraDutyHours = normalize.Hours(req.ExtraDutyHours)
		if req.Shift != "" {
			j.Shift = normalize.InferShift(req.Shift)
		}
		if req.JobType != "" {
			j.JobType = req.JobType
		}
		j.Abnormality = j.JobType == storage.JobTypeAbnormality
		j.PendingWrite = false
		j.UpdatedAt = now

		if j.Closed() {
			c.close(state, plant, &j, now)
			closed = true
		}

		(*list)[i] = j
		return nil
	})
	if err != nil {
		return Outcome{}, c.mutationError(op, plant, id, err)
	}

	notice := Notice{Severity: SeverityInfo, Message: "Job updated"}
	if closed {
		notice.Message = "Job closed and locked"
		c.log.Info("job closed", slog.String("op", op), slog.String("plant", plant), slog.String("job_id", id))
	}

	return c.outcome(plant, st, id, notice), nil
}

// AppendRemark adds a remark to an open job. With MarkOver the job is closed
// exactly as a write-up with the closing status would close it.
func (c *Controller) AppendRemark(ctx context.Context, plant, id string, req RemarkRequest) (Outcome, error) {
	const op = "service.lifecycle.AppendRemark"

	plant = jobs.PlantCode(plant)
	req.trim()
	if err := c.validate.Struct(req); err != nil {
		return Outcome{}, fromValidator(err)
	}
	if req.Type == "" {
		req.Type = storage.RemarkEngineer
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	clock := c.now()
	now := clock.UTC()

	st, err := c.repo.Mutate(ctx, plant, func(state *storage.RootState, list *[]storage.Job) error {
		i := jobs.FindJob(*list, id)
		if i < 0 {
			return storage.ErrJobNotFound
		}
		j := (*list)[i]
		if j.Locked {
			return locked(id)
		}

		j.Remarks = append(append([]storage.Remark{}, j.Remarks...), storage.Remark{
			ID:      c.id("R"),
			Type:    req.Type,
			Text:    req.Text,
			Author:  req.Author,
			Date:    storage.DateOf(clock),
			AckTech: req.AckTech,
			AckEng:  req.AckEng,
		})
		j.UpdatedAt = now

		if req.MarkOver {
			j.Status = storage.StatusOver
			j.PendingWrite = false
			c.close(state, plant, &j, now)
		}

		(*list)[i] = j
		return nil
	})
	if err != nil {
		return Outcome{}, c.mutationError(op, plant, id, err)
	}

	notice := Notice{Severity: SeverityInfo, Message: "Remark added"}
	if req.MarkOver {
		notice.Message = "Remark added, job closed and locked"
	}

	return c.outcome(plant, st, id, notice), nil
}

// Acknowledge confirms the given remarks for role. Only remarks that asked
// that role for an acknowledgment change. Locked jobs are allowed.
func (c *Controller) Acknowledge(ctx context.Context, plant string, role Role, targets []AckTarget) (Outcome, error) {
	const op = "service.lifecycle.Acknowledge"

	plant = jobs.PlantCode(plant)
	if _, ok := ParseRole(string(role)); !ok {
		return Outcome{}, invalid("role", "oneof")
	}
	if len(targets) == 0 {
		return Outcome{}, invalid("targets", "required")
	}
	for _, t := range targets {
		if err := c.validate.Struct(t); err != nil {
			return Outcome{}, fromValidator(err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	acked := 0
	st, err := c.repo.Mutate(ctx, plant, func(_ *storage.RootState, list *[]storage.Job) error {
		for _, t := range targets {
			i := jobs.FindJob(*list, t.JobID)
			if i < 0 {
				continue
			}
			j := (*list)[i]
			remarks := append([]storage.Remark{}, j.Remarks...)
			for k := range remarks {
				if remarks[k].ID != t.RemarkID || !pendingFor(remarks[k], role) {
					continue
				}
				if role == RoleTechnician {
					remarks[k].AckByTech = true
				} else {
					remarks[k].AckByEng = true
				}
				acked++
			}
			j.Remarks = remarks
			(*list)[i] = j
		}
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("remarks acknowledged", slog.String("op", op), slog.String("plant", plant), slog.String("role", string(role)), slog.Int("count", acked))

	out := c.outcome(plant, st, "", Notice{Severity: SeverityInfo, Message: fmt.Sprintf("%d remark(s) acknowledged", acked)})
	return out, nil
}

type PendingAck struct {
	JobID  string         `json:"jobId"`
	Tag    string         `json:"tag"`
	Remark storage.Remark `json:"remark"`
}

// PendingAcks lists remarks still waiting for role's acknowledgment.
func (c *Controller) PendingAcks(ctx context.Context, plant string, role Role) ([]PendingAck, error) {
	const op = "service.lifecycle.PendingAcks"

	if _, ok := ParseRole(string(role)); !ok {
		return nil, invalid("role", "oneof")
	}

	list, err := c.repo.GetJobs(ctx, plant)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := []PendingAck{}
	for _, j := range list {
		for _, r := range j.Remarks {
			if pendingFor(r, role) {
				out = append(out, PendingAck{JobID: j.ID, Tag: j.Tag, Remark: r})
			}
		}
	}
	return out, nil
}

// Reassign opens a fresh job for today copied from an existing one. The
// source job is not modified, so locked jobs can be reassigned too.
func (c *Controller) Reassign(ctx context.Context, plant, id, technician string) (Outcome, error) {
	const op = "service.lifecycle.Reassign"

	plant = jobs.PlantCode(plant)
	technician = strings.TrimSpace(technician)
	if technician != "" && !c.ref.KnownTechnician(plant, technician) {
		return Outcome{}, invalid("technician", "unknown")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	clock := c.now()
	now := clock.UTC()
	newID := c.id("J")

	st, err := c.repo.Mutate(ctx, plant, func(_ *storage.RootState, list *[]storage.Job) error {
		i := jobs.FindJob(*list, id)
		if i < 0 {
			return storage.ErrJobNotFound
		}
		src := (*list)[i]

		j := storage.Job{
			ID:               newID,
			TargetDate:       storage.DateOf(clock),
			CreatedAt:        now,
			UpdatedAt:        now,
			Area:             src.Area,
			Loop:             src.Loop,
			Tag:              src.Tag,
			TypeOfInstrument: src.TypeOfInstrument,
			JobType:          src.JobType,
			Technician:       src.Technician,
			Shift:            src.Shift,
			PendingWrite:     true,
			Abnormality:      src.JobType == storage.JobTypeAbnormality,
			Source:           storage.SourceReassigned,
			Remarks:          []storage.Remark{},
		}
		if technician != "" {
			j.Technician = technician
		}

		*list = append(*list, j)
		return nil
	})
	if err != nil {
		return Outcome{}, c.mutationError(op, plant, id, err)
	}

	c.log.Info("job reassigned", slog.String("op", op), slog.String("plant", plant), slog.String("from", id), slog.String("job_id", newID))

	return c.outcome(plant, st, newID, Notice{Severity: SeverityInfo, Message: "Job re-assigned"}), nil
}

// ReplaceJobs swaps the plant's list for list in one write. Locked jobs are
// kept as stored, whether list edits them or leaves them out. Incoming jobs
// carrying the closing status are closed like a write-up.
func (c *Controller) ReplaceJobs(ctx context.Context, plant string, list []storage.Job) (Outcome, error) {
	const op = "service.lifecycle.ReplaceJobs"

	plant = jobs.PlantCode(plant)
	if plant == "" {
		return Outcome{}, invalid("plant", "required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	var kept, closed int

	st, err := c.repo.Mutate(ctx, plant, func(state *storage.RootState, stored *[]storage.Job) error {
		frozen := make(map[string]storage.Job)
		for _, j := range *stored {
			if j.Locked {
				frozen[j.ID] = j
			}
		}

		out := make([]storage.Job, 0, len(list)+len(frozen))
		seen := make(map[string]bool, len(list))
		for _, j := range list {
			if seen[j.ID] && j.ID != "" {
				continue
			}
			seen[j.ID] = true

			if old, ok := frozen[j.ID]; ok {
				out = append(out, old)
				delete(frozen, j.ID)
				kept++
				continue
			}
			if j.Remarks == nil {
				j.Remarks = []storage.Remark{}
			} else {
				j.Remarks = append([]storage.Remark{}, j.Remarks...)
			}
			if j.Closed() {
				j.PendingWrite = false
				c.close(state, plant, &j, now)
				closed++
			}
			out = append(out, j)
		}

		// locked jobs cannot be dropped by a replace
		for _, j := range *stored {
			if _, ok := frozen[j.ID]; ok {
				out = append(out, j)
				kept++
			}
		}

		*stored = out
		return nil
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info("job list replaced",
		slog.String("op", op),
		slog.String("plant", plant),
		slog.Int("count", len(list)),
		slog.Int("locked_kept", kept),
		slog.Int("closed", closed),
	)

	notices := []Notice{{Severity: SeverityInfo, Message: "Job list saved"}}
	if kept > 0 {
		notices = append(notices, Notice{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d locked job(s) kept unchanged", kept),
		})
	}

	return c.outcome(plant, st, "", notices...), nil
}

// close locks j and records it in the officer ledger. j.Status must already
// be the closing status.
func (c *Controller) close(state *storage.RootState, plant string, j *storage.Job, now time.Time) {
	j.Locked = true
	if _, ok := officer.UpsertFromJob(state, plant, *j, now); !ok {
		c.log.Debug("closed job kept out of officer ledger", slog.String("job_id", j.ID), slog.String("shift", j.Shift))
	}
}

func (c *Controller) checkRefs(plant, technician, engineer, area, loop, tag string) error {
	fields := map[string]string{}
	if technician != "" && !c.ref.KnownTechnician(plant, technician) {
		fields["technician"] = "unknown"
	}
	if engineer != "" && !c.ref.KnownEngineer(plant, engineer) {
		fields["engineer"] = "unknown"
	}
	if area != "" && !c.ref.KnownArea(plant, area) {
		fields["area"] = "unknown"
	}
	if loop != "" && tag != "" && !c.ref.KnownTag(plant, loop, tag) {
		fields["tag"] = "unknown"
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields, Err: ErrValidation}
}

func (c *Controller) mutationError(op, plant, id string, err error) error {
	if errors.Is(err, ErrValidation) {
		c.log.Warn("mutation rejected", slog.String("op", op), slog.String("plant", plant), slog.String("job_id", id), slog.String("error", err.Error()))
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

// outcome must be called with mu held.
func (c *Controller) outcome(plant string, st storage.RootState, id string, notices ...Notice) Outcome {
	list := st.Plants[plant].Jobs

	backlog, notice := c.backlog(plant, list)
	if notice != nil {
		notices = append(notices, *notice)
	}

	out := Outcome{
		Views:   c.filtered(c.repo.Views(plant, list, c.now())),
		Backlog: backlog,
		Notices: notices,
	}
	if id != "" {
		if i := jobs.FindJob(list, id); i >= 0 {
			j := list[i]
			out.Job = &j
		}
	}
	return out
}

// backlog must be called with mu held. Over the blocking threshold the
// session is forced onto pending-only.
func (c *Controller) backlog(plant string, list []storage.Job) (Backlog, *Notice) {
	pending := jobs.CountPending(list)
	b := Backlog{Plant: plant, Pending: pending, Level: c.thresholds.Level(pending)}

	switch b.Level {
	case BacklogBlocking:
		if !c.session.PendingOnly {
			c.log.Warn("pending backlog over blocking threshold", slog.String("plant", plant), slog.Int("pending", pending))
		}
		c.session.PendingOnly = true
		return b, &Notice{
			Severity: SeverityError,
			Message:  fmt.Sprintf("%d jobs are pending write-up in %s. Only pending jobs are shown until the backlog is cleared.", pending, plant),
			Blocking: true,
		}
	case BacklogWarning:
		return b, &Notice{
			Severity: SeverityWarning,
			Message:  fmt.Sprintf("%d jobs are pending write-up in %s.", pending, plant),
		}
	}
	return b, nil
}

func (c *Controller) filtered(v jobs.Views) jobs.Views {
	if c.session.PendingOnly {
		return v.PendingOnly()
	}
	return v
}

func (c *Controller) id(prefix string) string {
	return prefix + "-" + c.nextID()
}

func pendingFor(r storage.Remark, role Role) bool {
	switch role {
	case RoleTechnician:
		return r.AckTech && !r.AckByTech
	case RoleEngineer:
		return r.AckEng && !r.AckByEng
	}
	return false
}

func targetDate(view jobs.View, clock time.Time) string {
	switch view {
	case jobs.ViewTomorrow:
		return storage.DateOf(clock.AddDate(0, 0, 1))
	case jobs.ViewPrev:
		return storage.DateOf(clock.AddDate(0, 0, -1))
	}
	return storage.DateOf(clock)
}

func sourceFor(view jobs.View) string {
	switch view {
	case jobs.ViewWeekly:
		return storage.SourceWeeklyPending
	case jobs.ViewMonthly:
		return storage.SourceMonthly
	}
	return fmt.Sprintf("Assign(%s)", view)
}
