package lifecycle

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/refdata"
	"plant-logbook/internal/service/store"
	"plant-logbook/internal/storage"
	"plant-logbook/internal/storage/memory"
)

var now = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

const today = "2026-10-19"

type fixture struct {
	ctl   *Controller
	repo  *jobs.Repository
	store *store.Store
}

func newFixture(t *testing.T, ref ReferenceData) fixture {
	t.Helper()
	return newFixtureAt(t, ref, now)
}

func newFixtureAt(t *testing.T, ref ReferenceData, at time.Time) fixture {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return at }
	st := store.New(log, memory.New(), store.WithClock(clock))
	repo := jobs.NewRepository(log, st, nil)

	if ref == nil {
		ref = refdata.Empty()
	}

	n := 0
	ids := func() string {
		n++
		return fmt.Sprintf("%03d", n)
	}

	return fixture{
		ctl:   New(log, repo, ref, WithClock(clock), WithIDs(ids)),
		repo:  repo,
		store: st,
	}
}

func validAssign() AssignRequest {
	return AssignRequest{
		Technician:       "Ravi",
		Area:             "Boiler House",
		Loop:             "FIC-101",
		Tag:              "FT-101",
		TypeOfInstrument: "TRANSMITTER",
		JobType:          "Routine Check",
		Description:      "Zero check",
	}
}

func (f fixture) assign(t *testing.T, mod func(*AssignRequest)) storage.Job {
	t.Helper()

	req := validAssign()
	if mod != nil {
		mod(&req)
	}
	out, err := f.ctl.Assign(context.Background(), "AA", req)
	require.NoError(t, err)
	require.NotNil(t, out.Job)
	return *out.Job
}

func (f fixture) job(t *testing.T, id string) storage.Job {
	t.Helper()

	list, err := f.repo.GetJobs(context.Background(), "AA")
	require.NoError(t, err)
	i := jobs.FindJob(list, id)
	require.GreaterOrEqual(t, i, 0, id)
	return list[i]
}

func closing() WriteRequest {
	return WriteRequest{Description: "Transmitter re-zeroed", Status: storage.StatusOver, Shift: "A", ExtraDutyHours: 2}
}

func TestAssign(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.ctl.Assign(context.Background(), "aa", validAssign())
	require.NoError(t, err)

	j := *out.Job
	assert.Equal(t, "J-001", j.ID)
	assert.Equal(t, today, j.TargetDate)
	assert.True(t, j.PendingWrite)
	assert.Empty(t, j.Status)
	assert.False(t, j.Locked)
	assert.Equal(t, "Assign(today)", j.Source)
	assert.Equal(t, []string{"J-001"}, idsOf(out.Views.Today))
	assert.Equal(t, Backlog{Plant: "AA", Pending: 1, Level: BacklogOK}, out.Backlog)
}

func TestAssign_ViewDecidesDateAndSource(t *testing.T) {
	tests := []struct {
		view   string
		date   string
		source string
	}{
		{view: "tomorrow", date: "2026-10-20", source: "Assign(tomorrow)"},
		{view: "prev", date: "2026-10-18", source: "Assign(prev)"},
		{view: "weekly", date: today, source: storage.SourceWeeklyPending},
		{view: "monthly", date: today, source: storage.SourceMonthly},
	}

	for _, tt := range tests {
		t.Run(tt.view, func(t *testing.T) {
			f := newFixture(t, nil)
			j := f.assign(t, func(r *AssignRequest) { r.View = tt.view })
			assert.Equal(t, tt.date, j.TargetDate)
			assert.Equal(t, tt.source, j.Source)
		})
	}
}

func TestAssign_UsesSessionView(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.ctl.SelectView(context.Background(), "tomorrow")
	require.NoError(t, err)

	j := f.assign(t, nil)
	assert.Equal(t, "2026-10-20", j.TargetDate)
}

func TestAssign_Validation(t *testing.T) {
	f := newFixture(t, nil)

	req := validAssign()
	req.Technician = "   "
	req.Loop = ""
	req.Priority = 40

	_, err := f.ctl.Assign(context.Background(), "AA", req)
	require.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{"technician": "required", "loop": "required", "priority": "lte"}, ve.Fields)

	list, err := f.repo.GetJobs(context.Background(), "AA")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.ctl.Assign(context.Background(), "AA", func() AssignRequest {
		r := validAssign()
		r.View = "yearly"
		return r
	}())
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAssign_ReferenceData(t *testing.T) {
	ref, err := refdata.Parse([]byte(`
plants:
  AA:
    technicians: [Ravi]
    loops:
      FIC-101: [FT-101]
`))
	require.NoError(t, err)
	f := newFixture(t, ref)

	f.assign(t, nil)

	req := validAssign()
	req.Technician = "Nobody"
	req.Tag = "PT-999"
	_, err = f.ctl.Assign(context.Background(), "AA", req)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, map[string]string{"technician": "unknown", "tag": "unknown"}, ve.Fields)
}

func TestWrite_InProgress(t *testing.T) {
	f := newFixture(t, nil)
	j := f.assign(t, nil)

	out, err := f.ctl.Write(context.Background(), "AA", j.ID, WriteRequest{
		Description:    "Impulse line flushed",
		Status:         "IN PROGRESS",
		Engineer:       "S. Iyer",
		Emergency:      true,
		ExtraDutyHours: -3,
		JobType:        storage.JobTypeAbnormality,
	})
	require.NoError(t, err)

	got := *out.Job
	assert.False(t, got.PendingWrite)
	assert.False(t, got.Locked)
	assert.Equal(t, "Ravi", got.Technician)
	assert.Equal(t, "S. Iyer", got.Engineer)
	assert.Equal(t, 0, got.ExtraDutyHours)
	assert.True(t, got.Abnormality)
	assert.True(t, got.Emergency)
	assert.True(t, now.Equal(got.UpdatedAt))
	assert.Empty(t, f.store.Load(context.Background()).Officer.Entries)
}

func TestWrite_ClosesAndLocks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	j := f.assign(t, nil)

	out, err := f.ctl.Write(ctx, "AA", j.ID, closing())
	require.NoError(t, err)

	assert.True(t, out.Job.Locked)
	assert.Equal(t, 2, out.Job.ExtraDutyHours)

	entries := f.store.Load(ctx).Officer.Entries
	require.Len(t, entries, 1)
	assert.Equal(t, j.ID, entries[0].SourceJobID)
	assert.Equal(t, storage.OfficerStatusOver, entries[0].Status)
	assert.Equal(t, "06:00 - 14:00", entries[0].Time)
}

func TestLockedJobRejectsEdits(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	j := f.assign(t, nil)

	_, err := f.ctl.Write(ctx, "AA", j.ID, closing())
	require.NoError(t, err)
	before := f.job(t, j.ID)

	_, err = f.ctl.Write(ctx, "AA", j.ID, WriteRequest{
		Description:    "changed",
		Status:         "IN PROGRESS",
		Technician:     "Meena",
		Area:           "Compressor",
		ExtraDutyHours: 9,
	})
	assert.ErrorIs(t, err, ErrJobLocked)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.ctl.AppendRemark(ctx, "AA", j.ID, RemarkRequest{Text: "late note"})
	assert.ErrorIs(t, err, ErrJobLocked)

	after := f.job(t, j.ID)
	assert.Equal(t, before, after)
	assert.Len(t, f.store.Load(ctx).Officer.Entries, 1)
}

func TestWrite_NightShiftStaysOutOfLedger(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	j := f.assign(t, nil)

	req := closing()
	req.Shift = "22:00 - 06:00"
	out, err := f.ctl.Write(ctx, "AA", j.ID, req)
	require.NoError(t, err)

	assert.True(t, out.Job.Locked)
	assert.Equal(t, storage.ShiftC, out.Job.Shift)
	assert.Empty(t, f.store.Load(ctx).Officer.Entries)
}

func TestWrite_Rejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	j := f.assign(t, nil)

	_, err := f.ctl.Write(ctx, "AA", j.ID, WriteRequest{Description: "  "})
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, f.job(t, j.ID).PendingWrite)

	_, err = f.ctl.Write(ctx, "AA", "J-missing", closing())
	assert.ErrorIs(t, err, storage.ErrJobNotFound)
}

func TestAppendRemark(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	j := f.assign(t, nil)

	out, err := f.ctl.AppendRemark(ctx, "AA", j.ID, RemarkRequest{Text: "check gland", Author: "S. Iyer", AckTech: true})
	require.NoError(t, err)

	require.Len(t, out.Job.Remarks, 1)
	r := out.Job.Remarks[0]
	assert.Equal(t, "R-002", r.ID)
	assert.Equal(t, storage.RemarkEngineer, r.Type)
	assert.True(t, r.AckTech)
	assert.False(t, r.AckEng)
	assert.False(t, r.AckByTech)
	assert.False(t, r.AckByEng)
	assert.False(t, out.Job.Locked)

	_, err = f.ctl.AppendRemark(ctx, "AA", j.ID, RemarkRequest{Text: ""})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.ctl.AppendRemark(ctx, "AA", j.ID, RemarkRequest{Text: "x", Type: "customer"})
	assert.ErrorIs(t, err, ErrValidation)
}

// Closing through a remark must behave like closing through a write-up.
func TestAppendRemark_MarkOverLocksAndLogs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	j := f.assign(t, func(r *AssignRequest) { r.Shift = "B" })

	out, err := f.ctl.AppendRemark(ctx, "AA", j.ID, RemarkRequest{Text: "done, closing", MarkOver: true})
	require.NoError(t, err)

	assert.Equal(t, storage.StatusOver, out.Job.Status)
	assert.True(t, out.Job.Locked)
	assert.False(t, out.Job.PendingWrite)

	entries := f.store.Load(ctx).Officer.Entries
	require.Len(t, entries, 1)
	assert.Equal(t, j.ID, entries[0].SourceJobID)
	assert.Equal(t, "done, closing", entries[0].Remarks)
	assert.Equal(t, "14:00 - 22:00", entries[0].Time)

	_, err = f.ctl.Write(ctx, "AA", j.ID, closing())
	assert.ErrorIs(t, err, ErrJobLocked)
}

func TestAcknowledge(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	j := f.assign(t, nil)

	out, err := f.ctl.AppendRemark(ctx, "AA", j.ID, RemarkRequest{Text: "read me", AckTech: true})
	require.NoError(t, err)
	remarkID := out.Job.Remarks[0].ID

	pending, err := f.ctl.PendingAcks(ctx, "AA", RoleTechnician)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, j.ID, pending[0].JobID)

	pending, err = f.ctl.PendingAcks(ctx, "AA", RoleEngineer)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// close first: acknowledgment still goes through on a locked job
	_, err = f.ctl.Write(ctx, "AA", j.ID, closing())
	require.NoError(t, err)

	target := []AckTarget{{JobID: j.ID, RemarkID: remarkID}}

	_, err = f.ctl.Acknowledge(ctx, "AA", RoleEngineer, target)
	require.NoError(t, err)
	r := f.job(t, j.ID).Remarks[0]
	assert.False(t, r.AckByEng)

	_, err = f.ctl.Acknowledge(ctx, "AA", RoleTechnician, append(target, AckTarget{JobID: "J-x", RemarkID: "R-x"}))
	require.NoError(t, err)
	r = f.job(t, j.ID).Remarks[0]
	assert.True(t, r.AckByTech)
	assert.False(t, r.AckByEng)

	pending, err = f.ctl.PendingAcks(ctx, "AA", RoleTechnician)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.ctl.Acknowledge(ctx, "AA", Role("admin"), target)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.ctl.Acknowledge(ctx, "AA", RoleTechnician, nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReassign(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	src := f.assign(t, func(r *AssignRequest) {
		r.View = "prev"
		r.Shift = "B"
		r.JobType = storage.JobTypeAbnormality
	})
	_, err := f.ctl.Write(ctx, "AA", src.ID, closing())
	require.NoError(t, err)
	before := f.job(t, src.ID)

	out, err := f.ctl.Reassign(ctx, "AA", src.ID, "Meena")
	require.NoError(t, err)

	j := *out.Job
	assert.NotEqual(t, src.ID, j.ID)
	assert.Equal(t, today, j.TargetDate)
	assert.Equal(t, storage.SourceReassigned, j.Source)
	assert.True(t, j.PendingWrite)
	assert.False(t, j.Locked)
	assert.Empty(t, j.Status)
	assert.Empty(t, j.Remarks)
	assert.Equal(t, "Meena", j.Technician)
	assert.Equal(t, src.Tag, j.Tag)
	assert.Equal(t, src.Loop, j.Loop)
	assert.Equal(t, storage.ShiftA, j.Shift)
	assert.True(t, j.Abnormality)

	assert.Equal(t, before, f.job(t, src.ID))

	_, err = f.ctl.Reassign(ctx, "AA", "J-missing", "")
	assert.ErrorIs(t, err, storage.ErrJobNotFound)
}

func TestTechnicianAdd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	out, err := f.ctl.TechnicianAdd(ctx, "AA", TechnicianAddRequest{
		Technician:       "Arun",
		Area:             "Compressor",
		Loop:             "PIC-402",
		Tag:              "PT-402",
		TypeOfInstrument: "TRANSMITTER",
		JobType:          "Breakdown",
		Description:      "Replaced transmitter",
		Status:           storage.StatusOver,
		Shift:            "B",
		ExtraDutyHours:   1.7,
	})
	require.NoError(t, err)

	j := *out.Job
	assert.Equal(t, storage.SourceTechnicianAdd, j.Source)
	assert.False(t, j.PendingWrite)
	assert.True(t, j.Locked)
	assert.Equal(t, 1, j.ExtraDutyHours)
	assert.Len(t, f.store.Load(ctx).Officer.Entries, 1)

	_, err = f.ctl.TechnicianAdd(ctx, "AA", TechnicianAddRequest{Technician: "Arun", TargetDate: "19/10/2026"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "datetime", ve.Fields["targetDate"])
}

func seedPending(t *testing.T, f fixture, n int) {
	t.Helper()

	list := make([]storage.Job, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, storage.Job{
			ID:           fmt.Sprintf("J-P-%d", i),
			TargetDate:   "2026-10-10",
			PendingWrite: true,
		})
	}
	_, err := f.repo.SetJobs(context.Background(), "AA", list, now)
	require.NoError(t, err)
}

func TestBacklog_Blocking(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.ctl.SetPlant("AA")
	seedPending(t, f, 150)

	done := f.assign(t, nil)
	_, err := f.ctl.Write(ctx, "AA", done.ID, WriteRequest{Description: "done", Status: "IN PROGRESS"})
	require.NoError(t, err)

	out, err := f.ctl.Assign(ctx, "AA", validAssign())
	require.NoError(t, err)

	assert.Equal(t, Backlog{Plant: "AA", Pending: 151, Level: BacklogBlocking}, out.Backlog)
	assert.True(t, f.ctl.Session().PendingOnly)

	require.NotEmpty(t, out.Notices)
	last := out.Notices[len(out.Notices)-1]
	assert.True(t, last.Blocking)
	assert.Equal(t, SeverityError, last.Severity)

	// the written-up job is filtered away while blocking
	assert.NotContains(t, idsOf(out.Views.Today), done.ID)
	assert.Contains(t, idsOf(out.Views.Today), out.Job.ID)

	_, err = f.ctl.SetPendingOnly(ctx, false)
	assert.ErrorIs(t, err, ErrValidation)
	assert.True(t, f.ctl.Session().PendingOnly)
}

func TestBacklog_Warning(t *testing.T) {
	f := newFixture(t, nil)
	seedPending(t, f, 50)

	out, err := f.ctl.Assign(context.Background(), "AA", validAssign())
	require.NoError(t, err)

	assert.Equal(t, BacklogWarning, out.Backlog.Level)
	assert.False(t, f.ctl.Session().PendingOnly)
	assert.Equal(t, SeverityWarning, out.Notices[len(out.Notices)-1].Severity)
}

func TestThresholds_Level(t *testing.T) {
	th := DefaultThresholds
	assert.Equal(t, BacklogOK, th.Level(50))
	assert.Equal(t, BacklogWarning, th.Level(51))
	assert.Equal(t, BacklogWarning, th.Level(150))
	assert.Equal(t, BacklogBlocking, th.Level(151))
}

func TestSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	s, err := f.ctl.SelectView(ctx, "weekly")
	require.NoError(t, err)
	assert.Equal(t, jobs.ViewWeekly, s.CurrentView)

	_, err = f.ctl.SelectView(ctx, "yearly")
	assert.ErrorIs(t, err, ErrValidation)

	restored := New(slog.New(slog.NewTextHandler(io.Discard, nil)), f.repo, refdata.Empty())
	restored.Restore(ctx)
	assert.Equal(t, jobs.ViewWeekly, restored.Session().CurrentView)

	f.ctl.SetPlant(" bb ")
	f.ctl.SetRole(RoleEngineer)
	s, err = f.ctl.SetPendingOnly(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, SessionContext{CurrentView: jobs.ViewWeekly, PendingOnly: true, Role: RoleEngineer, Plant: "BB"}, s)

	s, err = f.ctl.SetPendingOnly(ctx, false)
	require.NoError(t, err)
	assert.False(t, s.PendingOnly)
}

func idsOf(list []storage.Job) []string {
	out := make([]string, 0, len(list))
	for _, j := range list {
		out = append(out, j.ID)
	}
	return out
}

func TestDates_FollowPlantClock(t *testing.T) {
	ctx := context.Background()

	// 02:00 in IST is still the previous day in UTC
	ist := time.FixedZone("IST", 5*3600+30*60)
	at := time.Date(2026, 10, 19, 2, 0, 0, 0, ist)
	f := newFixtureAt(t, nil, at)

	j := f.assign(t, nil)
	assert.Equal(t, "2026-10-19", j.TargetDate)
	assert.True(t, at.Equal(j.CreatedAt))

	views, _, err := f.ctl.Views(ctx, "AA", time.Time{})
	require.NoError(t, err)
	assert.Contains(t, idsOf(views.Today), j.ID)
	assert.NotContains(t, idsOf(views.Prev), j.ID)

	tomorrow := f.assign(t, func(r *AssignRequest) { r.View = "tomorrow" })
	assert.Equal(t, "2026-10-20", tomorrow.TargetDate)

	out, err := f.ctl.AppendRemark(ctx, "AA", j.ID, RemarkRequest{Text: "check impulse line"})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", out.Job.Remarks[0].Date)

	out, err = f.ctl.Reassign(ctx, "AA", j.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", out.Job.TargetDate)
	assert.Contains(t, idsOf(out.Views.Today), out.Job.ID)

	out, err = f.ctl.TechnicianAdd(ctx, "AA", TechnicianAddRequest{
		Technician:       "Ravi",
		Area:             "Boiler House",
		Loop:             "FIC-101",
		Tag:              "FT-101",
		TypeOfInstrument: "TRANSMITTER",
		JobType:          "Routine Check",
		Description:      "Filter cleaned",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", out.Job.TargetDate)
}

func TestReplaceJobs_KeepsLockedJobs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.ctl.SetPlant("AA")

	j := f.assign(t, nil)
	_, err := f.ctl.Write(ctx, "AA", j.ID, closing())
	require.NoError(t, err)
	before := f.job(t, j.ID)

	edited := before
	edited.Description = "rewritten"
	edited.Status = "reopened"
	edited.Locked = false

	list := []storage.Job{edited}
	for i := 0; i < 151; i++ {
		list = append(list, storage.Job{ID: fmt.Sprintf("J-P-%d", i), TargetDate: "2026-10-10", PendingWrite: true})
	}

	out, err := f.ctl.ReplaceJobs(ctx, "AA", list)
	require.NoError(t, err)

	after := f.job(t, j.ID)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, storage.StatusOver, after.Status)
	assert.True(t, after.Locked)

	entries := f.store.Load(ctx).Officer.Entries
	require.Len(t, entries, 1)
	assert.Equal(t, before.Description, entries[0].Description)

	assert.Equal(t, BacklogBlocking, out.Backlog.Level)
	assert.True(t, f.ctl.Session().PendingOnly)
	assert.Contains(t, messagesOf(out.Notices), "1 locked job(s) kept unchanged")

	// leaving a locked job out of the list does not drop it
	_, err = f.ctl.ReplaceJobs(ctx, "AA", nil)
	require.NoError(t, err)
	assert.True(t, f.job(t, j.ID).Locked)
}

func TestReplaceJobs_ClosesIncoming(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	_, err := f.ctl.ReplaceJobs(ctx, "aa", []storage.Job{
		{ID: "J-X", TargetDate: today, Shift: "B", Status: storage.StatusOver, Description: "Valve stroked", PendingWrite: true},
		{ID: "J-Y", TargetDate: today, PendingWrite: true},
	})
	require.NoError(t, err)

	x := f.job(t, "J-X")
	assert.True(t, x.Locked)
	assert.False(t, x.PendingWrite)
	assert.False(t, f.job(t, "J-Y").Locked)

	entries := f.store.Load(ctx).Officer.Entries
	require.Len(t, entries, 1)
	assert.Equal(t, "J-X", entries[0].SourceJobID)
	assert.Equal(t, "AA", entries[0].Plant)
}

func messagesOf(notices []Notice) []string {
	out := make([]string, 0, len(notices))
	for _, n := range notices {
		out = append(out, n.Message)
	}
	return out
}
