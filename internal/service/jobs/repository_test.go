package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-logbook/internal/service/store"
	"plant-logbook/internal/storage"
	"plant-logbook/internal/storage/memory"
)

func newTestRepository(t *testing.T) (*Repository, *store.Store) {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(log, memory.New(), store.WithClock(func() time.Time { return ref }))
	return NewRepository(log, st, nil), st
}

func TestRepository_GetJobs_RegistersPlant(t *testing.T) {
	ctx := context.Background()
	repo, st := newTestRepository(t)

	list, err := repo.GetJobs(ctx, " aa ")
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.Contains(t, st.Load(ctx).Plants, "AA")
	assert.Equal(t, []string{"AA"}, repo.Plants(ctx))

	_, err = repo.GetJobs(ctx, "  ")
	assert.Error(t, err)
}

func TestRepository_SetJobs(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	today := job("J-1", 0, 0)
	today.PendingWrite = true

	views, err := repo.SetJobs(ctx, "AA", []storage.Job{today, job("J-2", -1, 0)}, ref)
	require.NoError(t, err)

	assert.Equal(t, []string{"J-1"}, ids(views.Today))
	assert.Equal(t, []string{"J-2"}, ids(views.Prev))
	assert.Equal(t, []string{"J-1", "J-2"}, ids(views.Weekly))

	// stored list went through normalization
	list, err := repo.GetJobs(ctx, "AA")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "N.A", list[0].Area)
	assert.True(t, list[0].PendingWrite)

	again := repo.GetJobsByView(ctx, "AA", ref)
	assert.Equal(t, views, again)
}

func TestRepository_GetJobsByView_UnknownPlantIsPureRead(t *testing.T) {
	ctx := context.Background()
	repo, st := newTestRepository(t)

	v := repo.GetJobsByView(ctx, "ZZ", ref)
	assert.Empty(t, v.Monthly)
	assert.NotContains(t, st.Load(ctx).Plants, "ZZ")
}

func TestRepository_Mutate(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)

	_, err := repo.Mutate(ctx, "AA", func(_ *storage.RootState, list *[]storage.Job) error {
		*list = append(*list, job("J-9", 0, 0))
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.Mutate(ctx, "AA", func(_ *storage.RootState, list *[]storage.Job) error {
		*list = nil
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repo.GetJobs(ctx, "AA")
	require.NoError(t, err)
	assert.Equal(t, []string{"J-9"}, ids(list))
	assert.Equal(t, 0, FindJob(list, "J-9"))
	assert.Equal(t, -1, FindJob(list, "J-0"))
}

func TestRepository_SelectView(t *testing.T) {
	ctx := context.Background()
	repo, st := newTestRepository(t)

	assert.Equal(t, ViewToday, repo.SelectedView(ctx))

	require.NoError(t, repo.SelectView(ctx, ViewWeekly))
	assert.Equal(t, ViewWeekly, repo.SelectedView(ctx))
	assert.Equal(t, "weekly", st.Load(ctx).UI.TechnicianSelectedView)

	assert.ErrorIs(t, repo.SelectView(ctx, View("yearly")), ErrUnknownView)
	assert.Equal(t, ViewWeekly, repo.SelectedView(ctx))
}
