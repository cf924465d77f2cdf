package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"plant-logbook/internal/service/jobs"
	"plant-logbook/internal/service/lifecycle"
	"plant-logbook/internal/storage"
)

type MockJobViews struct {
	mock.Mock
}

func (m *MockJobViews) Views(ctx context.Context, plant string, ref time.Time) (jobs.Views, lifecycle.Backlog, error) {
	args := m.Called(ctx, plant, ref)
	return args.Get(0).(jobs.Views), args.Get(1).(lifecycle.Backlog), args.Error(2)
}

func request(target, plant string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("plant", plant)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetJobs_Success(t *testing.T) {
	mockViews := new(MockJobViews)

	ref := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	views := jobs.Views{Today: []storage.Job{{ID: "J-1", PendingWrite: true}}, Weekly: []storage.Job{{ID: "J-1"}}}
	mockViews.On("Views", mock.Anything, "AA", ref).
		Return(views, lifecycle.Backlog{Plant: "AA", Pending: 1, Level: lifecycle.BacklogOK}, nil)

	handler := GetJobs(slog.Default(), mockViews)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, request("/api/plants/aa/jobs?date=2026-10-19", "aa"))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Response
	assert.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "AA", resp.Plant)
	assert.Equal(t, "J-1", resp.Views.Today[0].ID)
	assert.Equal(t, 1, resp.Backlog.Pending)

	mockViews.AssertExpectations(t)
}

func TestGetJobs_NoDateMeansToday(t *testing.T) {
	mockViews := new(MockJobViews)
	mockViews.On("Views", mock.Anything, "AA", time.Time{}).Return(jobs.Views{}, lifecycle.Backlog{}, nil)

	rr := httptest.NewRecorder()
	GetJobs(slog.Default(), mockViews).ServeHTTP(rr, request("/api/plants/AA/jobs", "AA"))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockViews.AssertExpectations(t)
}

func TestGetJobs_BadInput(t *testing.T) {
	mockViews := new(MockJobViews)
	handler := GetJobs(slog.Default(), mockViews)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, request("/api/plants/AA/jobs?date=19.10.2026", "AA"))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, request("/api/plants//jobs", " "))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	mockViews.AssertNotCalled(t, "Views")
}

func TestGetJobs_InternalError(t *testing.T) {
	mockViews := new(MockJobViews)
	mockViews.On("Views", mock.Anything, "AA", mock.Anything).Return(jobs.Views{}, lifecycle.Backlog{}, errors.New("boom"))

	rr := httptest.NewRecorder()
	GetJobs(slog.Default(), mockViews).ServeHTTP(rr, request("/api/plants/AA/jobs", "AA"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "boom")
}
