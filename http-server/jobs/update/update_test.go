package update

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"plant-logbook/http-server/api"
	"plant-logbook/internal/service/lifecycle"
	"plant-logbook/internal/storage"
)

type MockJobUpdater struct {
	mock.Mock
}

func (m *MockJobUpdater) Write(ctx context.Context, plant, id string, req lifecycle.WriteRequest) (lifecycle.Outcome, error) {
	args := m.Called(ctx, plant, id, req)
	return args.Get(0).(lifecycle.Outcome), args.Error(1)
}

func (m *MockJobUpdater) Reassign(ctx context.Context, plant, id, technician string) (lifecycle.Outcome, error) {
	args := m.Called(ctx, plant, id, technician)
	return args.Get(0).(lifecycle.Outcome), args.Error(1)
}

func withParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestWriteJob_Success(t *testing.T) {
	mockUpdater := new(MockJobUpdater)

	job := storage.Job{ID: "J-1", Status: storage.StatusOver, Locked: true}
	mockUpdater.On("Write", mock.Anything, "AA", "J-1", mock.MatchedBy(func(req lifecycle.WriteRequest) bool {
		return req.Description == "re-zeroed" && req.Status == storage.StatusOver && req.ExtraDutyHours == 2
	})).Return(lifecycle.Outcome{Job: &job}, nil)

	handler := WriteJob(slog.Default(), mockUpdater)

	body := `{"description":"re-zeroed","status":"✓ OVER","extraDutyHours":2}`
	req := httptest.NewRequest(http.MethodPut, "/api/plants/AA/jobs/J-1", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = withParams(req, map[string]string{"plant": "AA", "id": "J-1"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp lifecycle.Outcome
	err := render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Job.Locked)

	mockUpdater.AssertExpectations(t)
}

func TestWriteJob_Locked(t *testing.T) {
	mockUpdater := new(MockJobUpdater)

	locked := &lifecycle.ValidationError{Err: fmt.Errorf("%w: J-1", lifecycle.ErrJobLocked)}
	mockUpdater.On("Write", mock.Anything, "AA", "J-1", mock.Anything).Return(lifecycle.Outcome{}, locked)

	handler := WriteJob(slog.Default(), mockUpdater)

	req := httptest.NewRequest(http.MethodPut, "/api/plants/AA/jobs/J-1", strings.NewReader(`{"description":"x"}`))
	req = withParams(req, map[string]string{"plant": "AA", "id": "J-1"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	var resp api.ErrorResponse
	assert.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Contains(t, resp.Error, "job is locked")
}

func TestWriteJob_NotFound(t *testing.T) {
	mockUpdater := new(MockJobUpdater)
	mockUpdater.On("Write", mock.Anything, "AA", "J-9", mock.Anything).
		Return(lifecycle.Outcome{}, fmt.Errorf("service.lifecycle.Write: %w", storage.ErrJobNotFound))

	handler := WriteJob(slog.Default(), mockUpdater)

	req := httptest.NewRequest(http.MethodPut, "/api/plants/AA/jobs/J-9", strings.NewReader(`{"description":"x"}`))
	req = withParams(req, map[string]string{"plant": "AA", "id": "J-9"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWriteJob_InvalidJSON(t *testing.T) {
	mockUpdater := new(MockJobUpdater)
	handler := WriteJob(slog.Default(), mockUpdater)

	req := httptest.NewRequest(http.MethodPut, "/api/plants/AA/jobs/J-1", strings.NewReader(`{`))
	req = withParams(req, map[string]string{"plant": "AA", "id": "J-1"})

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockUpdater.AssertNotCalled(t, "Write")
}

func TestReassignJob(t *testing.T) {
	mockUpdater := new(MockJobUpdater)

	job := storage.Job{ID: "J-2", Source: storage.SourceReassigned}
	mockUpdater.On("Reassign", mock.Anything, "AA", "J-1", "Meena").Return(lifecycle.Outcome{Job: &job}, nil)
	mockUpdater.On("Reassign", mock.Anything, "AA", "J-1", "").Return(lifecycle.Outcome{Job: &job}, nil)

	handler := ReassignJob(slog.Default(), mockUpdater)

	req := httptest.NewRequest(http.MethodPost, "/api/plants/AA/jobs/J-1/reassign", strings.NewReader(`{"technician":"Meena"}`))
	req = withParams(req, map[string]string{"plant": "AA", "id": "J-1"})
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/plants/AA/jobs/J-1/reassign", nil)
	req = withParams(req, map[string]string{"plant": "AA", "id": "J-1"})
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	mockUpdater.AssertExpectations(t)
}
