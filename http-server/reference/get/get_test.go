package get

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plant-logbook/internal/service/refdata"
)

func request(plant string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/plants/"+plant+"/reference", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("plant", plant)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestGetReference(t *testing.T) {
	ref, err := refdata.Parse([]byte(`
plants:
  aa:
    technicians: [Ravi, Meena]
    engineers: [S. Iyer]
    areas: [Boiler House]
    loops:
      FIC-101: [FT-101, FCV-101]
`))
	require.NoError(t, err)

	handler := GetReference(slog.Default(), ref)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, request("aa"))
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp refdata.Plant
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, []string{"Ravi", "Meena"}, resp.Technicians)
	assert.Equal(t, []string{"FT-101", "FCV-101"}, resp.Loops["FIC-101"])

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, request("ZZ"))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"technicians":[]`)
}
