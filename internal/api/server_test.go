package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-reconciliation/internal/domain"
	"billing-reconciliation/internal/usecase"
)

type fakeReconciler struct {
	calls []string
	err   error
}

func (f *fakeReconciler) Reconcile(_ context.Context, period string) (*usecase.Result, error) {
	f.calls = append(f.calls, period)
	if f.err != nil {
		return nil, f.err
	}
	return &usecase.Result{Run: domain.Run{
		ID:      "fresh",
		Period:  period,
		Payload: &domain.Payload{Period: period, FirmSummary: domain.PayloadFirmSummary{TotalClients: 2}},
	}}, nil
}

type fakeHistory struct {
	runs map[string]domain.Run
	err  error
}

func (f *fakeHistory) List(context.Context, int) ([]domain.RunSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []domain.RunSummary{}
	for _, r := range f.runs {
		out = append(out, domain.RunSummary{ID: r.ID, Period: r.Period})
	}
	return out, nil
}

func (f *fakeHistory) Get(_ context.Context, id string) (domain.Run, error) {
	if r, ok := f.runs[id]; ok {
		return r, nil
	}
	return domain.Run{}, domain.ErrRunNotFound
}

func (f *fakeHistory) Latest(_ context.Context, period string) (domain.Run, error) {
	for _, r := range f.runs {
		if r.Period == period {
			return r, nil
		}
	}
	return domain.Run{}, domain.ErrRunNotFound
}

func newTestServer(rec Reconciler, hist History) http.Handler {
	s := NewServer(rec, hist, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.EnableMetrics()
	return s.Handler()
}

func do(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestServer_Routes(t *testing.T) {
	archived := domain.Run{
		ID:      "archived",
		Period:  "2025-03-31",
		Payload: &domain.Payload{Period: "2025-03-31", FirmSummary: domain.PayloadFirmSummary{TotalClients: 9}},
	}

	tests := []struct {
		name       string
		target     string
		recErr     error
		wantStatus int
		wantBody   string
		wantCalls  int
	}{
		{name: "health", target: "/health", wantStatus: http.StatusOK, wantBody: `"status":"ok"`},
		{name: "run now", target: "/api/reconciliation/2025-03-31", wantStatus: http.StatusOK, wantBody: `"totalClients":2`, wantCalls: 1},
		{name: "cached run", target: "/api/reconciliation/2025-03-31?cached=true", wantStatus: http.StatusOK, wantBody: `"totalClients":9`},
		{name: "cached miss runs now", target: "/api/reconciliation/2025-02-28?cached=true", wantStatus: http.StatusOK, wantBody: `"totalClients":2`, wantCalls: 1},
		{name: "bad period", target: "/api/reconciliation/March", wantStatus: http.StatusBadRequest},
		{name: "reconcile failure", target: "/api/reconciliation/2025-03-31", recErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCalls: 1},
		{name: "history list", target: "/api/history?limit=5", wantStatus: http.StatusOK, wantBody: `"id":"archived"`},
		{name: "history bad limit", target: "/api/history?limit=-1", wantStatus: http.StatusBadRequest},
		{name: "history get", target: "/api/history/archived", wantStatus: http.StatusOK, wantBody: `"period":"2025-03-31"`},
		{name: "history missing", target: "/api/history/nope", wantStatus: http.StatusNotFound},
		{name: "metrics", target: "/metrics", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeReconciler{err: tt.recErr}
			hist := &fakeHistory{runs: map[string]domain.Run{"archived": archived}}

			w := do(t, newTestServer(rec, hist), tt.target)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantBody != "" {
				assert.Contains(t, w.Body.String(), tt.wantBody)
			}
			assert.Len(t, rec.calls, tt.wantCalls)
		})
	}
}

func TestServer_RunSetsRunIDHeader(t *testing.T) {
	w := do(t, newTestServer(&fakeReconciler{}, nil), "/api/reconciliation/2025-03-31")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fresh", w.Header().Get("X-Run-ID"))

	var payload domain.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "2025-03-31", payload.Period)
}

func TestServer_NoHistory(t *testing.T) {
	w := do(t, newTestServer(&fakeReconciler{}, nil), "/api/history")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
