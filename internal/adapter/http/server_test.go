package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/stephleif/reproducibleresearchproj2/internal/adapter/http"
	"github.com/stephleif/reproducibleresearchproj2/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockReadiness struct {
	err error
}

func (m *mockReadiness) CheckReadiness(_ context.Context) error { return m.err }

type mockSource struct {
	summary domain.Summary
	ok      bool
}

func (m *mockSource) LatestSummary() (domain.Summary, bool) { return m.summary, m.ok }

func newTestServer(source *mockSource, readyErr error) *httpadapter.Server {
	if source == nil {
		source = &mockSource{}
	}
	return httpadapter.NewServer(":0", source, &mockReadiness{err: readyErr}, slog.Default())
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(nil, fmt.Errorf("no summary yet"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "no summary yet", body["error"])
}

func TestRankingsReturns404BeforeFirstSnapshot(t *testing.T) {
	srv := newTestServer(&mockSource{ok: false}, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rankings", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRankingsReturnsLatestSummary(t *testing.T) {
	share := 5.0 / 6.0
	source := &mockSource{
		ok: true,
		summary: domain.Summary{
			ID:          "snap-1",
			GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			Records:     3,
			TopK:        10,
			Rankings: []domain.RankedRow{
				{
					AggregateRow:  domain.AggregateRow{Category: "Tornado", Fatalities: 5, PropertyDamage: 10000},
					FatalityShare: &share,
				},
			},
		},
	}

	srv := newTestServer(source, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/rankings", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got domain.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "snap-1", got.ID)
	require.Len(t, got.Rankings, 1)
	assert.Equal(t, "Tornado", got.Rankings[0].Category)
	require.NotNil(t, got.Rankings[0].FatalityShare)
	assert.InDelta(t, share, *got.Rankings[0].FatalityShare, 1e-12)
	// Shares for metrics with no recorded harm stay undefined.
	assert.Nil(t, got.Rankings[0].InjuryShare)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
