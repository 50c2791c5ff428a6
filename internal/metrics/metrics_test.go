package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"gift-tracker-go/internal/domain/imports"
	"gift-tracker-go/internal/domain/merge"
	"gift-tracker-go/internal/domain/registry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()

	r.ObserveResolution(registry.KindHousehold, registry.OutcomeCreated)
	r.ObserveResolution(registry.KindHousehold, registry.OutcomeCreated)
	r.ObserveResolution(registry.KindPerson, registry.OutcomeLostRace)
	r.ObserveImportRecord(imports.BatchGifts, imports.RecordStatusFailed)
	r.ObserveMerge(merge.StatusMerged)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.resolutions.WithLabelValues("household", "created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.resolutions.WithLabelValues("person", "lost_race_conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.importRecords.WithLabelValues("gifts", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.merges.WithLabelValues("merged")))
}

func TestHandlerExposesCounters(t *testing.T) {
	r := New()
	r.ObserveMerge(merge.StatusRejected)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `gift_tracker_household_merges_total{status="rejected"} 1`))
}
