package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitRegistryIdempotent(t *testing.T) {
	first := InitRegistry()
	second := InitRegistry()
	if first != second {
		t.Fatalf("InitRegistry must return the same registry")
	}
	if GetRegistry() != first {
		t.Fatalf("GetRegistry must return the initialized registry")
	}
}

func TestRecordRecalibration(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(RecalibrationRunsTotal.WithLabelValues("success"))
	samplesBefore := testutil.ToFloat64(SamplesProcessedTotal)

	RecordRecalibration("success", 1.5, 250)

	if got := testutil.ToFloat64(RecalibrationRunsTotal.WithLabelValues("success")); got != before+1 {
		t.Fatalf("expected success counter %v, got %v", before+1, got)
	}
	if got := testutil.ToFloat64(SamplesProcessedTotal); got != samplesBefore+250 {
		t.Fatalf("expected samples counter %v, got %v", samplesBefore+250, got)
	}
}

func TestUpdateSegmentCalibration(t *testing.T) {
	InitRegistry()
	UpdateSegmentCalibration("props_v2:nba:player_prop", 0.18, 0.04, 7)

	if got := testutil.ToFloat64(CalibrationBrierScore.WithLabelValues("props_v2:nba:player_prop")); got != 0.18 {
		t.Fatalf("expected brier gauge 0.18, got %v", got)
	}
	if got := testutil.ToFloat64(MappingPointCount.WithLabelValues("props_v2:nba:player_prop")); got != 7 {
		t.Fatalf("expected mapping point gauge 7, got %v", got)
	}
}

func TestRecordSlipBuilt(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(SlipsBuiltTotal.WithLabelValues("false"))

	RecordSlipBuilt(false, 0.02)

	if got := testutil.ToFloat64(SlipsBuiltTotal.WithLabelValues("false")); got != before+1 {
		t.Fatalf("expected invalid slip counter to increment")
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	InitRegistry()
	RecordGateRejection("edge")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "sharp_picks_gate_rejections_total") {
		t.Fatalf("expected gate rejection metric in output")
	}
}
