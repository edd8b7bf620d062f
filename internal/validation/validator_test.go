package validation

import (
	"strings"
	"testing"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/models"
)

func reportWith(pcts map[string]int) *models.CoverageReport {
	rep := models.NewCoverageReport(models.ProvenanceMeasured, models.SourceLCOV)
	for name, pct := range pcts {
		rep.Metrics[name] = models.MetricCoverage{Covered: pct, Total: 100, Percentage: pct}
	}
	return rep
}

func TestValidateAllPass(t *testing.T) {
	rep := reportWith(map[string]int{
		models.MetricLines:      95,
		models.MetricFunctions:  95,
		models.MetricBranches:   90,
		models.MetricStatements: 95,
	})

	results := Validate(rep, config.DefaultThresholds())
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("%s failed unexpectedly: %s", r.Metric, r.Message)
		}
	}
	if !models.AllPassed(results) {
		t.Error("AllPassed() = false, want true")
	}
}

func TestValidateDeclaredOrder(t *testing.T) {
	rep := reportWith(map[string]int{})
	results := Validate(rep, config.DefaultThresholds())

	want := []string{"lines", "functions", "branches", "statements"}
	for i, r := range results {
		if r.Metric != want[i] {
			t.Errorf("results[%d].Metric = %q, want %q", i, r.Metric, want[i])
		}
	}
}

// TestValidateBoundary verifies passed iff actual >= threshold across the
// default thresholds.
func TestValidateBoundary(t *testing.T) {
	tests := []struct {
		metric    string
		actual    int
		wantPass  bool
		threshold int
	}{
		{models.MetricLines, 90, true, 90},
		{models.MetricLines, 89, false, 90},
		{models.MetricFunctions, 90, true, 90},
		{models.MetricFunctions, 89, false, 90},
		{models.MetricBranches, 80, true, 80},
		{models.MetricBranches, 79, false, 80},
		{models.MetricStatements, 90, true, 90},
		{models.MetricStatements, 89, false, 90},
		{models.MetricLines, 100, true, 90},
		{models.MetricLines, 0, false, 90},
	}

	for _, tt := range tests {
		rep := reportWith(map[string]int{tt.metric: tt.actual})
		results := Validate(rep, config.DefaultThresholds())

		var got *models.ValidationResult
		for i := range results {
			if results[i].Metric == tt.metric {
				got = &results[i]
				break
			}
		}
		if got == nil {
			t.Fatalf("no result for metric %s", tt.metric)
		}
		if got.Passed != tt.wantPass {
			t.Errorf("%s at %d%%: Passed = %v, want %v", tt.metric, tt.actual, got.Passed, tt.wantPass)
		}
		if got.Threshold != tt.threshold {
			t.Errorf("%s: Threshold = %d, want %d", tt.metric, got.Threshold, tt.threshold)
		}
		if got.Actual != tt.actual {
			t.Errorf("%s: Actual = %d, want %d", tt.metric, got.Actual, tt.actual)
		}
	}
}

// TestValidateMissingMetricsDefaultToZero verifies missing metrics never
// crash and compare as 0%.
func TestValidateMissingMetricsDefaultToZero(t *testing.T) {
	rep := reportWith(map[string]int{models.MetricLines: 95})
	results := Validate(rep, config.DefaultThresholds())

	for _, r := range results {
		if r.Metric == models.MetricLines {
			continue
		}
		if r.Actual != 0 {
			t.Errorf("%s.Actual = %d, want 0 for missing metric", r.Metric, r.Actual)
		}
		if r.Passed {
			t.Errorf("%s passed at 0%% against nonzero threshold", r.Metric)
		}
	}
}

func TestValidateZeroThresholdAlwaysPasses(t *testing.T) {
	rep := reportWith(map[string]int{})
	thresholds := config.Thresholds{Lines: 0, Functions: 0, Branches: 0, Statements: 0}

	for _, r := range Validate(rep, thresholds) {
		if !r.Passed {
			t.Errorf("%s failed against 0%% threshold", r.Metric)
		}
	}
}

func TestValidateMessages(t *testing.T) {
	rep := reportWith(map[string]int{models.MetricLines: 50})
	results := Validate(rep, config.DefaultThresholds())

	if !strings.Contains(results[0].Message, "below threshold") {
		t.Errorf("failing message = %q, want mention of threshold miss", results[0].Message)
	}
	if !strings.Contains(results[0].Message, "lines") {
		t.Errorf("message = %q, want metric name", results[0].Message)
	}
}
