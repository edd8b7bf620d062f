// Package models defines the core data structures shared across the covgate
// pipeline: per-metric coverage counts, the aggregate coverage report, and
// per-metric validation results.
package models

import "fmt"

// Metric names for the four aggregate coverage metrics.
const (
	MetricLines      = "lines"
	MetricFunctions  = "functions"
	MetricBranches   = "branches"
	MetricStatements = "statements"
)

// MetricOrder is the fixed declared order of metrics used for validation
// output and console presentation.
var MetricOrder = []string{MetricLines, MetricFunctions, MetricBranches, MetricStatements}

// Provenance distinguishes real instrumentation data from heuristic estimates.
type Provenance string

const (
	// ProvenanceMeasured indicates the report was derived from real coverage
	// instrumentation output.
	ProvenanceMeasured Provenance = "measured"

	// ProvenanceEstimated indicates the report was synthesized from
	// test-to-source file ratios because no instrumentation data existed.
	ProvenanceEstimated Provenance = "estimated"
)

// Source identifies which acquisition tier produced a coverage report.
type Source string

const (
	SourceLCOV      Source = "lcov"
	SourceGoProfile Source = "go-profile"
	SourceConsole   Source = "console-output"
	SourceEstimate  Source = "file-ratio-estimate"
)

// MetricCoverage holds covered/total counts and the derived percentage for a
// single metric. Percentage is floor(covered/total*100), or 0 when total is 0.
type MetricCoverage struct {
	Covered    int `json:"covered"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Percent computes floor(covered/total*100), returning 0 when total is 0.
func Percent(covered, total int) int {
	if total <= 0 {
		return 0
	}
	return covered * 100 / total
}

// NewMetricCoverage builds a MetricCoverage with the percentage derived from
// the counts. Covered values exceeding total are clamped to total so malformed
// inputs can never report more than 100%.
func NewMetricCoverage(covered, total int) MetricCoverage {
	if covered < 0 {
		covered = 0
	}
	if total < 0 {
		total = 0
	}
	if covered > total {
		covered = total
	}
	return MetricCoverage{
		Covered:    covered,
		Total:      total,
		Percentage: Percent(covered, total),
	}
}

// CoverageReport maps metric names to their coverage records, tagged with the
// provenance and acquisition source that produced it. A report is constructed
// once per run and never mutated after validation consumes it.
type CoverageReport struct {
	Metrics    map[string]MetricCoverage `json:"metrics"`
	Provenance Provenance                `json:"provenance"`
	Source     Source                    `json:"source"`
}

// NewCoverageReport creates an empty report with the given provenance and
// source, ready for metric records to be added.
func NewCoverageReport(provenance Provenance, source Source) *CoverageReport {
	return &CoverageReport{
		Metrics:    make(map[string]MetricCoverage, len(MetricOrder)),
		Provenance: provenance,
		Source:     source,
	}
}

// Metric returns the record for the named metric. Missing metrics yield a
// zero-valued record rather than a lookup failure, so downstream consumers
// never have to distinguish "absent" from "no data".
func (r *CoverageReport) Metric(name string) MetricCoverage {
	if r == nil || r.Metrics == nil {
		return MetricCoverage{}
	}
	return r.Metrics[name]
}

// AveragePercentage returns the unweighted mean of the four metric
// percentages. Metrics with zero totals still contribute their 0%, dragging
// the average down; see the JSON report consumers before changing this.
func (r *CoverageReport) AveragePercentage() float64 {
	sum := 0
	for _, name := range MetricOrder {
		sum += r.Metric(name).Percentage
	}
	return float64(sum) / float64(len(MetricOrder))
}

// ValidationResult is the outcome of checking one metric against its
// configured threshold.
type ValidationResult struct {
	Metric    string `json:"metric"`
	Threshold int    `json:"threshold"`
	Actual    int    `json:"actual"`
	Passed    bool   `json:"passed"`
	Message   string `json:"message"`
}

// String returns the result's human-readable message.
func (v ValidationResult) String() string {
	return v.Message
}

// AllPassed reports whether every result in the sequence passed.
func AllPassed(results []ValidationResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// PassCount returns how many results passed out of the total.
func PassCount(results []ValidationResult) (passed, total int) {
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	return passed, len(results)
}

// FormatRatio renders a covered/total pair as "covered/total" for reports.
func (m MetricCoverage) FormatRatio() string {
	return fmt.Sprintf("%d/%d", m.Covered, m.Total)
}
