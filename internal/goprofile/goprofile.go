// Package goprofile parses Go -coverprofile output into an aggregate
// coverage report. It covers repositories whose test runner leaves behind a
// Go statement-coverage profile instead of an LCOV file.
package goprofile

import (
	"fmt"

	"golang.org/x/tools/cover"

	"github.com/harrison/covgate/internal/models"
)

// ParseFile reads a Go cover profile and aggregates statement counts across
// all profiled files.
//
// Go profiles carry statement coverage only: statements are measured
// directly, lines mirror statements, and functions/branches are left with
// zero totals (no data, 0%).
func ParseFile(path string) (*models.CoverageReport, error) {
	profiles, err := cover.ParseProfiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cover profile: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profiled files in %s", path)
	}

	covered := 0
	total := 0
	for _, p := range profiles {
		for _, block := range p.Blocks {
			total += block.NumStmt
			if block.Count > 0 {
				covered += block.NumStmt
			}
		}
	}

	report := models.NewCoverageReport(models.ProvenanceMeasured, models.SourceGoProfile)
	statements := models.NewMetricCoverage(covered, total)
	report.Metrics[models.MetricStatements] = statements
	report.Metrics[models.MetricLines] = statements
	report.Metrics[models.MetricFunctions] = models.MetricCoverage{}
	report.Metrics[models.MetricBranches] = models.MetricCoverage{}

	return report, nil
}
