// Package validation compares a coverage report against configured
// thresholds. It is pure and deterministic: no I/O, no side effects.
package validation

import (
	"fmt"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/models"
)

// Validate produces one ValidationResult per configured metric, in the
// threshold configuration's declared order. A metric missing from the report
// contributes an actual of 0 rather than an error.
func Validate(report *models.CoverageReport, thresholds config.Thresholds) []models.ValidationResult {
	ordered := thresholds.Ordered()
	results := make([]models.ValidationResult, 0, len(ordered))

	for _, t := range ordered {
		actual := report.Metric(t.Metric).Percentage
		passed := actual >= t.Minimum

		var message string
		if passed {
			message = fmt.Sprintf("%s: %d%% meets threshold %d%%", t.Metric, actual, t.Minimum)
		} else {
			message = fmt.Sprintf("%s: %d%% below threshold %d%%", t.Metric, actual, t.Minimum)
		}

		results = append(results, models.ValidationResult{
			Metric:    t.Metric,
			Threshold: t.Minimum,
			Actual:    actual,
			Passed:    passed,
			Message:   message,
		})
	}

	return results
}
