// Package lcov parses LCOV-formatted coverage text into an aggregate
// coverage report. Counters are accumulated additively across every file
// section in the document; per-file detail is not retained.
package lcov

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/harrison/covgate/internal/models"
)

// counters accumulates covered/total pairs for one metric across the document.
type counters struct {
	covered int
	total   int
}

// ParseResult carries the parsed report plus diagnostics about skipped lines.
type ParseResult struct {
	Report *models.CoverageReport

	// SkippedLines counts recognized records whose numeric field failed to
	// parse. Malformed records are skipped rather than poisoning the sums.
	SkippedLines int
}

// ParseFile reads and parses an LCOV file from disk.
func ParseFile(path string) (*ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lcov file: %w", err)
	}
	defer f.Close()

	result, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}

// Parse scans LCOV text and produces an aggregate coverage report.
//
// Recognized records:
//
//	LH:<n>  lines covered      LF:<n>  lines total
//	FNH:<n> functions covered  FNF:<n> functions total
//	BRH:<n> branches covered   BRF:<n> branches total
//
// Statements are not separately tracked by LCOV; the lines record is copied
// verbatim into statements. A document with no recognized records at all is
// an error, so an empty or garbage file is distinguishable from genuinely
// zero coverage.
func Parse(r io.Reader) (*ParseResult, error) {
	var lines, functions, branches counters
	recognized := 0
	skipped := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		var target *int
		var value string
		switch {
		case strings.HasPrefix(line, "LH:"):
			target, value = &lines.covered, line[3:]
		case strings.HasPrefix(line, "LF:"):
			target, value = &lines.total, line[3:]
		case strings.HasPrefix(line, "FNH:"):
			target, value = &functions.covered, line[4:]
		case strings.HasPrefix(line, "FNF:"):
			target, value = &functions.total, line[4:]
		case strings.HasPrefix(line, "BRH:"):
			target, value = &branches.covered, line[4:]
		case strings.HasPrefix(line, "BRF:"):
			target, value = &branches.total, line[4:]
		default:
			continue
		}

		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			skipped++
			continue
		}
		recognized++
		*target += n
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lcov input: %w", err)
	}

	if recognized == 0 {
		return nil, fmt.Errorf("no coverage records found in lcov input")
	}

	report := models.NewCoverageReport(models.ProvenanceMeasured, models.SourceLCOV)
	report.Metrics[models.MetricLines] = models.NewMetricCoverage(lines.covered, lines.total)
	report.Metrics[models.MetricFunctions] = models.NewMetricCoverage(functions.covered, functions.total)
	report.Metrics[models.MetricBranches] = models.NewMetricCoverage(branches.covered, branches.total)

	// Statements mirror lines for line-based coverage formats
	report.Metrics[models.MetricStatements] = report.Metrics[models.MetricLines]

	return &ParseResult{Report: report, SkippedLines: skipped}, nil
}
