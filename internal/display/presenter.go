// Package display renders the validation verdict on the console and
// determines the process exit status.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/covgate/internal/models"
)

// Presenter prints the per-metric verdicts and the run summary.
type Presenter struct {
	out         io.Writer
	colorOutput bool
}

// NewPresenter creates a Presenter writing to the given writer.
// Color is enabled only when writing to a terminal.
func NewPresenter(out io.Writer) *Presenter {
	useColor := false
	if f, ok := out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd()) && !color.NoColor
	}
	return &Presenter{out: out, colorOutput: useColor}
}

// Present prints each validation message, a pass-count summary, and
// remediation suggestions when any metric failed. It returns the process
// exit code: 0 on full pass, 1 otherwise. A non-zero exit iff any metric
// failed is the verdict contract callers depend on.
func (p *Presenter) Present(rep *models.CoverageReport, results []models.ValidationResult) int {
	p.printHeader()

	for _, r := range results {
		p.printResult(r)
	}

	passed, total := models.PassCount(results)
	fmt.Fprintf(p.out, "\n%d/%d coverage thresholds met\n", passed, total)

	if rep.Provenance == models.ProvenanceEstimated {
		p.printWarnLine("coverage was ESTIMATED from file ratios, not measured")
	}

	if passed == total {
		return 0
	}

	fmt.Fprintln(p.out, "\nTo improve coverage:")
	fmt.Fprintln(p.out, "  - add tests for the failing metrics listed above")
	fmt.Fprintln(p.out, "  - cover error paths and edge cases, not just happy paths")

	return 1
}

func (p *Presenter) printHeader() {
	header := "=== Coverage Validation ==="
	if p.colorOutput {
		header = color.New(color.Bold).Sprint(header)
	}
	fmt.Fprintln(p.out, header)
}

func (p *Presenter) printResult(r models.ValidationResult) {
	if p.colorOutput {
		var status string
		if r.Passed {
			status = color.New(color.FgGreen).Sprint("PASS")
		} else {
			status = color.New(color.FgRed).Sprint("FAIL")
		}
		fmt.Fprintf(p.out, "%s  %s\n", status, r.Message)
		return
	}

	status := "PASS"
	if !r.Passed {
		status = "FAIL"
	}
	fmt.Fprintf(p.out, "%s  %s\n", status, r.Message)
}

func (p *Presenter) printWarnLine(message string) {
	if p.colorOutput {
		message = color.New(color.FgYellow).Sprint(message)
	}
	fmt.Fprintf(p.out, "\nWarning: %s\n", message)
}
