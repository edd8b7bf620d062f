package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/filelock"
	"github.com/harrison/covgate/internal/models"
)

//go:embed template.html
var htmlTemplate string

// metricView is the per-metric block rendered on the HTML page.
type metricView struct {
	Name       string
	Percentage int
	Covered    int
	Total      int
	Threshold  int
	Passed     bool
}

// pageData feeds the HTML template.
type pageData struct {
	Average     float64
	Passed      bool
	Estimated   bool
	Metrics     []metricView
	Details     template.HTML
	GeneratedAt string
	Source      models.Source
}

// WriteHTML persists the human-readable report page. The details section is
// the markdown summary rendered to HTML.
func (g *Generator) WriteHTML(rep *models.CoverageReport, thresholds config.Thresholds, results []models.ValidationResult, now time.Time) error {
	tmpl, err := template.New("coverage").Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse html template: %w", err)
	}

	metrics := make([]metricView, 0, len(results))
	for _, r := range results {
		m := rep.Metric(r.Metric)
		metrics = append(metrics, metricView{
			Name:       r.Metric,
			Percentage: m.Percentage,
			Covered:    m.Covered,
			Total:      m.Total,
			Threshold:  r.Threshold,
			Passed:     r.Passed,
		})
	}

	details, err := renderMarkdown(BuildMarkdownSummary(rep, thresholds, results, now))
	if err != nil {
		return fmt.Errorf("failed to render details: %w", err)
	}

	data := pageData{
		Average:     rep.AveragePercentage(),
		Passed:      models.AllPassed(results),
		Estimated:   rep.Provenance == models.ProvenanceEstimated,
		Metrics:     metrics,
		Details:     details,
		GeneratedAt: now.Format("2006-01-02 15:04:05 MST"),
		Source:      rep.Source,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute html template: %w", err)
	}

	return filelock.AtomicWrite(filepath.Join(g.OutputDir, HTMLReportName), buf.Bytes())
}

// renderMarkdown converts the markdown summary to HTML for embedding.
// The markdown is generated locally from run data, never from user input.
func renderMarkdown(markdown string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.New().Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
