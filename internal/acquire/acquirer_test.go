package acquire

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/logger"
	"github.com/harrison/covgate/internal/models"
	"github.com/harrison/covgate/internal/runner"
)

// stubRunner fakes the external test command.
type stubRunner struct {
	output string
	err    error
	calls  int
}

func (s *stubRunner) Run(ctx context.Context) *runner.Result {
	s.calls++
	return &runner.Result{Output: s.output, Err: s.err}
}

// setupRepo creates a repo root with the given files (content keyed by
// slash-separated relative path) and returns an Acquirer over it.
func setupRepo(t *testing.T, files map[string]string, stub *stubRunner) *Acquirer {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}

	cfg := config.DefaultConfig()
	a := New(root, cfg, logger.NewNoOpLogger())
	if stub != nil {
		a.Runner = stub
	}
	return a
}

func TestAcquireTierLCOV(t *testing.T) {
	stub := &stubRunner{}
	a := setupRepo(t, map[string]string{
		"pkg/a.go":                 "package a\n",
		"pkg/a_test.go":            "package a\n",
		"coverage/lcov.info":       "LF:100\nLH:95\nFNF:20\nFNH:19\nBRF:10\nBRH:9\n",
		"coverage/" + GoProfileFileName: "mode: set\nexample.com/p/a.go:1.1,2.2 4 1\n",
	}, stub)

	rep, err := a.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if rep.Source != models.SourceLCOV {
		t.Errorf("Source = %q, want lcov (lcov outranks go profile)", rep.Source)
	}
	if got := rep.Metric(models.MetricLines).Percentage; got != 95 {
		t.Errorf("lines.Percentage = %d, want 95", got)
	}
	if stub.calls != 1 {
		t.Errorf("runner called %d times, want 1", stub.calls)
	}
}

func TestAcquireTierGoProfile(t *testing.T) {
	a := setupRepo(t, map[string]string{
		"pkg/a.go":              "package a\n",
		"pkg/a_test.go":         "package a\n",
		"coverage/coverage.out": "mode: set\nexample.com/p/a.go:1.1,2.2 4 3\nexample.com/p/a.go:3.1,4.2 1 0\n",
	}, &stubRunner{})

	rep, err := a.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if rep.Source != models.SourceGoProfile {
		t.Errorf("Source = %q, want go-profile", rep.Source)
	}
	if got := rep.Metric(models.MetricStatements).Percentage; got != 80 {
		t.Errorf("statements.Percentage = %d, want 80", got)
	}
}

func TestAcquireTierConsoleScrape(t *testing.T) {
	stub := &stubRunner{output: "ok  \texample.com/p\t0.1s\tcoverage: 82.5% of statements\n"}
	a := setupRepo(t, map[string]string{
		"pkg/a.go":      "package a\n",
		"pkg/a_test.go": "package a\n",
	}, stub)

	rep, err := a.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if rep.Source != models.SourceConsole {
		t.Errorf("Source = %q, want console-output", rep.Source)
	}
	if rep.Provenance != models.ProvenanceMeasured {
		t.Errorf("Provenance = %q, want measured", rep.Provenance)
	}
	for _, name := range models.MetricOrder {
		if got := rep.Metric(name).Percentage; got != 82 {
			t.Errorf("%s.Percentage = %d, want 82", name, got)
		}
	}
}

func TestAcquireTierEstimate(t *testing.T) {
	// Failing runner with useless output, no coverage artifacts
	stub := &stubRunner{output: "FAIL\n", err: errors.New("exit status 1")}
	a := setupRepo(t, map[string]string{
		"pkg/a.go":      "package a\n",
		"pkg/b.go":      "package a\n",
		"pkg/a_test.go": "package a\n",
	}, stub)

	rep, err := a.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if rep.Provenance != models.ProvenanceEstimated {
		t.Errorf("Provenance = %q, want estimated", rep.Provenance)
	}
	// 1 test file / 2 source files: floor(0.5*85) = 42
	if got := rep.Metric(models.MetricLines).Percentage; got != 42 {
		t.Errorf("lines.Percentage = %d, want 42", got)
	}
}

func TestAcquireNoTestFilesSkipsRunner(t *testing.T) {
	stub := &stubRunner{}
	a := setupRepo(t, map[string]string{
		"pkg/a.go": "package a\n",
		"pkg/b.go": "package a\n",
	}, stub)

	rep, err := a.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	if stub.calls != 0 {
		t.Errorf("runner called %d times for zero test files, want 0", stub.calls)
	}
	if rep.Provenance != models.ProvenanceEstimated {
		t.Errorf("Provenance = %q, want estimated", rep.Provenance)
	}
	for _, name := range models.MetricOrder {
		if got := rep.Metric(name).Percentage; got != 0 {
			t.Errorf("%s.Percentage = %d, want 0", name, got)
		}
	}
}

func TestAcquireMalformedLCOVDowngrades(t *testing.T) {
	a := setupRepo(t, map[string]string{
		"pkg/a.go":              "package a\n",
		"pkg/a_test.go":         "package a\n",
		"coverage/lcov.info":    "complete garbage\n",
		"coverage/coverage.out": "mode: set\nexample.com/p/a.go:1.1,2.2 2 1\n",
	}, &stubRunner{})

	rep, err := a.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if rep.Source != models.SourceGoProfile {
		t.Errorf("Source = %q, want go-profile after lcov downgrade", rep.Source)
	}
}

func TestAcquireCreatesOutputDir(t *testing.T) {
	a := setupRepo(t, map[string]string{"pkg/a.go": "package a\n"}, &stubRunner{})

	if _, err := a.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	info, err := os.Stat(filepath.Join(a.Root, a.Config.OutputDir))
	if err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}

	// Idempotent on rerun
	if _, err := a.Acquire(context.Background()); err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}
}

func TestScrapePercentage(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   int
		wantOK bool
	}{
		{"go test style", "coverage: 85.3% of statements", 85, true},
		{"total line preferred", "flaky: 3%\ntotal: (statements) 91.0%", 91, true},
		{"bare percentage", "done 42%", 42, true},
		{"over 100 clamped", "coverage: 250%", 100, true},
		{"no match", "all tests passed", 0, false},
		{"empty", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ScrapePercentage(tt.output)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ScrapePercentage(%q) = (%d, %v), want (%d, %v)", tt.output, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
