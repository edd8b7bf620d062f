package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRunCapturesOutput(t *testing.T) {
	r := &Runner{Command: "echo coverage: 85.5%"}
	result := r.Run(context.Background())

	if !result.Ran() {
		t.Fatalf("Run() failed: %v", result.Err)
	}
	if !strings.Contains(result.Output, "85.5%") {
		t.Errorf("Output = %q, want to contain %q", result.Output, "85.5%")
	}
}

func TestRunMissingCommand(t *testing.T) {
	r := &Runner{Command: "definitely-not-a-real-command-xyz"}
	result := r.Run(context.Background())

	if result.Ran() {
		t.Fatal("Run() succeeded for missing command")
	}
	if result.TimedOut {
		t.Error("TimedOut = true for missing command")
	}
}

func TestRunNonZeroExit(t *testing.T) {
	r := &Runner{Command: "false"}
	result := r.Run(context.Background())

	if result.Ran() {
		t.Fatal("Run() succeeded for failing command")
	}
	if result.TimedOut {
		t.Error("TimedOut = true for plain failure")
	}
}

func TestRunEmptyCommand(t *testing.T) {
	r := &Runner{Command: "   "}
	result := r.Run(context.Background())
	if result.Ran() {
		t.Fatal("Run() succeeded for empty command")
	}
}

func TestRunTimeout(t *testing.T) {
	r := &Runner{Command: "sleep 5", Timeout: 50 * time.Millisecond}

	start := time.Now()
	result := r.Run(context.Background())
	elapsed := time.Since(start)

	if result.Ran() {
		t.Fatal("Run() succeeded, want timeout failure")
	}
	if !result.TimedOut {
		t.Errorf("TimedOut = false, want true (err: %v)", result.Err)
	}
	if elapsed > 2*time.Second {
		t.Errorf("timeout took %v, expected prompt kill", elapsed)
	}
}

func TestRunWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write marker: %v", err)
	}

	r := &Runner{Command: "ls", Dir: dir}
	result := r.Run(context.Background())

	if !result.Ran() {
		t.Fatalf("Run() failed: %v", result.Err)
	}
	if !strings.Contains(result.Output, "marker.txt") {
		t.Errorf("Output = %q, want to contain marker.txt", result.Output)
	}
}
