package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/comalice/fixedloop/internal/logging"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRunAndStats(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "frames.db")
	summaries := filepath.Join(dir, "summaries")

	out, err := execute(t, "run",
		"--fps", "1000", "--uncapped",
		"--frames", "5", "--restarts", "1",
		"--particles", "10",
		"--db", db, "--summary-dir", summaries,
	)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"Runs:     2", "Frames:   10", "/ 1000 target"} {
		if !strings.Contains(out, want) {
			t.Errorf("run output missing %q:\n%s", want, out)
		}
	}

	entries, err := os.ReadDir(summaries)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || filepath.Ext(entries[0].Name()) != ".yaml" {
		t.Errorf("Expected one YAML summary, got %v", entries)
	}

	out, err = execute(t, "stats", "--db", db, "--list", "3")
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	for _, want := range []string{"Runs:     2", "Frames:   10", "TOTAL", "DURATION"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n < 10 {
		t.Errorf("Expected a summary and 3 listed frames, got:\n%s", out)
	}
}

func TestRunRejectsUnknownWait(t *testing.T) {
	if _, err := execute(t, "run", "--frames", "1", "--wait", "yield"); err == nil {
		t.Error("Expected an error for an unknown wait strategy")
	}
}

func TestStatsWithoutDatabase(t *testing.T) {
	if _, err := execute(t, "stats"); err == nil {
		t.Error("Expected an error without a database")
	}

	db := filepath.Join(t.TempDir(), "empty.db")
	if _, err := execute(t, "stats", "--db", db); err == nil || !strings.Contains(err.Error(), "no runs recorded") {
		t.Errorf("Expected no runs recorded, got %v", err)
	}
}

func TestParticleSimBounces(t *testing.T) {
	sim := newParticleSim(3, 7, logging.Discard())
	sim.StartUp()
	start := sim.energy()
	for i := 0; i < 1000; i++ {
		sim.UpdateFixed(1.0 / 120)
	}
	if sim.bounces == 0 {
		t.Error("Expected particles to reach the floor within 8 simulated seconds")
	}
	if sim.energy() >= start {
		t.Errorf("Expected bounces to lose energy: start %v, now %v", start, sim.energy())
	}
	for _, p := range sim.particles {
		if p.y < 0 {
			t.Errorf("Particle below the floor: %+v", p)
		}
	}

	sim.StartUp()
	if sim.energy() != start || sim.bounces != 0 {
		t.Error("Expected StartUp to restore the seeded initial state")
	}
}
