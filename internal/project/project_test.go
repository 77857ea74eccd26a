package project_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/KaramelBytes/shoestat-cli/internal/analysis"
	"github.com/KaramelBytes/shoestat-cli/internal/pipeline"
	"github.com/KaramelBytes/shoestat-cli/internal/project"
	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

func writeSummary(t *testing.T, p *project.Project, name string) string {
	t.Helper()
	if err := os.MkdirAll(p.SummariesDir(), 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(p.SummariesDir(), name)
	if err := os.WriteFile(path, []byte("[DATASET SUMMARY]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAddRunSaveLoad(t *testing.T) {
	root := filepath.Join(t.TempDir(), "proj")
	p := project.NewProject("ventas", "Q1 sales", root)

	rep := &analysis.Report{
		RunID:       "run-a",
		GeneratedAt: time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC),
		SampleRows:  12,
		Cleaning:    &pipeline.Stats{RawRows: 130, CleanedRows: 120, Fraction: 0.1, Seed: 42},
		Sections:    []analysis.Section{{ID: "5.1.1"}, {ID: "5.1.2", Err: "insufficient data"}},
	}
	summary := writeSummary(t, p, "ventas.summary.md")
	r, err := p.AddRun("data/ventas.csv", summary, "first pass", rep)
	if err != nil {
		t.Fatalf("add run: %v", err)
	}
	if r.ID != "run-a" || r.Summary != "ventas.summary.md" {
		t.Fatalf("unexpected run: %+v", r)
	}
	if r.RawRows != 130 || r.CleanedRows != 120 || r.SampleRows != 12 || r.FailedQueries != 1 {
		t.Fatalf("unexpected counts: %+v", r)
	}
	if err := p.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := project.LoadProject(root)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "ventas" || loaded.RootDir() != root {
		t.Fatalf("unexpected project: %s at %s", loaded.Name, loaded.RootDir())
	}
	got, ok := loaded.Runs["run-a"]
	if !ok {
		t.Fatalf("run missing after reload")
	}
	if got.Seed != 42 || got.Fraction != 0.1 || got.Source != "data/ventas.csv" {
		t.Fatalf("unexpected reloaded run: %+v", got)
	}
}

func TestAddRunRequiresSummaryFile(t *testing.T) {
	p := project.NewProject("x", "", t.TempDir())
	if _, err := p.AddRun("a.csv", filepath.Join(p.SummariesDir(), "missing.md"), "", &analysis.Report{}); err == nil {
		t.Fatalf("expected error for missing summary")
	}
	if _, err := p.AddRun("a.csv", "", "", nil); err == nil {
		t.Fatalf("expected error for nil report")
	}
}

func TestAddRunGeneratesID(t *testing.T) {
	p := project.NewProject("x", "", t.TempDir())
	summary := writeSummary(t, p, "a.summary.md")
	r, err := p.AddRun("a.csv", summary, "", &analysis.Report{})
	if err != nil {
		t.Fatal(err)
	}
	if r.ID == "" || r.CreatedAt.IsZero() {
		t.Fatalf("expected generated id and timestamp: %+v", r)
	}
}

func TestRemoveRunDeletesSummary(t *testing.T) {
	p := project.NewProject("x", "", t.TempDir())
	summary := writeSummary(t, p, "a.summary.md")
	if _, err := p.AddRun("a.csv", summary, "", &analysis.Report{RunID: "r1"}); err != nil {
		t.Fatal(err)
	}
	if err := p.RemoveRun("r1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(summary); !os.IsNotExist(err) {
		t.Fatalf("summary still present: %v", err)
	}
	if len(p.Runs) != 0 {
		t.Fatalf("run not removed")
	}
	if err := p.RemoveRun("r1"); err == nil {
		t.Fatalf("expected error for unknown run")
	}
}

func TestSortedRuns(t *testing.T) {
	p := project.NewProject("x", "", t.TempDir())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, c := range []struct {
		id  string
		off time.Duration
	}{{"c", time.Hour}, {"b", 0}, {"a", 0}} {
		s := writeSummary(t, p, c.id+".md")
		if _, err := p.AddRun(c.id, s, "", &analysis.Report{RunID: c.id, GeneratedAt: base.Add(c.off)}); err != nil {
			t.Fatal(err)
		}
	}
	var ids []string
	for _, r := range p.SortedRuns() {
		ids = append(ids, r.ID)
	}
	if len(ids) != 3 || ids[0] != "a" || ids[1] != "b" || ids[2] != "c" {
		t.Fatalf("unexpected order: %v", ids)
	}
}

func TestProjectConfigApply(t *testing.T) {
	opt := pipeline.DefaultOptions()
	var nilCfg *project.ProjectConfig
	if err := nilCfg.Apply(&opt); err != nil {
		t.Fatalf("nil config: %v", err)
	}

	frac, seed := 0.5, int64(3)
	cfg := &project.ProjectConfig{SampleFraction: &frac, Seed: &seed, StratifyBy: "country"}
	if err := cfg.Apply(&opt); err != nil {
		t.Fatal(err)
	}
	if opt.Sampling.Fraction != 0.5 || opt.Sampling.Seed != 3 || opt.Sampling.By != sales.FieldCountry {
		t.Fatalf("unexpected options: %+v", opt.Sampling)
	}

	bad := &project.ProjectConfig{StratifyBy: "size_bucket"}
	if err := bad.Apply(&opt); err == nil {
		t.Fatalf("expected error for unknown stratify field")
	}
}

func TestLoadProjectMissing(t *testing.T) {
	if _, err := project.LoadProject(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}
