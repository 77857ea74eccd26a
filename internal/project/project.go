package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/shoestat-cli/internal/analysis"
	"github.com/KaramelBytes/shoestat-cli/internal/pipeline"
	"github.com/KaramelBytes/shoestat-cli/internal/sales"
	"github.com/KaramelBytes/shoestat-cli/internal/utils"
)

const (
	projectFileName = "project.json"
	summariesDir    = "dataset_summaries"
)

// Project represents a shoestat project persisted on disk: a named folder
// collecting the reports of analysis runs.
type Project struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Runs        map[string]*Run `json:"runs"`
	Config      *ProjectConfig  `json:"config"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Not serialized: on-disk location of the project.json
	rootDir string `json:"-"`
}

// ProjectConfig overrides global sampling settings for runs attached to the
// project. Nil fields inherit.
type ProjectConfig struct {
	SampleFraction *float64 `json:"sample_fraction,omitempty"`
	Seed           *int64   `json:"seed,omitempty"`
	StratifyBy     string   `json:"stratify_by,omitempty"`
}

// Apply overlays the project's overrides on opt.
func (c *ProjectConfig) Apply(opt *pipeline.Options) error {
	if c == nil {
		return nil
	}
	if c.SampleFraction != nil {
		opt.Sampling.Fraction = *c.SampleFraction
	}
	if c.Seed != nil {
		opt.Sampling.Seed = *c.Seed
	}
	if c.StratifyBy != "" {
		f, err := sales.ParseField(c.StratifyBy)
		if err != nil {
			return fmt.Errorf("project stratify_by: %w", err)
		}
		opt.Sampling.By = f
	}
	return nil
}

// NewProject constructs an in-memory project. Call Save() to persist.
func NewProject(name, description, rootDir string) *Project {
	now := time.Now()
	return &Project{
		Name:        name,
		Description: description,
		Runs:        make(map[string]*Run),
		Config:      &ProjectConfig{},
		CreatedAt:   now,
		UpdatedAt:   now,
		rootDir:     rootDir,
	}
}

// LoadProject loads a project.json from the provided directory.
func LoadProject(dir string) (*Project, error) {
	path := filepath.Join(dir, projectFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("project not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse project: %w", err)
	}
	p.rootDir = dir
	return &p, nil
}

// RootDir returns the on-disk project directory path.
func (p *Project) RootDir() string { return p.rootDir }

// SummariesDir is where attached reports are written.
func (p *Project) SummariesDir() string { return filepath.Join(p.rootDir, summariesDir) }

// Save writes project.json using atomic write.
func (p *Project) Save() error {
	if p.rootDir == "" {
		return errors.New("project root directory not set")
	}
	if err := utils.EnsureProjectDir(p.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	p.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(p)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(p.rootDir, projectFileName), data)
}

// AddRun records a report already written to summaryPath. The run id is the
// report's run id, or a fresh one if the report has none.
func (p *Project) AddRun(source, summaryPath, description string, rep *analysis.Report) (*Run, error) {
	if rep == nil {
		return nil, errors.New("report is nil")
	}
	if _, err := os.Stat(summaryPath); err != nil {
		return nil, fmt.Errorf("stat summary: %w", err)
	}
	id := rep.RunID
	if id == "" {
		id = uuid.NewString()
	}
	r := &Run{
		ID:            id,
		Source:        source,
		Summary:       filepath.Base(summaryPath),
		Description:   description,
		SampleRows:    rep.SampleRows,
		FailedQueries: len(rep.Failed()),
		CreatedAt:     rep.GeneratedAt,
	}
	if c := rep.Cleaning; c != nil {
		r.RawRows = c.RawRows
		r.CleanedRows = c.CleanedRows
		r.Fraction = c.Fraction
		r.Seed = c.Seed
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if p.Runs == nil {
		p.Runs = make(map[string]*Run)
	}
	p.Runs[id] = r
	p.UpdatedAt = time.Now()
	return r, nil
}

// RemoveRun drops a run and deletes its summary file.
func (p *Project) RemoveRun(id string) error {
	r, ok := p.Runs[id]
	if !ok {
		return fmt.Errorf("run %s not found in project %s", id, p.Name)
	}
	if err := os.Remove(filepath.Join(p.SummariesDir(), r.Summary)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove summary: %w", err)
	}
	delete(p.Runs, id)
	p.UpdatedAt = time.Now()
	return nil
}

// SortedRuns returns runs oldest first; equal times order by id.
func (p *Project) SortedRuns() []*Run {
	out := make([]*Run, 0, len(p.Runs))
	for _, r := range p.Runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
