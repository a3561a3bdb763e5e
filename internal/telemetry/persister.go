package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Persister stores run summaries by run ID.
type Persister interface {
	Save(ctx context.Context, summary RunSummary) error
	Load(ctx context.Context, runID string) (RunSummary, error)
}

// JSONPersister is a file-based persister using JSON serialization.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring the directory exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

func (p *JSONPersister) Save(ctx context.Context, summary RunSummary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeSummary(p.dir, summary.RunID, ".json", data)
}

func (p *JSONPersister) Load(ctx context.Context, runID string) (RunSummary, error) {
	data, err := readSummary(p.dir, runID, ".json")
	if err != nil {
		return RunSummary{}, err
	}

	var summary RunSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return RunSummary{}, fmt.Errorf("json unmarshal: %w", err)
	}
	summary.RunID = runID
	return summary, nil
}

// YAMLPersister is a file-based persister using YAML serialization.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring the directory exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

func (p *YAMLPersister) Save(ctx context.Context, summary RunSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}
	return writeSummary(p.dir, summary.RunID, ".yaml", data)
}

func (p *YAMLPersister) Load(ctx context.Context, runID string) (RunSummary, error) {
	data, err := readSummary(p.dir, runID, ".yaml")
	if err != nil {
		return RunSummary{}, err
	}

	var summary RunSummary
	if err := yaml.Unmarshal(data, &summary); err != nil {
		return RunSummary{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	summary.RunID = runID
	return summary, nil
}

func writeSummary(dir, runID, ext string, data []byte) error {
	if runID == "" {
		return errors.New("summary has no run ID")
	}
	fn := filepath.Join(dir, runID+ext)
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

func readSummary(dir, runID, ext string) ([]byte, error) {
	fn := filepath.Join(dir, runID+ext)
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("run %q: %w", runID, os.ErrNotExist)
		}
		return nil, fmt.Errorf("read %s: %w", fn, err)
	}
	return data, nil
}
