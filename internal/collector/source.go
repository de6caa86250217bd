package collector

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"StrideCoach/internal/model"
)

// Source defines where profile snapshots come from.
type Source interface {
	Profiles(ctx context.Context) ([]model.OrchestratorInput, error)
	Name() string
}

// StaticSource serves a fixed list. Useful for development and tests.
type StaticSource struct {
	Items []model.OrchestratorInput
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Profiles(context.Context) ([]model.OrchestratorInput, error) {
	return append([]model.OrchestratorInput(nil), s.Items...), nil
}

// FileSource reads profiles from a YAML file on every call, so edits are
// picked up without a restart.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource { return &FileSource{Path: path} }

func (f *FileSource) Name() string { return "file" }

type profileFile struct {
	Profiles []model.OrchestratorInput `yaml:"profiles"`
}

func (f *FileSource) Profiles(ctx context.Context) ([]model.OrchestratorInput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var pf profileFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse profiles %s: %w", f.Path, err)
	}
	return pf.Profiles, nil
}
