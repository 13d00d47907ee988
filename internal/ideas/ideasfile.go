// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// IdeasFile is the on-disk representation of one brainstorm run: the
// audience that drove it, the configuration used, the resulting ideas, and
// a summary. The caller can save a run to a file and reload it later. The
// core pipeline never reads these files back; they exist for the external
// image-generation step, which consumes the detail field of each idea.
type IdeasFile struct {
	Audience types.Audience  `yaml:"audience"`
	Config   IdeasFileConfig `yaml:"config"`
	Ideas    []types.Idea    `yaml:"ideas"`
	Summary  IdeasSummary    `yaml:"summary"`
}

// IdeasFileConfig stores the run configuration that produced the ideas.
type IdeasFileConfig struct {
	Model       string `yaml:"model"`
	MaxAttempts int    `yaml:"max_attempts"`
	Strict      bool   `yaml:"strict"`
}

// IdeasSummary stores result statistics and a timestamp.
type IdeasSummary struct {
	Total     int       `yaml:"total"`
	Timestamp time.Time `yaml:"timestamp"`
}

// WriteIdeasFile saves a brainstorm run to a YAML file.
func WriteIdeasFile(path string, audience types.Audience, cfg types.BrainstormConfig, collection *types.IdeaCollection) error {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	f := IdeasFile{
		Audience: audience,
		Config: IdeasFileConfig{
			Model:       cfg.Model,
			MaxAttempts: maxAttempts,
			Strict:      cfg.Strict,
		},
		Ideas: collection.Ideas,
		Summary: IdeasSummary{
			Total:     len(collection.Ideas),
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&f)
	if err != nil {
		return fmt.Errorf("marshaling ideas file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadIdeasFile loads a previously saved ideas file from disk.
func ReadIdeasFile(path string) (*IdeasFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ideas file: %w", err)
	}
	var f IdeasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing ideas file: %w", err)
	}
	return &f, nil
}

// ReadAudienceFile loads an audience description from a YAML file.
func ReadAudienceFile(path string) (types.Audience, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Audience{}, fmt.Errorf("reading audience file: %w", err)
	}
	var a types.Audience
	if err := yaml.Unmarshal(data, &a); err != nil {
		return types.Audience{}, fmt.Errorf("parsing audience file: %w", err)
	}
	return a, nil
}
