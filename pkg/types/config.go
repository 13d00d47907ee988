// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIConfig holds shared settings for stages that call a chat completion API.
type AIConfig struct {
	// Model is the chat model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the chat completion API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for OpenAI-compatible providers
	// (e.g. "https://openrouter.ai/api/v1"). Empty means the default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout is the per-call request timeout (default 120s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxAttempts is the total number of extraction attempts before the
	// run fails (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts"`
}

// BrainstormConfig holds settings for the brainstorm pipeline.
type BrainstormConfig struct {
	AIConfig `yaml:",inline"`

	// OutputDir is the directory for ideas files (e.g. "ideas/").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Strict rejects extraction responses that carry fields beyond the
	// declared schema. The default is permissive: unknown fields are
	// ignored rather than burning a retry attempt.
	Strict bool `json:"strict" yaml:"strict"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Brainstorm BrainstormConfig `json:"brainstorm" yaml:"brainstorm"`
}
