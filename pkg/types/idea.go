// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Audience describes the target viewer demographic that drives a brainstorm
// run. It is built by the caller, validated once at the pipeline boundary,
// and never mutated afterwards.
type Audience struct {
	// Age is the target age range (e.g. "18-22").
	Age string `json:"age" yaml:"age"`

	// Attributes lists demographic traits in caller order
	// (e.g. "energetic", "undergraduate").
	Attributes []string `json:"attributes" yaml:"attributes"`
}

// Validate checks the audience for structural problems: a missing age range
// or blank attribute entries.
func (a Audience) Validate() error {
	if strings.TrimSpace(a.Age) == "" {
		return fmt.Errorf("audience age must not be empty")
	}
	for i, attr := range a.Attributes {
		if strings.TrimSpace(attr) == "" {
			return fmt.Errorf("audience attribute %d must not be empty", i)
		}
	}
	return nil
}

// Idea is one structured artistic concept produced by a brainstorm run.
// The jsonschema tags feed the schema embedded in the extraction prompt.
type Idea struct {
	// Title names the concept.
	Title string `json:"title" yaml:"title" jsonschema:"description=A short evocative name for the concept."`

	// Detail is the long descriptive prompt handed verbatim to an external
	// image generator.
	Detail string `json:"detail" yaml:"detail" jsonschema:"description=A detailed visual description usable directly as an image generation prompt."`

	// Style is the artistic style label (e.g. "watercolor", "cyberpunk").
	Style string `json:"style" yaml:"style" jsonschema:"description=The artistic style of the piece."`

	// Procedure is the step-by-step production method for the piece.
	Procedure string `json:"procedure" yaml:"procedure" jsonschema:"description=Step-by-step instructions for producing the piece."`
}

// IdeaCollection is the top-level artifact of one pipeline run. Order
// reflects generation order.
type IdeaCollection struct {
	// Ideas lists the brainstormed concepts.
	Ideas []Idea `json:"ideas" yaml:"ideas" jsonschema:"description=The list of brainstormed ideas."`
}
