// Package ideas runs the two-stage brainstorm pipeline: a free-form
// brainstorm request followed by schema-constrained extraction into a
// validated IdeaCollection.
// Implements: prd001-brainstorm (R1-R3), prd002-extraction (R1-R5);
//
//	docs/ARCHITECTURE § Idea Pipeline.
package ideas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/idea-engine/internal/chat"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// defaultMaxAttempts bounds the extraction retry loop. Chat models do not
// reliably emit schema-conformant JSON on a single try; a small fixed budget
// trades latency and cost for a bounded reliability improvement.
const defaultMaxAttempts = 3

// ValidationExhaustedError reports that every extraction attempt produced a
// response that failed to parse or validate against the IdeaCollection
// schema. It never carries a partial collection. Last records the final
// attempt's failure for diagnostics.
type ValidationExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ValidationExhaustedError) Error() string {
	return fmt.Sprintf("no schema-valid response after %d attempts (last failure: %v)", e.Attempts, e.Last)
}

func (e *ValidationExhaustedError) Unwrap() error { return e.Last }

// Generate runs the full pipeline for one audience: brainstorm free-form
// idea text, then extract it into a validated IdeaCollection. The audience
// is validated once at this boundary and never mutated. Transport failures
// surface as *chat.TransportError; a run that exhausts the extraction
// budget surfaces *ValidationExhaustedError.
func Generate(ctx context.Context, backend chat.Completer, audience types.Audience, cfg types.BrainstormConfig) (*types.IdeaCollection, error) {
	if err := audience.Validate(); err != nil {
		return nil, fmt.Errorf("invalid audience: %w", err)
	}

	raw, err := Brainstorm(ctx, backend, audience, cfg.Model)
	if err != nil {
		return nil, err
	}

	return Extract(ctx, backend, raw, cfg)
}

// Brainstorm sends one chat turn asking the model for free-form idea text
// conditioned on the audience, and returns the raw response. There is no
// internal retry: the call is non-deterministic, so silently retrying could
// mask caller-visible cost. A failed call propagates immediately.
func Brainstorm(ctx context.Context, backend chat.Completer, audience types.Audience, model string) (string, error) {
	prompt, err := renderBrainstormPrompt(audience)
	if err != nil {
		return "", fmt.Errorf("rendering brainstorm prompt: %w", err)
	}

	text, err := backend.Complete(ctx, model, []chat.Message{
		{Role: chat.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("brainstorm call: %w", err)
	}
	return text, nil
}

// Extract coerces raw brainstorm text into a validated IdeaCollection by
// asking the model for JSON matching the IdeaCollection schema. Each
// attempt is an independent request sharing only the schema and the
// brainstorm text; a failed attempt is discarded, never repaired. Parse and
// validation failures are absorbed and consume one attempt each. Transport
// failures abort the loop immediately. When the budget is exhausted the
// caller gets a *ValidationExhaustedError and no partial result.
func Extract(ctx context.Context, backend chat.Completer, brainstorm string, cfg types.BrainstormConfig) (*types.IdeaCollection, error) {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	prompt, err := renderExtractionPrompt(brainstorm)
	if err != nil {
		return nil, fmt.Errorf("rendering extraction prompt: %w", err)
	}
	messages := []chat.Message{
		{Role: chat.RoleUser, Content: prompt},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		text, err := backend.Complete(ctx, cfg.Model, messages)
		if err != nil {
			// Transport failures are fatal; only validation failures
			// consume retry attempts.
			return nil, fmt.Errorf("extraction attempt %d: %w", attempt, err)
		}

		collection, vErr := decodeCollection(text, cfg.Strict)
		if vErr == nil {
			return collection, nil
		}
		lastErr = vErr
	}

	return nil, &ValidationExhaustedError{Attempts: maxAttempts, Last: lastErr}
}

// decodeCollection parses one response as JSON and validates it against the
// IdeaCollection structure: the ideas list must be present and non-empty,
// and every idea must carry all four fields. Field values pass through
// unmodified. With strict set, fields beyond the schema are rejected;
// otherwise they are ignored so a chatty model does not burn the budget.
func decodeCollection(text string, strict bool) (*types.IdeaCollection, error) {
	trimmed := strings.TrimSpace(trimCodeFence(text))
	if trimmed == "" {
		return nil, errors.New("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(trimmed))
	if strict {
		dec.DisallowUnknownFields()
	}

	var collection types.IdeaCollection
	if err := dec.Decode(&collection); err != nil {
		return nil, fmt.Errorf("parsing response JSON: %w", err)
	}

	if collection.Ideas == nil {
		return nil, errors.New(`response is missing the "ideas" list`)
	}
	if len(collection.Ideas) == 0 {
		return nil, errors.New(`response "ideas" list is empty`)
	}
	for i, idea := range collection.Ideas {
		if idea.Title == "" {
			return nil, fmt.Errorf("idea %d: empty title", i)
		}
		if idea.Detail == "" {
			return nil, fmt.Errorf("idea %d: empty detail", i)
		}
		if idea.Style == "" {
			return nil, fmt.Errorf("idea %d: empty style", i)
		}
		if idea.Procedure == "" {
			return nil, fmt.Errorf("idea %d: empty procedure", i)
		}
	}

	return &collection, nil
}

// trimCodeFence strips a Markdown code fence wrapper that chat models often
// add around JSON output. Anything that is not a fence passes through
// untouched.
func trimCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	rest := strings.TrimPrefix(trimmed, "```")

	// Drop the language tag line (e.g. "json").
	nl := strings.IndexByte(rest, '\n')
	if nl < 0 {
		return s
	}
	rest = rest[nl+1:]

	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(rest, "```")
	return rest
}
