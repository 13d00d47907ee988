package ideas

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/idea-engine/internal/chat"
	"github.com/pdiddy/idea-engine/pkg/types"
)

// --- mock completer ---

// scriptedCompleter returns canned responses in call order. A non-nil err
// forces a transport failure on every call.
type scriptedCompleter struct {
	responses []string
	err       error
	calls     int
	prompts   []string // last message content per call
}

func (s *scriptedCompleter) Complete(_ context.Context, _ string, messages []chat.Message) (string, error) {
	s.calls++
	if len(messages) > 0 {
		s.prompts = append(s.prompts, messages[len(messages)-1].Content)
	}
	if s.err != nil {
		return "", s.err
	}
	if s.calls <= len(s.responses) {
		return s.responses[s.calls-1], nil
	}
	return "", nil
}

const validResponse = `{"ideas":[{"title":"T","detail":"D","style":"S","procedure":"P"}]}`

func testAudience() types.Audience {
	return types.Audience{Age: "18-22", Attributes: []string{"energetic", "undergraduate"}}
}

func testConfig() types.BrainstormConfig {
	return types.BrainstormConfig{
		AIConfig: types.AIConfig{Model: "test-model"},
	}
}

// --- Generate ---

func TestGenerateValidFirstTry(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{
		"Some free-form prose about art ideas.",
		validResponse,
	}}

	got, err := Generate(context.Background(), backend, testAudience(), testConfig())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := types.IdeaCollection{Ideas: []types.Idea{
		{Title: "T", Detail: "D", Style: "S", Procedure: "P"},
	}}
	if len(got.Ideas) != 1 || got.Ideas[0] != want.Ideas[0] {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if backend.calls != 2 {
		t.Errorf("expected 2 calls (brainstorm + 1 extraction), got %d", backend.calls)
	}
}

func TestGenerateDoesNotMutateAudience(t *testing.T) {
	audience := testAudience()
	attrsCopy := make([]string, len(audience.Attributes))
	copy(attrsCopy, audience.Attributes)

	backend := &scriptedCompleter{responses: []string{"prose", validResponse}}
	if _, err := Generate(context.Background(), backend, audience, testConfig()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if audience.Age != "18-22" {
		t.Errorf("audience age mutated: %q", audience.Age)
	}
	if len(audience.Attributes) != len(attrsCopy) {
		t.Fatalf("audience attributes length changed: %d", len(audience.Attributes))
	}
	for i, attr := range audience.Attributes {
		if attr != attrsCopy[i] {
			t.Errorf("audience attribute %d mutated: %q", i, attr)
		}
	}
}

func TestGenerateInvalidAudience(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{"prose", validResponse}}

	_, err := Generate(context.Background(), backend, types.Audience{Age: "  "}, testConfig())
	if err == nil {
		t.Fatal("expected error for empty audience age")
	}
	if backend.calls != 0 {
		t.Errorf("expected no backend calls for invalid audience, got %d", backend.calls)
	}
}

func TestGenerateBrainstormTransportError(t *testing.T) {
	backend := &scriptedCompleter{err: &chat.TransportError{Op: "chat completion", Err: errors.New("connection refused")}}

	_, err := Generate(context.Background(), backend, testAudience(), testConfig())
	if err == nil {
		t.Fatal("expected transport error")
	}

	var te *chat.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected *chat.TransportError, got %T: %v", err, err)
	}
	var ve *ValidationExhaustedError
	if errors.As(err, &ve) {
		t.Error("transport failure must not surface as validation exhaustion")
	}
	if backend.calls != 1 {
		t.Errorf("extractor must never be invoked after a brainstorm failure, got %d calls", backend.calls)
	}
}

// --- Brainstorm ---

func TestBrainstormEmbedsAudience(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{"raw prose"}}

	got, err := Brainstorm(context.Background(), backend, testAudience(), "test-model")
	if err != nil {
		t.Fatalf("Brainstorm: %v", err)
	}
	if got != "raw prose" {
		t.Errorf("expected raw response text, got %q", got)
	}

	prompt := backend.prompts[0]
	for _, want := range []string{"master visual artist", "18-22", "energetic", "undergraduate"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("brainstorm prompt missing %q", want)
		}
	}
}

// --- Extract: retry behavior ---

func TestExtractRetryBound(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{
		`{"ideas": "not-a-list"}`,
		`{"ideas": "not-a-list"}`,
		`{"ideas": "not-a-list"}`,
		validResponse, // must never be reached
	}}

	_, err := Extract(context.Background(), backend, "prose", testConfig())
	if err == nil {
		t.Fatal("expected validation exhaustion")
	}

	var ve *ValidationExhaustedError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationExhaustedError, got %T: %v", err, err)
	}
	if ve.Attempts != 3 {
		t.Errorf("expected 3 attempts recorded, got %d", ve.Attempts)
	}
	if backend.calls != 3 {
		t.Errorf("expected exactly 3 calls, got %d", backend.calls)
	}
}

func TestExtractEarlySuccess(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{
		"this is not JSON at all",
		validResponse,
		`{"ideas":[{"title":"X","detail":"X","style":"X","procedure":"X"}]}`, // must never be reached
	}}

	got, err := Extract(context.Background(), backend, "prose", testConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Ideas[0].Title != "T" {
		t.Errorf("expected result from attempt 2, got %+v", got.Ideas[0])
	}
	if backend.calls != 2 {
		t.Errorf("expected exactly 2 calls, got %d", backend.calls)
	}
}

func TestExtractEmptyResponseConsumesAttempt(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{
		"",
		"   \n\t ",
		validResponse,
	}}

	got, err := Extract(context.Background(), backend, "prose", testConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if backend.calls != 3 {
		t.Errorf("expected blank responses to consume attempts, got %d calls", backend.calls)
	}
	if len(got.Ideas) != 1 {
		t.Errorf("expected 1 idea, got %d", len(got.Ideas))
	}
}

func TestExtractTransportErrorFailsFast(t *testing.T) {
	backend := &scriptedCompleter{err: &chat.TransportError{Op: "chat completion", Err: errors.New("boom")}}

	_, err := Extract(context.Background(), backend, "prose", testConfig())
	if err == nil {
		t.Fatal("expected error")
	}

	var te *chat.TransportError
	if !errors.As(err, &te) {
		t.Errorf("expected *chat.TransportError, got %T: %v", err, err)
	}
	if backend.calls != 1 {
		t.Errorf("transport failures must not be retried, got %d calls", backend.calls)
	}
}

func TestExtractConfiguredAttempts(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{"bad", "bad", "bad", "bad", validResponse}}

	cfg := testConfig()
	cfg.MaxAttempts = 5

	got, err := Extract(context.Background(), backend, "prose", cfg)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if backend.calls != 5 {
		t.Errorf("expected 5 calls, got %d", backend.calls)
	}
	if len(got.Ideas) != 1 {
		t.Errorf("expected 1 idea, got %d", len(got.Ideas))
	}
}

func TestExtractEmbedsSchemaAndBrainstorm(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{validResponse}}

	if _, err := Extract(context.Background(), backend, "NOTES-MARKER", testConfig()); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	prompt := backend.prompts[0]
	for _, want := range []string{"JSON Schema", `"ideas"`, `"title"`, `"detail"`, `"style"`, `"procedure"`, "NOTES-MARKER"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("extraction prompt missing %q", want)
		}
	}
}

// --- Extract: validation ---

func TestDecodeCollection(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		strict  bool
		wantErr bool
	}{
		{
			name: "valid response",
			text: validResponse,
		},
		{
			name: "fenced JSON",
			text: "```json\n" + validResponse + "\n```",
		},
		{
			name:    "missing ideas key",
			text:    `{}`,
			wantErr: true,
		},
		{
			name:    "null ideas",
			text:    `{"ideas": null}`,
			wantErr: true,
		},
		{
			name:    "empty ideas list",
			text:    `{"ideas": []}`,
			wantErr: true,
		},
		{
			name:    "ideas is not a list",
			text:    `{"ideas": "not-a-list"}`,
			wantErr: true,
		},
		{
			name:    "idea missing fields",
			text:    `{"ideas":[{"title":"T"}]}`,
			wantErr: true,
		},
		{
			name:    "idea with empty field",
			text:    `{"ideas":[{"title":"T","detail":"","style":"S","procedure":"P"}]}`,
			wantErr: true,
		},
		{
			name: "unknown fields ignored by default",
			text: `{"ideas":[{"title":"T","detail":"D","style":"S","procedure":"P","mood":"wistful"}],"note":"extra"}`,
		},
		{
			name:    "unknown fields rejected in strict mode",
			text:    `{"ideas":[{"title":"T","detail":"D","style":"S","procedure":"P","mood":"wistful"}]}`,
			strict:  true,
			wantErr: true,
		},
		{
			name:   "strict mode accepts exact schema",
			text:   validResponse,
			strict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeCollection(tt.text, tt.strict)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected validation failure, got %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeCollection: %v", err)
			}
			if len(got.Ideas) == 0 {
				t.Fatal("expected at least one idea")
			}
		})
	}
}

// TestExtractNoFieldCoercion verifies values pass through exactly as parsed.
func TestExtractNoFieldCoercion(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{
		`{"ideas":[{"title":"  spaced  ","detail":"line\nbreak","style":"UPPER","procedure":"1. \"quoted\""}]}`,
	}}

	got, err := Extract(context.Background(), backend, "prose", testConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	idea := got.Ideas[0]
	if idea.Title != "  spaced  " {
		t.Errorf("title coerced: %q", idea.Title)
	}
	if idea.Detail != "line\nbreak" {
		t.Errorf("detail coerced: %q", idea.Detail)
	}
	if idea.Style != "UPPER" {
		t.Errorf("style coerced: %q", idea.Style)
	}
	if idea.Procedure != `1. "quoted"` {
		t.Errorf("procedure coerced: %q", idea.Procedure)
	}
}

func TestExtractPreservesIdeaOrder(t *testing.T) {
	backend := &scriptedCompleter{responses: []string{
		`{"ideas":[
			{"title":"first","detail":"D","style":"S","procedure":"P"},
			{"title":"second","detail":"D","style":"S","procedure":"P"},
			{"title":"third","detail":"D","style":"S","procedure":"P"}
		]}`,
	}}

	got, err := Extract(context.Background(), backend, "prose", testConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := []string{"first", "second", "third"}
	for i, title := range want {
		if got.Ideas[i].Title != title {
			t.Errorf("idea %d: got title %q, want %q", i, got.Ideas[i].Title, title)
		}
	}
}
