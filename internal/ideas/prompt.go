// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"bytes"
	"encoding/json"
	"text/template"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// brainstormPromptTmpl frames the model as a master visual artist and asks
// for free-form idea text conditioned on the audience. The audience data is
// embedded verbatim as a JSON key/value mapping.
var brainstormPromptTmpl = template.Must(template.New("brainstorm").Parse(`You are a master visual artist.

Brainstorm a diverse set of ideas for visual art pieces that resonate emotionally with the audience described below. For every idea provide:
- a title
- an artistic style
- a detailed description of the piece, vivid enough to hand directly to an image generator
- a step-by-step procedure for producing the piece

Audience:
{{.Audience}}
`))

// extractionPromptTmpl asks the model to coerce brainstorm text into a JSON
// object matching the IdeaCollection schema, with no extraneous content.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`You convert brainstorming notes into structured data.

Respond with a single JSON object that strictly matches the following JSON Schema. Derive every field from the brainstorm notes below. Do not include any text outside the JSON object.

JSON Schema:
{{.Schema}}

Example response:
{"ideas": [{"title": "Tidal Memory", "detail": "A moonlit shoreline where translucent waves carry fragments of old photographs toward the sand.", "style": "surrealist oil painting", "procedure": "1. Sketch the shoreline composition. 2. Block in the night palette. 3. Layer the translucent wave glazes. 4. Add the photograph fragments last."}]}

Brainstorm notes:
{{.Brainstorm}}
`))

// renderBrainstormPrompt executes the brainstorm template with the audience
// serialized as JSON.
func renderBrainstormPrompt(audience types.Audience) (string, error) {
	data, err := json.Marshal(audience)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := brainstormPromptTmpl.Execute(&buf, struct{ Audience string }{Audience: string(data)}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderExtractionPrompt executes the extraction template with the
// IdeaCollection schema and the raw brainstorm text.
func renderExtractionPrompt(brainstorm string) (string, error) {
	schema, err := SchemaJSON()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	err = extractionPromptTmpl.Execute(&buf, struct {
		Schema     string
		Brainstorm string
	}{Schema: schema, Brainstorm: brainstorm})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
