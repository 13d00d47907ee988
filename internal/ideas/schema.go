// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ideas

import (
	"encoding/json"

	"github.com/invopop/jsonschema"

	"github.com/pdiddy/idea-engine/pkg/types"
)

// collectionSchema is the JSON Schema for IdeaCollection, reflected once at
// startup and embedded in every extraction prompt.
var collectionSchema = generateSchema[types.IdeaCollection]()

func generateSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// SchemaJSON renders the IdeaCollection schema as indented JSON for
// embedding in a prompt.
func SchemaJSON() (string, error) {
	data, err := json.MarshalIndent(collectionSchema, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
