package apidoc

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// MarshalJSON serializes a document to indented JSON. Serialization is
// normally the host's concern; the CLI export command uses these
// helpers.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("apidoc: marshal document: %w", err)
	}
	var buf map[string]any
	if err := json.Unmarshal(raw, &buf); err != nil {
		return nil, fmt.Errorf("apidoc: marshal document: %w", err)
	}
	return json.MarshalIndent(buf, "", "  ")
}

// MarshalYAML serializes a document to YAML by round-tripping through
// its JSON form so every custom marshaler applies.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("apidoc: marshal document: %w", err)
	}
	var buf map[string]any
	if err := json.Unmarshal(raw, &buf); err != nil {
		return nil, fmt.Errorf("apidoc: marshal document: %w", err)
	}
	return yaml.Marshal(buf)
}
