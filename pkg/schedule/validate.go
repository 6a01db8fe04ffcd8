package schedule

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// rootField is the field gojsonschema reports for document-level errors.
const rootField = "(root)"

//go:embed schema.json
var schemaJSON []byte

// SchemaJSON returns the JSON schema schedule documents are validated against.
func SchemaJSON() []byte {
	out := make([]byte, len(schemaJSON))
	copy(out, schemaJSON)

	return out
}

// Violation is one schema error found in a document.
type Violation struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationReport lists the schema violations of a schedule document.
type ValidationReport struct {
	Violations []Violation `json:"violations"`
}

// Valid reports whether the document satisfied the schema.
func (r *ValidationReport) Valid() bool {
	return len(r.Violations) == 0
}

// Validate checks a YAML schedule document against the embedded schema.
// Unlike [Decode] it reports every schema violation rather than stopping at the first one.
// A document the schema accepts is then run through [FromNode], so Valid agrees with
// [Decode]; a loader rejection (non-integral float, duplicate agent) becomes one violation.
// A document that is not YAML at all is returned as an error.
func Validate(r io.Reader) (*ValidationReport, error) {
	var doc yaml.Node

	err := yaml.NewDecoder(r).Decode(&doc)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	value, err := nodeValue(&doc)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewGoLoader(value),
	)
	if err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}

	report := &ValidationReport{}

	for _, verr := range result.Errors() {
		report.Violations = append(report.Violations, Violation{
			Field:       verr.Field(),
			Description: verr.Description(),
		})
	}

	if !report.Valid() {
		return report, nil
	}

	_, err = FromNode(&doc)
	if err != nil {
		var mse *MalformedScheduleError
		if !errors.As(err, &mse) {
			return nil, err
		}

		report.Violations = append(report.Violations, Violation{Field: mse.field(), Description: mse.Reason})
	}

	return report, nil
}

// field renders the error location the way gojsonschema names fields.
func (e *MalformedScheduleError) field() string {
	switch {
	case e.Agent != "" && e.Step >= 0:
		return fmt.Sprintf("%s.%s.%d", keySchedule, e.Agent, e.Step)
	case e.Agent != "":
		return keySchedule + "." + e.Agent
	default:
		return rootField
	}
}

// nodeValue converts a YAML node into plain JSON-compatible Go values.
// Mapping keys are always rendered as strings so numeric agent ids survive.
func nodeValue(node *yaml.Node) (any, error) {
	node = resolve(node)

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}

		return nodeValue(node.Content[0])
	case yaml.MappingNode:
		out := make(map[string]any, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			v, err := nodeValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}

			out[node.Content[i].Value] = v
		}

		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))

		for _, item := range node.Content {
			v, err := nodeValue(item)
			if err != nil {
				return nil, err
			}

			out = append(out, v)
		}

		return out, nil
	case yaml.ScalarNode:
		var v any

		err := node.Decode(&v)
		if err != nil {
			return nil, fmt.Errorf("decode scalar at line %d: %w", node.Line, err)
		}

		return v, nil
	default:
		return nil, nil
	}
}
