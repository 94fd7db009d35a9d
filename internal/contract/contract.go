// Package contract describes the JSON a model is asked to return and checks raw
// payloads against it.
package contract

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	"github.com/xeipuuv/gojsonschema"

	"exercise-forge/internal/domain"
)

const schemaDraft = "http://json-schema.org/draft-07/schema#"

// MultipleChoiceItem is one question as the model should write it.
type MultipleChoiceItem struct {
	Question      string   `json:"question" jsonschema:"description=Question text testing the knowledge point"`
	Options       []string `json:"options" jsonschema:"minItems=4,maxItems=4,description=Exactly four answer options"`
	CorrectAnswer int      `json:"correctAnswer" jsonschema:"minimum=0,maximum=3,description=Zero-based index of the correct option"`
	Explanation   string   `json:"explanation" jsonschema:"description=Why the correct option is right"`
}

type MultipleChoiceEnvelope struct {
	Questions []MultipleChoiceItem `json:"questions" jsonschema:"minItems=1"`
}

type GapFillEnvelope struct {
	Text        string `json:"text" jsonschema:"description=Passage with every gap written as [GAP:answer] followed by a hint in parentheses"`
	Explanation string `json:"explanation" jsonschema:"description=Grammar explanation for the gaps"`
}

var (
	schemaOnce sync.Once
	schemas    map[domain.ExerciseKind]string
	schemaErr  error
)

// Schema returns the JSON Schema for the payload of the given kind.
func Schema(kind domain.ExerciseKind) (string, error) {
	schemaOnce.Do(func() {
		schemas = make(map[domain.ExerciseKind]string, 2)
		for k, v := range map[domain.ExerciseKind]interface{}{
			domain.KindMultipleChoice: MultipleChoiceEnvelope{},
			domain.KindGapFill:        GapFillEnvelope{},
		} {
			s, err := reflectSchema(v)
			if err != nil {
				schemaErr = err
				return
			}
			schemas[k] = s
		}
	})
	if schemaErr != nil {
		return "", schemaErr
	}
	s, ok := schemas[kind]
	if !ok {
		return "", domain.NewInvalidInputError(fmt.Sprintf("no schema for exercise kind %q", kind))
	}
	return s, nil
}

func reflectSchema(v interface{}) (string, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(v)
	schema.Version = schemaDraft
	schema.ID = ""

	b, err := json.Marshal(schema)
	if err != nil {
		return "", domain.NewInternalError("failed to encode schema", err)
	}
	return string(b), nil
}

// Report lists where a payload departs from the contract.
type Report struct {
	Valid  bool
	Errors []string
}

func (r Report) String() string {
	return strings.Join(r.Errors, "; ")
}

// Check validates a raw payload against the contract of its kind. A failed check is
// informational; normalizers repair what they can.
func Check(kind domain.ExerciseKind, payload domain.RawModelPayload) (Report, error) {
	schema, err := Schema(kind)
	if err != nil {
		return Report{}, err
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(payload.Raw()),
	)
	if err != nil {
		return Report{}, domain.NewInternalError("schema validation failed", err)
	}

	report := Report{Valid: result.Valid()}
	for _, e := range result.Errors() {
		report.Errors = append(report.Errors, e.String())
	}
	return report, nil
}
