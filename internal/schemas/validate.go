// Package schemas validates structured model output against embedded JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed *.schema.json
var schemaFiles embed.FS

// Embedded schema names.
const (
	SkillsSchema     = "skills.schema.json"
	PredictionSchema = "prediction.schema.json"
	DraftSchema      = "draft.schema.json"
)

// FieldError is one violation. Field is a dotted path, "(root)" for the document.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("%s: %s", ve.Schema, strings.Join(parts, "; "))
}

// LoadError reports a schema that cannot be read or compiled, or a document that
// is not JSON at all.
type LoadError struct {
	Schema  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Schema, e.Message, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

var compiled sync.Map // schema name -> *gojsonschema.Schema

func schema(name string) (*gojsonschema.Schema, error) {
	if s, ok := compiled.Load(name); ok {
		return s.(*gojsonschema.Schema), nil
	}
	data, err := schemaFiles.ReadFile(name)
	if err != nil {
		return nil, &LoadError{Schema: name, Message: "schema not embedded", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &LoadError{Schema: name, Message: "schema does not compile", Cause: err}
	}
	actual, _ := compiled.LoadOrStore(name, s)
	return actual.(*gojsonschema.Schema), nil
}

// Validate checks a JSON document against one of the embedded schemas.
func Validate(name, doc string) error {
	s, err := schema(name)
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return &LoadError{Schema: name, Message: "document is not JSON", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Schema: name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{Field: desc.Field(), Message: desc.Description()})
	}
	return ve
}
