package submissions

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"exitlayer/internal/audit"
)

// ErrValidation marks a payload that failed the intake schema.
var ErrValidation = errors.New("submission validation failed")

const intakeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["company_name", "contact_name", "email"],
  "properties": {
    "company_name": {"type": "string", "minLength": 2, "maxLength": 160},
    "contact_name": {"type": "string", "minLength": 1, "maxLength": 160},
    "email": {
      "type": "string",
      "format": "email",
      "pattern": "^[^@\\s<>]+@[^@\\s<>]+\\.[^@\\s<>]+$",
      "maxLength": 254
    }
  }
}`

var fieldMessages = map[string]string{
	"company_name": "Company name must be between 2 and 160 characters",
	"contact_name": "Full name is required",
	"email":        "A valid email address is required",
}

var compiledSchema = mustSchema(intakeSchema)

func mustSchema(raw string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile intake schema: %v", err))
	}
	return s
}

// FieldError is one failed field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every failed field. It matches ErrValidation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return e.Fields[0].Message
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Validate checks the contact fields of a submission. The name and email may
// arrive under either of their aliases.
func Validate(answers audit.Response) error {
	doc := map[string]any{}
	if v := answers.CompanyName(); v != "" {
		doc["company_name"] = v
	}
	if v := answers.ContactName(); v != "" {
		doc["contact_name"] = v
	}
	if v := answers.ContactEmail(); v != "" {
		doc["email"] = v
	}

	res, err := compiledSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate submission: %w", err)
	}
	if res.Valid() {
		return nil
	}

	seen := map[string]bool{}
	var fields []FieldError
	for _, re := range res.Errors() {
		field := re.Field()
		if re.Type() == "required" {
			if p, ok := re.Details()["property"].(string); ok {
				field = p
			}
		}
		field = strings.TrimPrefix(field, "(root).")
		if seen[field] {
			continue
		}
		seen[field] = true
		msg, ok := fieldMessages[field]
		if !ok {
			msg = re.Description()
		}
		fields = append(fields, FieldError{Field: field, Message: msg})
	}
	sort.Slice(fields, func(i, j int) bool { return fieldOrder(fields[i].Field) < fieldOrder(fields[j].Field) })
	return &ValidationError{Fields: fields}
}

func fieldOrder(field string) int {
	switch field {
	case "company_name":
		return 0
	case "contact_name":
		return 1
	case "email":
		return 2
	}
	return 3
}
