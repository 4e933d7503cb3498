package script

import (
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "tada://intents.schema.json"

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["intents"],
  "additionalProperties": false,
  "properties": {
    "intents": {
      "type": "array",
      "items": {"$ref": "#/$defs/intent"}
    }
  },
  "$defs": {
    "intent": {
      "type": "object",
      "required": ["op"],
      "additionalProperties": false,
      "properties": {
        "op": {"enum": ["add", "toggle", "rename", "remove", "edit", "type", "commit", "cancel"]},
        "title": {"type": "string"},
        "id": {"type": "integer", "minimum": 1},
        "index": {"type": "integer", "minimum": 1},
        "confirm": {"type": "boolean"}
      },
      "allOf": [
        {
          "if": {"properties": {"op": {"enum": ["add", "rename", "type"]}}},
          "then": {"required": ["title"]}
        },
        {
          "if": {"properties": {"op": {"const": "add"}}},
          "then": {"properties": {"title": {"minLength": 1}}}
        },
        {
          "if": {"properties": {"op": {"not": {"const": "add"}}}},
          "then": {
            "oneOf": [{"required": ["id"]}, {"required": ["index"]}]
          }
        }
      ]
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(schemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// ValidationError reports the first schema violation in a script.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func toValidationError(err error) error {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return &ValidationError{Message: err.Error()}
	}
	if leaf := firstLeaf(ve); leaf != nil {
		return &ValidationError{Path: pointerToPath(leaf.InstanceLocation), Message: leaf.Message}
	}
	return &ValidationError{Message: ve.Message}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	if ve == nil {
		return nil
	}
	if len(ve.Causes) == 0 {
		return ve
	}
	for _, c := range ve.Causes {
		if leaf := firstLeaf(c); leaf != nil {
			return leaf
		}
	}
	return nil
}

// pointerToPath turns "/intents/2/op" into "intents[2].op".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
