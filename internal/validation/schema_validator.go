// Package validation checks upstream payloads against the JSON schemas the
// gateways rely on, so a changed upstream format fails loudly instead of
// producing empty recommendations.
package validation

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Embedded schema names
const (
	SchemaCollectibleList = "collectible_list"
	SchemaCollection      = "collection"
	SchemaXIVAPICharacter = "xivapi_character"

	schemaFileSuffix     = ".schema.json"
	schemaResourcePrefix = "mem://schemas/"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// SchemaValidator validates JSON documents against named schemas
type SchemaValidator interface {
	ValidateBytes(data []byte, schema string) error
	Schemas() []string
}

type validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaValidator compiles every embedded schema. The result is read-only
// and safe for concurrent use.
func NewSchemaValidator() (SchemaValidator, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	v := &validator{schemas: make(map[string]*jsonschema.Schema, len(entries))}

	for _, entry := range entries {
		name := strings.TrimSuffix(entry.Name(), schemaFileSuffix)
		raw, err := schemaFS.ReadFile(path.Join("schemas", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema %s: %w", name, err)
		}

		url := schemaResourcePrefix + entry.Name()
		if err := compiler.AddResource(url, doc); err != nil {
			return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
		}
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		v.schemas[name] = schema
	}

	return v, nil
}

// ValidateBytes validates a JSON document against the named schema
func (v *validator) ValidateBytes(data []byte, schema string) error {
	compiled, ok := v.schemas[schema]
	if !ok {
		return fmt.Errorf("unknown schema: %s", schema)
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// Schemas lists the available schema names
func (v *validator) Schemas() []string {
	names := make([]string, 0, len(v.schemas))
	for name := range v.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatValidationError flattens a validation error tree into one line per failure
func formatValidationError(err error) error {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validation error: %w", err)
	}

	var failures []string
	collectErrors(validationErr, &failures)
	return fmt.Errorf("schema validation failed:\n%s", strings.Join(failures, "\n"))
}

func collectErrors(err *jsonschema.ValidationError, failures *[]string) {
	if len(err.Causes) == 0 {
		*failures = append(*failures, formatError(err))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, failures)
	}
}

func formatError(err *jsonschema.ValidationError) string {
	location := "/" + strings.Join(err.InstanceLocation, "/")
	if len(err.InstanceLocation) == 0 {
		location = "(root)"
	}

	if err.ErrorKind != nil {
		if keywords := err.ErrorKind.KeywordPath(); len(keywords) > 0 {
			return fmt.Sprintf("  - at %s: %s validation failed", location, strings.Join(keywords, "."))
		}
	}
	return fmt.Sprintf("  - at %s: validation failed", location)
}
