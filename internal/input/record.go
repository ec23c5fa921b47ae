// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package input turns persona and job values from flags or input files into
// plain text. Values shaped like a record ({"task": "..."}) are decoded with
// a strict parser and checked against an embedded JSON Schema; anything that
// fails is used verbatim. Input is never evaluated.
package input

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.yaml.in/yaml/v3"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	taskField = "task"
	roleField = "role"
)

var (
	taskSchema    = mustSchema("schemas/task.schema.json")
	personaSchema = mustSchema("schemas/persona.schema.json")
)

func mustSchema(name string) *gojsonschema.Schema {
	data, err := schemaFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("reading embedded schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("compiling embedded schema %s: %v", name, err))
	}
	return schema
}

// NormalizeTask returns the task text of a job value. A value such as
// {"task": "Plan a trip"} or {'task': 'Plan a trip'} yields "Plan a trip";
// anything else is returned unchanged.
func NormalizeTask(raw string) string {
	return normalize(raw, taskSchema, taskField)
}

// NormalizePersona returns the role text of a persona value such as
// {"role": "Travel Planner"}; anything else is returned unchanged.
func NormalizePersona(raw string) string {
	return normalize(raw, personaSchema, roleField)
}

// ParseTask decodes a record-shaped job value and returns its task.
func ParseTask(raw string) (string, error) {
	return parseField(raw, taskSchema, taskField)
}

// ParsePersona decodes a record-shaped persona value and returns its role.
func ParsePersona(raw string) (string, error) {
	return parseField(raw, personaSchema, roleField)
}

func normalize(raw string, schema *gojsonschema.Schema, field string) string {
	if !looksLikeRecord(raw) {
		return raw
	}
	value, err := parseField(raw, schema, field)
	if err != nil {
		slog.Debug("using value verbatim", "field", field, "error", err)
		return raw
	}
	return value
}

// looksLikeRecord reports whether s is wrapped in braces.
func looksLikeRecord(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}

func parseField(raw string, schema *gojsonschema.Schema, field string) (string, error) {
	record, err := decodeRecord(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if err := validateRecord(schema, record, field); err != nil {
		return "", err
	}
	value, _ := record[field].(string)
	return strings.TrimSpace(value), nil
}

// decodeRecord tries JSON first, then a YAML flow mapping, which also
// accepts single-quoted keys and values.
func decodeRecord(s string) (map[string]any, error) {
	var record map[string]any
	jsonErr := json.Unmarshal([]byte(s), &record)
	if jsonErr == nil && record != nil {
		return record, nil
	}
	record = nil
	if err := yaml.Unmarshal([]byte(s), &record); err != nil || record == nil {
		if err == nil {
			err = jsonErr
		}
		return nil, &DecodeError{Input: s, Cause: err}
	}
	return record, nil
}

func validateRecord(schema *gojsonschema.Schema, record map[string]any, field string) error {
	result, err := schema.Validate(gojsonschema.NewGoLoader(record))
	if err != nil {
		return fmt.Errorf("validating record: %w", err)
	}
	if result.Valid() {
		return nil
	}
	se := &SchemaError{Field: field}
	for _, re := range result.Errors() {
		se.Errors = append(se.Errors, FieldError{Field: re.Field(), Message: re.Description()})
	}
	return se
}
