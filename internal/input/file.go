// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package input

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/pdiddy/persona-engine/internal/source"
	"github.com/pdiddy/persona-engine/pkg/types"
)

// fileInput mirrors the input file. Persona and job may be plain strings or
// objects with "role" and "task"; documents may be file names or objects
// with "filename" and an optional "title".
type fileInput struct {
	Documents []json.RawMessage `json:"documents"`
	Persona   json.RawMessage   `json:"persona"`
	Job       json.RawMessage   `json:"job_to_be_done"`
}

type fileDocument struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

// LoadFile reads an input file. Relative document file names are resolved
// against docsDir when it is not empty. When the file lists no documents,
// discovered is used instead.
func LoadFile(path, docsDir string, discovered ...types.Document) (*types.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "reading file", Cause: err}
	}

	var raw fileInput
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Path: path, Message: "parsing JSON", Cause: err}
	}

	in := &types.Input{}

	for i, d := range raw.Documents {
		doc, err := decodeDocument(d, docsDir)
		if err != nil {
			return nil, &LoadError{Path: path, Message: fmt.Sprintf("document %d", i), Cause: err}
		}
		in.Documents = append(in.Documents, doc)
	}
	if len(in.Documents) == 0 {
		in.Documents = discovered
	}

	if in.Persona, err = textValue(raw.Persona, personaSchema, roleField); err != nil {
		return nil, &LoadError{Path: path, Message: "persona", Cause: err}
	}
	if in.Job, err = textValue(raw.Job, taskSchema, taskField); err != nil {
		return nil, &LoadError{Path: path, Message: "job_to_be_done", Cause: err}
	}

	if err := in.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: "incomplete input", Cause: err}
	}
	return in, nil
}

// textValue accepts a JSON string, normalized like a flag value, or a JSON
// object that must satisfy the schema.
func textValue(raw json.RawMessage, schema *gojsonschema.Schema, field string) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(normalize(s, schema, field)), nil
	}
	return parseField(string(raw), schema, field)
}

func decodeDocument(raw json.RawMessage, docsDir string) (types.Document, error) {
	var fd fileDocument
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		fd.Filename = name
	} else if err := json.Unmarshal(raw, &fd); err != nil {
		return types.Document{}, err
	}

	path := fd.Filename
	if docsDir != "" && path != "" && !filepath.IsAbs(path) && !source.IsURL(path) {
		path = filepath.Join(docsDir, path)
	}
	return types.Document{
		Name:  DocumentName(path),
		Path:  path,
		Title: fd.Title,
	}, nil
}

// DocumentName is the canonical document name: the base name without
// extension. For a URL the base name of its path is used.
func DocumentName(path string) string {
	if source.IsURL(path) {
		if u, err := url.Parse(path); err == nil {
			path = u.Path
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Documents builds Document values from file paths given on the command line.
func Documents(paths []string) []types.Document {
	docs := make([]types.Document, len(paths))
	for i, p := range paths {
		docs[i] = types.Document{Name: DocumentName(p), Path: p}
	}
	return docs
}
