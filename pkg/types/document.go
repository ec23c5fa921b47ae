// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"net/url"
	"path/filepath"
)

// Document identifies one input file handed to the pipeline.
type Document struct {
	// Name is the canonical document name: the base file name without extension.
	Name string `json:"name" yaml:"name"`

	// Path is the filesystem path or http(s) URL the text is read from.
	Path string `json:"path" yaml:"path" validate:"required"`

	// Title is an optional human-readable title from the input file.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// Filename returns the base file name including its extension. For a URL
// the query and fragment are dropped.
func (d Document) Filename() string {
	if u, err := url.Parse(d.Path); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return filepath.Base(u.Path)
	}
	return filepath.Base(d.Path)
}

// Page is one unit of extracted text. Numbers start at 1.
type Page struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
}
