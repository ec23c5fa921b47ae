// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "github.com/go-playground/validator/v10"

// Input is a run request read from an input file or assembled from flags.
type Input struct {
	Documents []Document `json:"documents" yaml:"documents" validate:"required,min=1,dive"`
	Persona   string     `json:"persona" yaml:"persona" validate:"required"`
	Job       string     `json:"job_to_be_done" yaml:"job_to_be_done" validate:"required"`
}

// Metadata describes the request a Result was produced for.
type Metadata struct {
	Documents []Document  `json:"documents" yaml:"documents"`
	Persona   string      `json:"persona" yaml:"persona"`
	Job       string      `json:"job_to_be_done" yaml:"job_to_be_done"`
	Profile   PersonaType `json:"persona_type" yaml:"persona_type"`
	Keywords  []string    `json:"job_keywords" yaml:"job_keywords"`
}

// Result is what the relevance engine hands to result sinks. Sections and
// Subsections are ordered by final rank.
type Result struct {
	Metadata    Metadata            `json:"metadata" yaml:"metadata"`
	Sections    []RankedSection     `json:"sections" yaml:"sections"`
	Subsections []RefinedSubsection `json:"subsections" yaml:"subsections"`
}

// Validate checks that the input names at least one document, a persona and a job.
func (in *Input) Validate() error {
	validate := validator.New()
	return validate.Struct(in)
}
