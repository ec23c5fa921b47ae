// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "fmt"

// DocumentError reports a document that contributed no sections because
// its text could not be read.
type DocumentError struct {
	Document string
	Cause    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Document, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}
