package mates

import (
	"errors"
	"fmt"
	"strings"
)

// Engine errors.
var (
	// ErrNoDocumentsLoaded is returned when none of the three views could be loaded.
	ErrNoDocumentsLoaded = errors.New("no mate documents loaded")

	// ErrEmptyRenameMap is returned when a rename is requested with no entries.
	ErrEmptyRenameMap = errors.New("no rename mapping provided")

	// ErrPartialApply is returned when a rename failed midway; in-memory
	// changes to earlier views have been rolled back.
	ErrPartialApply = errors.New("rename could not be applied to all views")

	// ErrUnexpectedShape is returned when a document container has a type
	// the extraction rules cannot walk.
	ErrUnexpectedShape = errors.New("unexpected document shape")
)

// UnknownIdentifierError reports rename keys that are absent from the
// observed name universe. Nothing is mutated when this is returned.
type UnknownIdentifierError struct {
	Names []string
}

func (e *UnknownIdentifierError) Error() string {
	return fmt.Sprintf("mate names not found: [%s]", strings.Join(e.Names, ", "))
}

// IsUnknownIdentifier reports whether err is an UnknownIdentifierError.
func IsUnknownIdentifier(err error) bool {
	var uie *UnknownIdentifierError
	return errors.As(err, &uie)
}
