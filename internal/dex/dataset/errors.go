package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrGameNotFound is returned when a game directory has no species data.
	ErrGameNotFound = errors.New("game not found")

	// ErrSpeciesNotFound is returned when a species key is not in the dataset.
	ErrSpeciesNotFound = errors.New("species not found")
)

// ParseError reports a data file that could not be interpreted.
type ParseError struct {
	File   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.File, e.Reason)
}

// LoadError wraps a failure to load one of a game's data files.
type LoadError struct {
	Game string
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s/%s: %v", e.Game, e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
