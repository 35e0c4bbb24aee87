package config

import (
	"errors"
	"fmt"

	"github.com/dshills/kakmotion/internal/config/loader"
)

// Errors returned by configuration operations.
var (
	// ErrUnitName indicates a unit definition without a name.
	ErrUnitName = errors.New("unit name is required")

	// ErrClosed indicates the configuration has been closed.
	ErrClosed = errors.New("configuration closed")
)

// ParseError represents an error while parsing a configuration file.
type ParseError = loader.ParseError

// FileError wraps a failure to load one configuration file.
type FileError struct {
	// Layer is the configuration layer the file feeds.
	Layer string
	// Path is the file path.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FileError) Error() string {
	return fmt.Sprintf("loading %s config %s: %v", e.Layer, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FileError) Unwrap() error {
	return e.Err
}
