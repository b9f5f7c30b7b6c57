package pipeline

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/RyanBlaney/mapdata/beatmap"
	"github.com/RyanBlaney/mapdata/features"
	"github.com/RyanBlaney/mapdata/notes"
	"github.com/RyanBlaney/mapdata/timing"
)

// Error kinds reported by Classify
const (
	KindMissingDependency = "missing_dependency"
	KindIO                = "io"
	KindConversion        = "conversion"
	KindMalformedTiming   = "malformed_timing"
	KindNumeric           = "numeric"
	KindNoObjects         = "no_objects"
	KindUnknown           = "unknown"
)

// MissingDependencyError reports an external tool that could not be started
type MissingDependencyError struct {
	Name string
	Err  error
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency %s: %v", e.Name, e.Err)
}

func (e *MissingDependencyError) Unwrap() error {
	return e.Err
}

// IOError reports a file that could not be read or written
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// asIOError wraps err in an IOError when it stems from the filesystem
func asIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return &IOError{Op: op, Path: path, Err: err}
	}
	return err
}

// Classify names the kind of err for logs and run summaries
func Classify(err error) string {
	var (
		missing   *MissingDependencyError
		conv      *beatmap.ConversionError
		ioErr     *IOError
		malformed *timing.MalformedError
		numeric   *features.NumericError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &missing):
		return KindMissingDependency
	case errors.As(err, &conv):
		return KindConversion
	case errors.As(err, &ioErr):
		return KindIO
	case errors.As(err, &malformed):
		return KindMalformedTiming
	case errors.As(err, &numeric):
		return KindNumeric
	case errors.Is(err, notes.ErrNoObjects):
		return KindNoObjects
	}
	return KindUnknown
}
