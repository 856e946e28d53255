// Package fault classifies the fatal errors of a run: inputs that do not
// exist and outputs that would be overwritten. Per-item failures never
// become errors; they are recorded as degraded rows by the adapters.
package fault

import (
	"errors"
	"fmt"
	"os"
)

var (
	ErrInputMissing = errors.New("input does not exist")
	ErrOutputExists = errors.New("output already exists")
)

// PathError ties a classified error to the path it concerns.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	switch {
	case errors.Is(e.Err, ErrInputMissing):
		return fmt.Sprintf("the path %s does not exist", e.Path)
	case errors.Is(e.Err, ErrOutputExists):
		return fmt.Sprintf("the file %s already exists", e.Path)
	default:
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
}

func (e *PathError) Unwrap() error { return e.Err }

// Missing returns an ErrInputMissing error for path.
func Missing(path string) error { return &PathError{Path: path, Err: ErrInputMissing} }

// Exists returns an ErrOutputExists error for path.
func Exists(path string) error { return &PathError{Path: path, Err: ErrOutputExists} }

// RequireInput fails with ErrInputMissing unless path exists.
func RequireInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Missing(path)
		}
		return err
	}
	return nil
}

// RequireAbsent fails with ErrOutputExists if path exists.
func RequireAbsent(path string) error {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return Exists(path)
	case errors.Is(err, os.ErrNotExist):
		return nil
	default:
		return err
	}
}

// Fatal reports whether err belongs to the fatal taxonomy.
func Fatal(err error) bool {
	return errors.Is(err, ErrInputMissing) || errors.Is(err, ErrOutputExists)
}
