package writers

import (
	"errors"
	"os"

	"asmkit/internal/fault"
)

// CreateExclusive creates path for writing, failing with an output-collision
// error if it already exists. The existing file is left untouched.
func CreateExclusive(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, fault.Exists(path)
		}
		return nil, err
	}
	return f, nil
}
