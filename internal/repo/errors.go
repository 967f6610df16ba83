package repo

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// missingError matches ErrNotFound and still unwraps to the driver's error.
type missingError struct {
	what  string
	cause error
}

func (e *missingError) Error() string        { return e.what + ": " + ErrNotFound.Error() }
func (e *missingError) Is(target error) bool { return target == ErrNotFound }
func (e *missingError) Unwrap() error        { return e.cause }

// notFound converts gorm's sentinel into ErrNotFound, wrapping anything else.
func notFound(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &missingError{what: what, cause: err}
	}
	return fmt.Errorf("%s: %w", what, err)
}
