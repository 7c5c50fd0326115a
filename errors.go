package fanfield

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// MissingSelectionError is returned when anchor, start or end location has not been selected.
// It is meant to be shown to the user as is
type MissingSelectionError struct {
	Missing []string
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("Please select anchor, start and end locations (missing: %s)", strings.Join(e.Missing, ", "))
}

// IsMissingSelection checks if error (possibly wrapped) is MissingSelectionError
func IsMissingSelection(err error) bool {
	_, ok := errors.Cause(err).(*MissingSelectionError)
	return ok
}

var (
	// ErrBatchOpen is returned when a batch is started twice
	ErrBatchOpen = errors.New("Batch is already open")
	// ErrNoBatch is returned when a batch is finished (or aborted) without being started
	ErrNoBatch = errors.New("There is no open batch")
	// ErrNotFound is returned when requested record does not exist
	ErrNotFound = errors.New("Not found")
)
