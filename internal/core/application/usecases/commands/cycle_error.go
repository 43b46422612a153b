package commands

import (
	"fmt"

	"logistics/internal/core/domain/model/run"
)

// CycleError reports a scan cycle that could not finish. Stats holds what was
// measured before the failure, with its Error field set.
type CycleError struct {
	Stats run.Stats
	Err   error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("exception scan cycle failed: %v", e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}
