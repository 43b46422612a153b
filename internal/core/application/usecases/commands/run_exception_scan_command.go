package commands

import (
	"errors"

	"logistics/internal/pkg/guard"
)

// Triggers recorded with a scan.
const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// RunExceptionScanCommand runs one exception scan cycle over every active shipment.
//
// Example:
//
//	cmd, err := NewRunExceptionScanCommand(TriggerManual)
//	if err != nil {
//	    return err
//	}
//	stats, err := handler.Handle(ctx, cmd)
type RunExceptionScanCommand struct {
	trigger string

	guard guard.ConstructorGuard
}

var (
	ErrRunExceptionScanCommandIsNotConstructed = errors.New(
		"RunExceptionScanCommand must be created via NewRunExceptionScanCommand constructor",
	)
	ErrUnknownTrigger = errors.New("trigger must be scheduled or manual")
)

// NewRunExceptionScanCommand creates a scan command. trigger tells scheduled
// cycles apart from ones requested through the ops API.
func NewRunExceptionScanCommand(trigger string) (RunExceptionScanCommand, error) {
	if trigger != TriggerScheduled && trigger != TriggerManual {
		return RunExceptionScanCommand{}, ErrUnknownTrigger
	}
	return RunExceptionScanCommand{
		trigger: trigger,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Trigger returns what requested the scan.
func (c RunExceptionScanCommand) Trigger() string {
	return c.trigger
}

// Validate ensures the command was created through the constructor.
func (c RunExceptionScanCommand) Validate() error {
	return c.guard.Validate(ErrRunExceptionScanCommandIsNotConstructed)
}
