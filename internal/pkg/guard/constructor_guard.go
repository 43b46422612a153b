// Package guard provides ConstructorGuard, a marker that tells a value built by
// its constructor apart from a zero value.
//
// Commands and queries embed a guard so handlers can reject values that were
// never validated:
//
//	type RunExceptionScanCommand struct {
//	    guard guard.ConstructorGuard
//	}
//
//	func (c RunExceptionScanCommand) Validate() error {
//	    return c.guard.Validate(ErrRunExceptionScanCommandIsNotConstructed)
//	}
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is given.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is set only by NewConstructorGuard; its zero value fails validation.
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
