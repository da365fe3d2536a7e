// Package guard marks values that must come out of a constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in commands, queries and value objects whose zero value is meaningless.
// Only NewConstructorGuard produces a guard that passes Validate.
//
// Example:
//
//	type ApplyTransitionCommand struct {
//	    artifactID kernel.UUID
//	    guard      guard.ConstructorGuard
//	}
//
//	func (c ApplyTransitionCommand) Validate() error {
//	    return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for constructed guards and validationError (or
// ErrDefaultConstructorGuard when validationError is nil) for zero values.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
