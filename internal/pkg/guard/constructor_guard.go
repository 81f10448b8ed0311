// Package guard provides ConstructorGuard, a marker that lets commands, queries
// and domain objects detect whether they were built through their constructor
// or used as a zero value.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in types that must only be created through a
// constructor. The zero value reports itself as not constructed.
//
// Example:
//
//	var ErrSubmitGoalsCommandIsNotConstructed = errors.New("SubmitGoalsCommand must be created via NewSubmitGoalsCommand")
//
//	type SubmitGoalsCommand struct {
//	    patientID kernel.UUID
//	    guard     guard.ConstructorGuard
//	}
//
//	func (c SubmitGoalsCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitGoalsCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the guard is a zero value, and nil otherwise.
func (g ConstructorGuard) Validate(validationError error) error {
	if g.isConstructed {
		return nil
	}
	if validationError == nil {
		return ErrDefaultConstructorGuard
	}
	return validationError
}
