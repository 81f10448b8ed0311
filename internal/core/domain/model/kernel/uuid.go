package kernel

import (
	"fmt"

	"careplan/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when a zero UUID is used as an identifier.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID, UUIDFromString, or UUIDFromBytes")

// UUID identifies patients, submissions and scheduled jobs.
type UUID struct {
	id uuid.UUID
}

// NewUUID returns a random (v4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the canonical textual form. The nil UUID is rejected.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("invalid UUID format: %w", err))
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// UUIDFromBytes rebuilds an identifier loaded from storage.
func UUIDFromBytes(b []byte) (UUID, error) {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	newID := UUID{id: id}
	if err = newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

func (u UUID) String() string {
	return u.id.String()
}

// Bytes exposes the underlying uuid.UUID for persistence adapters.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

func (u UUID) IsZero() bool {
	return u.id == uuid.Nil
}

// Validate rejects the zero value.
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
