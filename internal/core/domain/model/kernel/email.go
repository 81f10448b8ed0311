package kernel

import (
	"net/mail"
	"strings"

	"careplan/internal/pkg/errs"
)

// Email is an optional patient contact address. The zero value means "no email on file".
type Email struct {
	address string
}

// NewEmail validates and normalises an address. An empty string yields the zero Email.
func NewEmail(raw string) (Email, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Email{}, nil
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	return Email{address: strings.ToLower(addr.Address)}, nil
}

func (e Email) String() string {
	return e.address
}

func (e Email) IsEmpty() bool {
	return e.address == ""
}
