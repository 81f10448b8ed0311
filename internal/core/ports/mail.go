package ports

import (
	"context"
	"time"
)

// Credential is a bearer token for the mail provider, acquired once per dispatcher pass.
type Credential struct {
	AccessToken string
	ExpiresAt   time.Time
}

// IsZero reports whether no token is present.
func (c Credential) IsZero() bool {
	return c.AccessToken == ""
}

// Message is a single HTML email to one recipient.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// MailClient sends email on behalf of the practice.
type MailClient interface {
	// AcquireCredential obtains a token valid for a batch of sends.
	AcquireCredential(ctx context.Context) (Credential, error)

	// Send delivers msg using cred. Delivery failures are returned as errors
	// and are retried by the caller.
	Send(ctx context.Context, cred Credential, msg Message) error
}
