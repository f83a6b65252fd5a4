// Package notify delivers notifications to people.
package notify

import (
	"context"
	"errors"
)

var ErrNoRecipients = errors.New("no recipients")

// Gateway sends a message to a list of recipients.
type Gateway interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}
