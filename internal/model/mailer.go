package model

import "context"

// Mailer delivers a single message to a recipient. Delivery failures are the
// caller's concern to log; they never roll back the mutation that triggered
// the mail.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, body string) error
}
