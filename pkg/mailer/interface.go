// Package mailer defines the abstraction used to hand a composed email to a
// transactional email provider.
package mailer

import "context"

// Email is a provider-neutral outbound message.
type Email struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Text    string
}

// SendRes describes an accepted message.
type SendRes struct {
	ID string // ID is the provider's message identifier, if it returned one.
}

// Sender delivers composed emails. Implementations make exactly one attempt
// per call; retries are the caller's business.
//
//go:generate mockgen -package mockmailer -source=interface.go -destination=mock/mockmailer.go *
type Sender interface {
	Send(ctx context.Context, email Email) (SendRes, error)
}
