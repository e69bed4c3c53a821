package notifications

import "context"

// SendWelcomeInput carries everything the provider needs to greet a newly
// created user.
type SendWelcomeInput struct {
	UserID string
	Email  string
	Name   string
}

// Notifier is the delivery seam. The log notifier is the only provider in
// scope; a mail provider would implement the same interface.
type Notifier interface {
	SendWelcome(ctx context.Context, input SendWelcomeInput) error
}
