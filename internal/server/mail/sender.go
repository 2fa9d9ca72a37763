// Package mail delivers outbound storefront email.
package mail

import "context"

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
