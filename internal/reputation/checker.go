// Package reputation defines the capability contract for external spam
// reputation providers. Each provider answers a single question: is this
// number known as spam. Providers are configured with their locale hint at
// construction time so the race only deals with numbers.
package reputation

import "context"

// Checker is a single external reputation capability. Implementations must
// respect the context deadline and return promptly on cancellation.
type Checker interface {
	// Name identifies the provider, e.g. for logs.
	Name() string

	// Check reports whether the number is known as spam. A returned error
	// counts as "not spam" for the caller.
	Check(ctx context.Context, number string) (bool, error)
}
