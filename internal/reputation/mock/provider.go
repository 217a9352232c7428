// Package mock simulates a reputation provider for development and tests.
package mock

import (
	"context"
	"math/rand"
	"time"

	"github.com/acme/call-screening/internal/domain"
)

// Provider flags a fixed set of numbers as spam after a simulated lookup
// latency.
type Provider struct {
	name string
	spam map[string]bool
}

// defaultSpamNumbers seeds the provider when no list is supplied, so a
// development deployment has known-bad numbers to exercise the race with.
var defaultSpamNumbers = []string{
	"+33899000001",
	"+33899000002",
	"+18005550199",
}

// New constructs a mock provider. Listed numbers are normalized before being
// stored so lookups match regardless of formatting.
func New(name string, spamNumbers []string) *Provider {
	if spamNumbers == nil {
		spamNumbers = defaultSpamNumbers
	}
	spam := make(map[string]bool, len(spamNumbers))
	for _, n := range spamNumbers {
		spam[domain.Normalize(n)] = true
	}
	return &Provider{name: name, spam: spam}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return p.name
}

// Check simulates a lookup with 10-60ms latency, honouring cancellation.
func (p *Provider) Check(ctx context.Context, number string) (bool, error) {
	latency := time.Duration(10+rand.Intn(50)) * time.Millisecond

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-time.After(latency):
	}

	return p.spam[domain.Normalize(number)], nil
}
