// Package registry builds the active checker set from provider
// configuration.
package registry

import (
	"github.com/acme/call-screening/internal/config"
	"github.com/acme/call-screening/internal/reputation"
	"github.com/acme/call-screening/internal/reputation/httpcheck"
	"github.com/acme/call-screening/internal/reputation/mock"
)

// Registry turns provider configuration into concrete checkers. An entry
// with an endpoint becomes an HTTP lookup; an entry named "mock" becomes the
// simulated provider used in development.
type Registry struct {
	cfg config.ProvidersConfig
}

// New builds a registry over the given provider configuration.
func New(cfg config.ProvidersConfig) *Registry {
	return &Registry{cfg: cfg}
}

// ActiveSet returns checkers for every enabled provider. The set is rebuilt
// on each call so configuration changes take effect per evaluation.
func (r *Registry) ActiveSet() []reputation.Checker {
	checkers := make([]reputation.Checker, 0, len(r.cfg.Entries))
	for _, entry := range r.cfg.Entries {
		if !entry.Enabled {
			continue
		}
		hint := entry.CountryHint
		if hint <= 0 {
			hint = config.DefaultCountryHint
		}
		switch {
		case entry.Endpoint != "":
			checkers = append(checkers, httpcheck.New(entry.Name, entry.Endpoint, hint, r.cfg.LookupTimeout))
		case entry.Name == "mock":
			checkers = append(checkers, mock.New(entry.Name, nil))
		}
	}
	return checkers
}
