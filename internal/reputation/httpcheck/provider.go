// Package httpcheck implements a reputation checker backed by a generic HTTP
// lookup endpoint. The endpoint receives the number and a numeric country
// hint and answers with a JSON spam flag.
package httpcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Provider queries a single HTTP reputation endpoint.
type Provider struct {
	name        string
	endpoint    string
	countryHint int
	client      *http.Client
}

type lookupResponse struct {
	Spam bool `json:"spam"`
}

// New constructs a provider. The country hint is bound at construction so
// the checker contract stays a pure number lookup.
func New(name, endpoint string, countryHint int, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 4 * time.Second
	}
	return &Provider{
		name:        name,
		endpoint:    endpoint,
		countryHint: countryHint,
		client:      &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider.
func (p *Provider) Name() string {
	return p.name
}

// Check performs the lookup. Any transport or decoding failure is returned
// as an error and treated as "not spam" upstream.
func (p *Provider) Check(ctx context.Context, number string) (bool, error) {
	q := url.Values{}
	q.Set("number", number)
	q.Set("country", strconv.Itoa(p.countryHint))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("httpcheck %s: build request: %w", p.name, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("httpcheck %s: request: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("httpcheck %s: unexpected status %d", p.name, resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("httpcheck %s: decode response: %w", p.name, err)
	}

	return body.Spam, nil
}
