// Package rules manages the user-configured lists the cascade consults:
// whitelist, blocklist and block patterns.
package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"

	"github.com/acme/call-screening/internal/domain"
	"github.com/acme/call-screening/internal/repository"
	apperrors "github.com/acme/call-screening/pkg/errors"
)

// Service validates and normalizes list entries before they reach storage.
type Service struct {
	lists       repository.NumberListStore
	homeCountry string
}

// NewService builds the rules service. homeCountry is the default region
// for parsing numbers entered without a country prefix.
func NewService(lists repository.NumberListStore, homeCountry string) *Service {
	return &Service{lists: lists, homeCountry: homeCountry}
}

// AddWhitelisted stores a number on the whitelist.
func (s *Service) AddWhitelisted(ctx context.Context, number string) error {
	norm, err := s.canonical(number)
	if err != nil {
		return err
	}
	return s.lists.AddWhitelisted(ctx, norm)
}

// RemoveWhitelisted removes a number from the whitelist.
func (s *Service) RemoveWhitelisted(ctx context.Context, number string) error {
	norm, err := s.canonical(number)
	if err != nil {
		return err
	}
	return s.lists.RemoveWhitelisted(ctx, norm)
}

// Whitelist returns all whitelisted numbers.
func (s *Service) Whitelist(ctx context.Context) ([]string, error) {
	return s.lists.Whitelist(ctx)
}

// AddBlocked stores a number on the blocklist.
func (s *Service) AddBlocked(ctx context.Context, number string) error {
	norm, err := s.canonical(number)
	if err != nil {
		return err
	}
	return s.lists.AddBlocked(ctx, norm)
}

// RemoveBlocked removes a number from the blocklist.
func (s *Service) RemoveBlocked(ctx context.Context, number string) error {
	norm, err := s.canonical(number)
	if err != nil {
		return err
	}
	return s.lists.RemoveBlocked(ctx, norm)
}

// Blocklist returns all blocked numbers.
func (s *Service) Blocklist(ctx context.Context) ([]string, error) {
	return s.lists.Blocklist(ctx)
}

// AddPattern stores a block pattern after validation.
func (s *Service) AddPattern(ctx context.Context, p string) error {
	if err := validatePattern(p); err != nil {
		return err
	}
	return s.lists.AddPattern(ctx, p)
}

// RemovePattern deletes a block pattern.
func (s *Service) RemovePattern(ctx context.Context, p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty pattern", apperrors.ErrValidation)
	}
	return s.lists.RemovePattern(ctx, p)
}

// Patterns returns the stored block patterns.
func (s *Service) Patterns(ctx context.Context) ([]string, error) {
	return s.lists.Patterns(ctx)
}

// canonical reduces an entered number to the stored form: E.164 digits when
// the number parses for the home region, plain digit-stripping otherwise.
func (s *Service) canonical(number string) (string, error) {
	if parsed, err := phonenumbers.Parse(number, s.homeCountry); err == nil && phonenumbers.IsValidNumber(parsed) {
		return domain.Normalize(phonenumbers.Format(parsed, phonenumbers.E164)), nil
	}

	norm := domain.Normalize(number)
	if norm == "" {
		return "", fmt.Errorf("%w: number contains no digits", apperrors.ErrValidation)
	}
	return norm, nil
}

func validatePattern(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty pattern", apperrors.ErrValidation)
	}
	for _, r := range p {
		if r == '*' || r == '+' || (r >= '0' && r <= '9') {
			continue
		}
		return fmt.Errorf("%w: pattern may only contain digits, '+' and '*'", apperrors.ErrValidation)
	}
	if strings.Trim(p, "*") == "" && p != "*" {
		return fmt.Errorf("%w: redundant wildcard-only pattern, use '*'", apperrors.ErrValidation)
	}
	return nil
}
