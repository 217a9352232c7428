// Package redisstore implements the number lists on Redis sets.
package redisstore

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const (
	whitelistKey = "screen:whitelist"
	blocklistKey = "screen:blocklist"
	patternsKey  = "screen:patterns"
)

// NumberListStore persists the whitelist, blocklist and block patterns as
// Redis sets. Writes are single-member adds/removes, last-writer-wins.
type NumberListStore struct {
	client *redis.Client
}

// NewNumberListStore builds the store.
func NewNumberListStore(client *redis.Client) *NumberListStore {
	return &NumberListStore{client: client}
}

// IsWhitelisted tests whitelist membership.
func (s *NumberListStore) IsWhitelisted(ctx context.Context, number string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, whitelistKey, number).Result()
	if err != nil {
		return false, fmt.Errorf("number lists: whitelist member: %w", err)
	}
	return ok, nil
}

// AddWhitelisted adds a number to the whitelist.
func (s *NumberListStore) AddWhitelisted(ctx context.Context, number string) error {
	if err := s.client.SAdd(ctx, whitelistKey, number).Err(); err != nil {
		return fmt.Errorf("number lists: whitelist add: %w", err)
	}
	return nil
}

// RemoveWhitelisted removes a number from the whitelist.
func (s *NumberListStore) RemoveWhitelisted(ctx context.Context, number string) error {
	if err := s.client.SRem(ctx, whitelistKey, number).Err(); err != nil {
		return fmt.Errorf("number lists: whitelist remove: %w", err)
	}
	return nil
}

// Whitelist returns all whitelisted numbers.
func (s *NumberListStore) Whitelist(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, whitelistKey).Result()
	if err != nil {
		return nil, fmt.Errorf("number lists: whitelist members: %w", err)
	}
	return members, nil
}

// IsBlocked tests blocklist membership.
func (s *NumberListStore) IsBlocked(ctx context.Context, number string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, blocklistKey, number).Result()
	if err != nil {
		return false, fmt.Errorf("number lists: blocklist member: %w", err)
	}
	return ok, nil
}

// AddBlocked adds a number to the blocklist.
func (s *NumberListStore) AddBlocked(ctx context.Context, number string) error {
	if err := s.client.SAdd(ctx, blocklistKey, number).Err(); err != nil {
		return fmt.Errorf("number lists: blocklist add: %w", err)
	}
	return nil
}

// RemoveBlocked removes a number from the blocklist.
func (s *NumberListStore) RemoveBlocked(ctx context.Context, number string) error {
	if err := s.client.SRem(ctx, blocklistKey, number).Err(); err != nil {
		return fmt.Errorf("number lists: blocklist remove: %w", err)
	}
	return nil
}

// Blocklist returns all blocked numbers.
func (s *NumberListStore) Blocklist(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, blocklistKey).Result()
	if err != nil {
		return nil, fmt.Errorf("number lists: blocklist members: %w", err)
	}
	return members, nil
}

// Patterns returns the stored block patterns.
func (s *NumberListStore) Patterns(ctx context.Context) ([]string, error) {
	members, err := s.client.SMembers(ctx, patternsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("number lists: patterns: %w", err)
	}
	return members, nil
}

// AddPattern stores a block pattern.
func (s *NumberListStore) AddPattern(ctx context.Context, pattern string) error {
	if err := s.client.SAdd(ctx, patternsKey, pattern).Err(); err != nil {
		return fmt.Errorf("number lists: pattern add: %w", err)
	}
	return nil
}

// RemovePattern deletes a block pattern.
func (s *NumberListStore) RemovePattern(ctx context.Context, pattern string) error {
	if err := s.client.SRem(ctx, patternsKey, pattern).Err(); err != nil {
		return fmt.Errorf("number lists: pattern remove: %w", err)
	}
	return nil
}
