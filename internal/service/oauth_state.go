package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const oauthStatePrefix = "oauth:state:"

// OAuthStateStore issues one-shot CSRF state nonces for the OAuth redirect
// flow, backed by redis with a TTL.
type OAuthStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOAuthStateStore(rdb *redis.Client, ttl time.Duration) *OAuthStateStore {
	return &OAuthStateStore{rdb: rdb, ttl: ttl}
}

func (s *OAuthStateStore) Issue(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.rdb.Set(ctx, oauthStatePrefix+state, "1", s.ttl).Err(); err != nil {
		return "", err
	}
	return state, nil
}

// Consume verifies and burns a state nonce; a second consume of the same
// state fails.
func (s *OAuthStateStore) Consume(ctx context.Context, state string) bool {
	if state == "" {
		return false
	}
	n, err := s.rdb.Del(ctx, oauthStatePrefix+state).Result()
	return err == nil && n > 0
}
