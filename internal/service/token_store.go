package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// TokenStore is the whitelist of issued session tokens. A token that is not in
// the store is treated as revoked.
type TokenStore interface {
	Save(ctx context.Context, kind string, userID uuid.UUID, tokenID string, ttl time.Duration) error
	Exists(ctx context.Context, kind string, userID uuid.UUID, tokenID string) (bool, error)
	Delete(ctx context.Context, kind string, userID uuid.UUID, tokenID string) error
	DeleteAll(ctx context.Context, userID uuid.UUID) error
}

// Token kinds
const (
	TokenKindAccess  = "access_token"
	TokenKindRefresh = "refresh_token"
)

type redisTokenStore struct {
	redisClient *redis.Client
}

func NewTokenStore(redisClient *redis.Client) TokenStore {
	return &redisTokenStore{redisClient: redisClient}
}

func tokenKey(kind string, userID uuid.UUID, tokenID string) string {
	return fmt.Sprintf("%s:%s:%s", kind, userID.String(), tokenID)
}

func (s *redisTokenStore) Save(ctx context.Context, kind string, userID uuid.UUID, tokenID string, ttl time.Duration) error {
	return s.redisClient.Set(ctx, tokenKey(kind, userID, tokenID), "valid", ttl).Err()
}

func (s *redisTokenStore) Exists(ctx context.Context, kind string, userID uuid.UUID, tokenID string) (bool, error) {
	exists, err := s.redisClient.Exists(ctx, tokenKey(kind, userID, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *redisTokenStore) Delete(ctx context.Context, kind string, userID uuid.UUID, tokenID string) error {
	return s.redisClient.Del(ctx, tokenKey(kind, userID, tokenID)).Err()
}

// DeleteAll revokes every token of the user, e.g. after deactivation.
func (s *redisTokenStore) DeleteAll(ctx context.Context, userID uuid.UUID) error {
	for _, kind := range []string{TokenKindAccess, TokenKindRefresh} {
		pattern := fmt.Sprintf("%s:%s:*", kind, userID.String())
		iter := s.redisClient.Scan(ctx, 0, pattern, 100).Iterator()
		var keys []string
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}
