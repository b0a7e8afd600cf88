// Copyright (c) 2026 Critika. All rights reserved.
// Author: dev@critika.app

package auth

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/critikahq/critika/internal/platform/apperr"
	"github.com/critikahq/critika/internal/platform/constants"
)

type redisCodeRepository struct {
	client *redis.Client
}

// NewRedisCodeRepository creates a redis-backed confirmation code store.
// Entries expire after [constants.ConfirmationCodeTTL].
func NewRedisCodeRepository(client *redis.Client) CodeRepository {
	return &redisCodeRepository{client: client}
}

func codeKey(userID string) string {
	return constants.RedisPrefixConfirmCode + userID
}

func (r *redisCodeRepository) Set(ctx context.Context, userID, hash string) error {
	if err := r.client.Set(ctx, codeKey(userID), hash, constants.ConfirmationCodeTTL).Err(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (r *redisCodeRepository) Get(ctx context.Context, userID string) (string, error) {
	hash, err := r.client.Get(ctx, codeKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeNotFound
		}
		return "", apperr.Internal(err)
	}
	return hash, nil
}

// Consume relies on DEL's removed-key count to decide the race between
// two exchanges presenting the same code: exactly one caller sees 1.
func (r *redisCodeRepository) Consume(ctx context.Context, userID string) (bool, error) {
	removed, err := r.client.Del(ctx, codeKey(userID)).Result()
	if err != nil {
		return false, apperr.Internal(err)
	}
	return removed > 0, nil
}
