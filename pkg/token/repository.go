package token

import (
	"fmt"
	"time"

	"github.com/go-redis/redis"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewRepository(client *redis.Client) *redisRepository {
	return &redisRepository{client: client}
}

type redisRepository struct {
	client *redis.Client
}

func refreshTokenKey(userId string, tokenId string) string {
	return fmt.Sprintf("refresh:%s:%s", userId, tokenId)
}

func (r redisRepository) SetRefreshToken(userId string, tokenId string, expiresIn time.Duration) error {
	key := refreshTokenKey(userId, tokenId)
	if err := r.client.Set(key, 0, expiresIn).Err(); err != nil {
		return fmt.Errorf("could not set refresh token to redis for userId/tokenId: %s/%s: %v", userId, tokenId, err)
	}
	return nil
}

// DeleteRefreshToken deletes a single refresh token. It fails if the token doesn't exist, which is
// the case if it has expired or was used before.
func (r redisRepository) DeleteRefreshToken(userId string, previousTokenId string) error {
	key := refreshTokenKey(userId, previousTokenId)
	deleted, err := r.client.Del(key).Result()
	if err != nil {
		return fmt.Errorf("could not delete refresh token to redis for userId/tokenId: %s/%s: %v", userId, previousTokenId, err)
	}

	if deleted < 1 {
		return fmt.Errorf("refresh token to redis for userId/tokenId: %s/%s does not exist", userId, previousTokenId)
	}

	return nil
}

func (r redisRepository) DeleteRefreshTokens(userId string) error {
	pattern := refreshTokenKey(userId, "*")
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("could not scan refresh tokens of user %s: %v", userId, err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(keys...).Err(); err != nil {
				return fmt.Errorf("could not delete refresh tokens of user %s: %v", userId, err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
