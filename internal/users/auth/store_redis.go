// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/quillpost/internal/platform/apperr"
	"github.com/taibuivan/quillpost/internal/platform/constants"
)

// # Session Repository

// RedisSessionRepository implements [SessionRepository] using Redis.
//
// Layout:
//   - auth:session:<hash>          -> account id (string, TTL)
//   - auth:account_sessions:<id>   -> set of session hashes (TTL refreshed on login)
type RedisSessionRepository struct {
	client redis.UniversalClient
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client redis.UniversalClient) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func sessionKey(sessionHash string) string {
	return fmt.Sprintf("%s%s", constants.RedisPrefixSession, sessionHash)
}

func accountSessionsKey(accountID string) string {
	return fmt.Sprintf("%s%s", constants.RedisPrefixAccountSessions, accountID)
}

/*
Create stores the session record and adds it to the account index atomically.

Parameters:
  - context: context.Context
  - sessionHash: string
  - accountID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisSessionRepository) Create(context context.Context, sessionHash, accountID string, ttl time.Duration) error {
	_, err := repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(sessionHash), accountID, ttl)
		pipe.SAdd(context, accountSessionsKey(accountID), sessionHash)
		pipe.Expire(context, accountSessionsKey(accountID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}
	return nil
}

/*
AccountID resolves a session hash to its account.

Returns:
  - string: Account ID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionRepository) AccountID(context context.Context, sessionHash string) (string, error) {
	accountID, err := repository.client.Get(context, sessionKey(sessionHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Session not found")
		}
		return "", fmt.Errorf("redis_session_get_failed: %w", err)
	}
	return accountID, nil
}

/*
Delete removes a session record and its index entry.
*/
func (repository *RedisSessionRepository) Delete(context context.Context, sessionHash string) error {
	accountID, err := repository.AccountID(context, sessionHash)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	_, err = repository.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(sessionHash))
		pipe.SRem(context, accountSessionsKey(accountID), sessionHash)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}

/*
DeleteAll revokes every session of an account.

Returns:
  - int: Number of live sessions removed
  - error: Execution errors
*/
func (repository *RedisSessionRepository) DeleteAll(context context.Context, accountID string) (int, error) {
	indexKey := accountSessionsKey(accountID)

	hashes, err := repository.client.SMembers(context, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_session_list_failed: %w", err)
	}

	keys := make([]string, 0, len(hashes)+1)
	for _, hash := range hashes {
		keys = append(keys, sessionKey(hash))
	}

	var removed int64
	if len(keys) > 0 {
		removed, err = repository.client.Del(context, keys...).Result()
		if err != nil {
			return 0, fmt.Errorf("redis_session_delete_all_failed: %w", err)
		}
	}

	if err := repository.client.Del(context, indexKey).Err(); err != nil {
		return 0, fmt.Errorf("redis_session_index_delete_failed: %w", err)
	}

	return int(removed), nil
}

// # One-Time Token Repository

// consumeTokenScript deletes KEYS[1] only when it holds ARGV[1].
// It returns 1 on success, 0 when the key is absent and -1 on mismatch.
var consumeTokenScript = redis.NewScript(`
local stored = redis.call("GET", KEYS[1])
if not stored then
	return 0
end
if stored ~= ARGV[1] then
	return -1
end
redis.call("DEL", KEYS[1])
return 1
`)

// RedisOneTimeTokenRepository implements [OneTimeTokenRepository] using Redis.
//
// Tokens are keyed by account, so issuing a new token overwrites the previous one.
type RedisOneTimeTokenRepository struct {
	client      redis.UniversalClient
	prefix      string
	msgNotFound string
	msgInvalid  string
}

// NewResetTokenRepository creates the Redis store for password reset tokens.
func NewResetTokenRepository(client redis.UniversalClient) *RedisOneTimeTokenRepository {
	return &RedisOneTimeTokenRepository{
		client:      client,
		prefix:      constants.RedisPrefixResetToken,
		msgNotFound: MsgResetTokenNotFound,
		msgInvalid:  MsgResetTokenInvalid,
	}
}

// NewVerificationTokenRepository creates the Redis store for email verification tokens.
func NewVerificationTokenRepository(client redis.UniversalClient) *RedisOneTimeTokenRepository {
	return &RedisOneTimeTokenRepository{
		client:      client,
		prefix:      constants.RedisPrefixVerifyToken,
		msgNotFound: MsgVerifyTokenNotFound,
		msgInvalid:  MsgVerifyTokenInvalid,
	}
}

func (repository *RedisOneTimeTokenRepository) key(accountID string) string {
	return fmt.Sprintf("%s%s", repository.prefix, accountID)
}

/*
Set stores the token digest for accountID with a TTL.

Parameters:
  - context: context.Context
  - accountID: string
  - tokenHash: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisOneTimeTokenRepository) Set(context context.Context, accountID, tokenHash string, ttl time.Duration) error {
	if err := repository.client.Set(context, repository.key(accountID), tokenHash, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_set_failed: %w", err)
	}
	return nil
}

/*
Consume runs the compare-and-delete script for accountID.

Returns:
  - error: apperr.NotFound, apperr.Forbidden or execution errors
*/
func (repository *RedisOneTimeTokenRepository) Consume(context context.Context, accountID, tokenHash string) error {
	result, err := consumeTokenScript.Run(context, repository.client, []string{repository.key(accountID)}, tokenHash).Int()
	if err != nil {
		return fmt.Errorf("redis_token_consume_failed: %w", err)
	}

	switch result {
	case 1:
		return nil
	case 0:
		return apperr.NotFound(repository.msgNotFound)
	default:
		return apperr.Forbidden(repository.msgInvalid)
	}
}
