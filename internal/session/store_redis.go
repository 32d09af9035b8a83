package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"cohort/pkg/domain"
	"cohort/pkg/platform/sentinel"
)

const (
	sessionKeyPrefix        = "session:"
	accountSessionKeyPrefix = "account_sessions:"
)

// RedisStore keeps each session under its own expiring key plus a per-account
// index set used for bulk invalidation.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func accountKey(accountID domain.AccountID) string {
	return accountSessionKeyPrefix + accountID.String()
}

func (s *RedisStore) Create(ctx context.Context, sess *Session) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(sess.ID), payload, ttl)
		pipe.SAdd(ctx, accountKey(sess.AccountID), sess.ID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}

// ListByAccount returns the live sessions of an account. Index entries whose
// session key already expired are skipped.
func (s *RedisStore) ListByAccount(ctx context.Context, accountID domain.AccountID) ([]*Session, error) {
	ids, err := s.client.SMembers(ctx, accountKey(accountID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list account sessions: %w", err)
	}
	out := make([]*Session, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		sess, err := s.FindByID(ctx, id)
		if errors.Is(err, sentinel.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

// InvalidateByAccount removes every session of the account and its index.
func (s *RedisStore) InvalidateByAccount(ctx context.Context, accountID domain.AccountID) error {
	idxKey := accountKey(accountID)
	ids, err := s.client.SMembers(ctx, idxKey).Result()
	if err != nil {
		return fmt.Errorf("list account sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, idxKey)
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate account sessions: %w", err)
	}
	return nil
}
