package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/warrantyhub/console-server/internal/config"
	"github.com/warrantyhub/console-server/internal/models"
)

const (
	sessionKeyPrefix = "console:session:"
	userSetKeyPrefix = "console:user_sessions:"
)

// RedisStore implements Store on Redis. The key TTL mirrors the
// session's absolute expiry, so the server enforces the lifetime even
// if no reader ever checks it.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Save persists the session until its absolute expiry
func (s *RedisStore) Save(ctx context.Context, session *models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	key := sessionKeyPrefix + session.ID.String()
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	if session.Principal != nil {
		userKey := userSetKeyPrefix + session.Principal.ID.String()
		pipe := s.client.Pipeline()
		pipe.SAdd(ctx, userKey, session.ID.String())
		pipe.ExpireAt(ctx, userKey, session.ExpiresAt)
		if _, err := pipe.Exec(ctx); err != nil {
			return fmt.Errorf("index session: %w", err)
		}
	}

	return nil
}

// Get loads a session, purging expired or unreadable records
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	key := sessionKeyPrefix + id.String()

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		// Corrupt record: degrade to logged-out, never propagate
		log.Warn().Str("session_id", id.String()).Err(err).Msg("Purging malformed session record")
		s.client.Del(ctx, key)
		return nil, ErrNotFound
	}

	// The key TTL already enforces expiry, but the stored timestamp is
	// authoritative in case of clock drift between writers
	if session.Expired(time.Now()) {
		s.client.Del(ctx, key)
		return nil, ErrNotFound
	}

	return &session, nil
}

// Delete removes a session
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	return s.client.Del(ctx, sessionKeyPrefix+id.String()).Err()
}

// DeleteAllForUser removes every session belonging to a user
func (s *RedisStore) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	userKey := userSetKeyPrefix + userID.String()

	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKeyPrefix+id)
	}
	keys = append(keys, userKey)

	return s.client.Del(ctx, keys...).Err()
}
