package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lexgen/lexgen-backend/internal/logger"
	"github.com/lexgen/lexgen-backend/internal/utils"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionStore holds in-flight interactive sessions between turns. Sessions
// are keyed by (user, session) so one user can never load another's dialogue.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error)
	Delete(ctx context.Context, userID, sessionID uuid.UUID) error
}

type redisSessionStore struct {
	client *redis.Client
	log    *logger.Logger
	ttl    time.Duration
}

func NewRedisSessionStore(log *logger.Logger) (SessionStore, error) {
	serviceLog := log.With("service", "RedisSessionStore")

	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)
	password := utils.GetEnv("REDIS_PASSWORD", "", nil)
	db := utils.GetEnvAsInt("REDIS_DB", 0, log)
	ttlHours := utils.GetEnvAsInt("SESSION_TTL_HOURS", 24, log)

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisSessionStore{
		client: client,
		log:    serviceLog,
		ttl:    time.Duration(ttlHours) * time.Hour,
	}, nil
}

func sessionKey(userID, sessionID uuid.UUID) string {
	return fmt.Sprintf("case_session:%s:%s", userID, sessionID)
}

func (s *redisSessionStore) Save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.UserID, session.ID), raw, s.ttl).Err()
}

func (s *redisSessionStore) Get(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(userID, sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	return s.client.Del(ctx, sessionKey(userID, sessionID)).Err()
}

// memorySessionStore backs tests and single-node deployments without redis.
// Sessions round-trip through JSON so callers never alias stored state.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: map[string][]byte{}}
}

func (s *memorySessionStore) Save(ctx context.Context, session *Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey(session.UserID, session.ID)] = raw
	return nil
}

func (s *memorySessionStore) Get(ctx context.Context, userID, sessionID uuid.UUID) (*Session, error) {
	s.mu.RLock()
	raw, ok := s.sessions[sessionKey(userID, sessionID)]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, userID, sessionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey(userID, sessionID))
	return nil
}
