package store

import (
	"context"
	"encoding/json"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/data/redisStore"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// RedisMemoryStore keeps each session's turns in a redis list, oldest
// first, refreshing the session TTL on every write.
type RedisMemoryStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisMemoryStore(ctx context.Context) *RedisMemoryStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisMemoryStore)
	if backing == nil {
		return nil
	}
	return &RedisMemoryStore{
		store:  backing,
		logger: logger_i.NewLogger("MemoryStore"),
	}
}

// NewRedisMemoryStore wraps an existing backing store; used in tests.
func NewRedisMemoryStore(backing *redisStore.Store) *RedisMemoryStore {
	return &RedisMemoryStore{
		store:  backing,
		logger: logger_i.NewLogger("MemoryStore"),
	}
}

func (s *RedisMemoryStore) GetHistory(ctx context.Context, sessionId string, limit int) ([]ragModel.ConversationTurn, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)

	raw, err := s.store.ListLastN(ctx, sessionId, limit)
	if err != nil {
		log.Error("Error getting history", "error:", err)
		return nil, err
	}

	turns := make([]ragModel.ConversationTurn, 0, len(raw))
	for _, entry := range raw {
		var turn ragModel.ConversationTurn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			log.Warn("Skipping malformed history entry", "error", err.Error())
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func (s *RedisMemoryStore) AppendTurn(ctx context.Context, sessionId string, turn ragModel.ConversationTurn) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)

	data, err := json.Marshal(turn)
	if err != nil {
		log.Error("Error marshalling turn", "error:", err)
		return err
	}
	if err := s.store.ListPush(ctx, sessionId, data); err != nil {
		log.Error("Error saving turn", "error:", err)
		return err
	}
	if err := s.store.Expire(ctx, sessionId, config.RedisMemoryStoreTTL); err != nil {
		log.Warn("Error refreshing session TTL", "error", err.Error())
	}
	return nil
}

func (s *RedisMemoryStore) ValidateSession(ctx context.Context, sessionId string) bool {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)

	found, err := s.store.Exists(ctx, sessionId)
	if s.store.IsNil(err) {
		return false
	} else if err != nil {
		log.Error("Failed to check if session exists", "err", err)
		return false
	}
	return found
}

func (s *RedisMemoryStore) InitSession(ctx context.Context, sessionId string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "sessionId", sessionId)
	log.Debug("Initializing new session")
	err := s.store.Del(ctx, sessionId)
	if err != nil && !s.store.IsNil(err) {
		log.Error("Error initializing session", "error", err.Error())
		return err
	}
	return nil
}
