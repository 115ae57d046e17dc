package store

import (
	"context"
	"sync"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem MemoryStore")

// InMemoryMemoryStore is the fallback conversation memory when redis
// is unreachable. Sessions live until the process exits.
type InMemoryMemoryStore struct {
	sessionLock *sync.RWMutex
	sessionMap  map[string][]ragModel.ConversationTurn
}

func InitInMemoryMemoryStore() *InMemoryMemoryStore {
	return &InMemoryMemoryStore{
		sessionLock: new(sync.RWMutex),
		sessionMap:  make(map[string][]ragModel.ConversationTurn),
	}
}

func (store *InMemoryMemoryStore) GetHistory(ctx context.Context, sessionId string, limit int) ([]ragModel.ConversationTurn, error) {
	store.sessionLock.RLock()
	defer store.sessionLock.RUnlock()

	turns := store.sessionMap[sessionId]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]ragModel.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}

func (store *InMemoryMemoryStore) AppendTurn(ctx context.Context, sessionId string, turn ragModel.ConversationTurn) error {
	store.sessionLock.Lock()
	defer store.sessionLock.Unlock()
	store.sessionMap[sessionId] = append(store.sessionMap[sessionId], turn)
	inMemLogger.Debug(sessionId, " : Saved turn to memory store")
	return nil
}

func (store *InMemoryMemoryStore) ValidateSession(ctx context.Context, sessionId string) bool {
	store.sessionLock.RLock()
	defer store.sessionLock.RUnlock()
	_, ok := store.sessionMap[sessionId]
	return ok
}

func (store *InMemoryMemoryStore) InitSession(ctx context.Context, sessionId string) error {
	store.sessionLock.Lock()
	defer store.sessionLock.Unlock()
	store.sessionMap[sessionId] = make([]ragModel.ConversationTurn, 0)
	return nil
}
