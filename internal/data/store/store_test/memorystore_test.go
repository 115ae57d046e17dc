package store_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/data/redisStore"
	"github.com/tiramai/ragapi/internal/data/store"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

func init() {
	logger_i.Init()
}

func newTestMemoryStore(t *testing.T) *store.RedisMemoryStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return store.NewRedisMemoryStore(redisStore.NewTestStore(client))
}

func TestRedisMemoryStore_Lifecycle(t *testing.T) {
	memStore := newTestMemoryStore(t)
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
	sessionId := "session_abc_123"

	t.Run("Append and Get Roundtrip", func(t *testing.T) {
		if err := memStore.AppendTurn(ctx, sessionId, ragModel.ConversationTurn{Role: ragModel.RoleUser, Content: "How do I mock Redis?"}); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}
		if err := memStore.AppendTurn(ctx, sessionId, ragModel.ConversationTurn{Role: ragModel.RoleAssistant, Content: "Use miniredis."}); err != nil {
			t.Fatalf("AppendTurn failed: %v", err)
		}

		history, err := memStore.GetHistory(ctx, sessionId, 5)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history) != 2 {
			t.Fatalf("expected 2 turns, got %d", len(history))
		}
		if history[0].Role != ragModel.RoleUser || history[1].Role != ragModel.RoleAssistant {
			t.Errorf("history should be oldest first: %+v", history)
		}
	})

	t.Run("Validate Session", func(t *testing.T) {
		if !memStore.ValidateSession(ctx, sessionId) {
			t.Error("expected existing session to validate")
		}
		if memStore.ValidateSession(ctx, "ghost-session") {
			t.Error("expected unknown session to fail validation")
		}
	})

	t.Run("History Limit Keeps Most Recent", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			err := memStore.AppendTurn(ctx, "long-session", ragModel.ConversationTurn{
				Role:    ragModel.RoleUser,
				Content: fmt.Sprintf("turn %d", i),
			})
			if err != nil {
				t.Fatalf("AppendTurn failed: %v", err)
			}
		}

		history, err := memStore.GetHistory(ctx, "long-session", 5)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history) != 5 {
			t.Fatalf("expected 5 turns, got %d", len(history))
		}
		if history[0].Content != "turn 5" || history[4].Content != "turn 9" {
			t.Errorf("expected the trailing turns in order, got %+v", history)
		}
	})

	t.Run("Init Session Clears History", func(t *testing.T) {
		if err := memStore.InitSession(ctx, sessionId); err != nil {
			t.Fatalf("InitSession failed: %v", err)
		}
		history, err := memStore.GetHistory(ctx, sessionId, 5)
		if err != nil {
			t.Fatalf("GetHistory failed: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history after init, got %d turns", len(history))
		}
	})
}

func TestInMemoryMemoryStore(t *testing.T) {
	memStore := store.InitInMemoryMemoryStore()
	ctx := context.Background()

	if memStore.ValidateSession(ctx, "s1") {
		t.Error("unknown session should not validate")
	}
	if err := memStore.InitSession(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if !memStore.ValidateSession(ctx, "s1") {
		t.Error("initialized session should validate")
	}

	for i := 0; i < 7; i++ {
		_ = memStore.AppendTurn(ctx, "s1", ragModel.ConversationTurn{Role: ragModel.RoleUser, Content: fmt.Sprintf("turn %d", i)})
	}
	history, err := memStore.GetHistory(ctx, "s1", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 5 || history[0].Content != "turn 2" {
		t.Errorf("expected the 5 most recent turns, got %+v", history)
	}
}
