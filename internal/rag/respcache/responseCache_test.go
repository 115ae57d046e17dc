package respcache

import (
	"testing"
	"time"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

func init() {
	logger_i.Init()
}

func askTurn(content string) []ragModel.ConversationTurn {
	return []ragModel.ConversationTurn{{Role: ragModel.RoleUser, Content: content}}
}

func TestCacheRoundtrip(t *testing.T) {
	cache := NewCache(time.Minute)
	key := Fingerprint(askTurn("hello"), llm.Params{Model: "m", Temperature: 0.7})

	if _, found := cache.Get(key); found {
		t.Fatal("expected miss before put")
	}

	want := llm.Completion{Text: "hi", Model: "m", Usage: ragModel.TokenUsage{TotalTokens: 3}}
	cache.Put(key, want)

	got, found := cache.Get(key)
	if !found {
		t.Fatal("expected hit after put")
	}
	if got.Text != want.Text || got.Usage.TotalTokens != 3 {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCache(10 * time.Millisecond)
	key := Fingerprint(askTurn("hello"), llm.Params{Model: "m"})
	cache.Put(key, llm.Completion{Text: "hi"})

	time.Sleep(20 * time.Millisecond)

	if _, found := cache.Get(key); found {
		t.Error("expected miss after TTL")
	}
}

func TestFingerprintSensitivity(t *testing.T) {
	base := Fingerprint(askTurn("hello"), llm.Params{Model: "m", Temperature: 0.7})

	cases := []struct {
		name string
		key  string
	}{
		{"different message", Fingerprint(askTurn("goodbye"), llm.Params{Model: "m", Temperature: 0.7})},
		{"different model", Fingerprint(askTurn("hello"), llm.Params{Model: "other", Temperature: 0.7})},
		{"different temperature", Fingerprint(askTurn("hello"), llm.Params{Model: "m", Temperature: 0.2})},
		{"extra params", Fingerprint(askTurn("hello"), llm.Params{Model: "m", Temperature: 0.7, Extra: map[string]any{"top_p": 0.9}})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.key == base {
				t.Error("expected a different fingerprint")
			}
		})
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	params := llm.Params{Model: "m", Temperature: 0.7, Extra: map[string]any{"b": 2, "a": 1}}
	first := Fingerprint(askTurn("hello"), params)
	second := Fingerprint(askTurn("hello"), llm.Params{Model: "m", Temperature: 0.7, Extra: map[string]any{"a": 1, "b": 2}})
	if first != second {
		t.Error("equal inputs should fingerprint identically regardless of map ordering")
	}
}

func TestFingerprintMarshalFailureYieldsNoKey(t *testing.T) {
	unmarshalable := llm.Params{Model: "m", Extra: map[string]any{"bad": make(chan int)}}
	if key := Fingerprint(askTurn("hello"), unmarshalable); key != "" {
		t.Errorf("unmarshalable params should yield an empty key, got %q", key)
	}
}
