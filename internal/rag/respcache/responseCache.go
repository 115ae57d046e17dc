package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

// Cache keeps completed model responses for identical requests. Expiry
// is lazy: entries past their TTL read as misses, no background sweeper
// runs.
type Cache struct {
	store  *gocache.Cache
	logger *logger_i.Logger
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		store:  gocache.New(ttl, 0),
		logger: logger_i.NewLogger("response_cache"),
	}
}

func (c *Cache) Get(key string) (llm.Completion, bool) {
	value, found := c.store.Get(key)
	if !found {
		return llm.Completion{}, false
	}
	completion, ok := value.(llm.Completion)
	if !ok {
		return llm.Completion{}, false
	}
	c.logger.Debug("Cache hit", "key", key)
	return completion, true
}

func (c *Cache) Put(key string, completion llm.Completion) {
	c.store.SetDefault(key, completion)
}

type fingerprintInput struct {
	Messages    []ragModel.ConversationTurn `json:"messages"`
	Model       string                      `json:"model"`
	Temperature float64                     `json:"temperature"`
	Extra       map[string]any              `json:"extra,omitempty"`
}

// Fingerprint derives a deterministic cache key from everything that
// shapes a completion. json.Marshal sorts map keys, so equal inputs
// always serialize identically.
func Fingerprint(messages []ragModel.ConversationTurn, params llm.Params) string {
	payload, err := json.Marshal(fingerprintInput{
		Messages:    messages,
		Model:       params.Model,
		Temperature: params.Temperature,
		Extra:       params.Extra,
	})
	if err != nil {
		// only unmarshalable Extra values can land here
		return ""
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
