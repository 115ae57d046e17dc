package llm

import (
	"context"

	"github.com/tiramai/ragapi/internal/domain/ragModel"
)

// Params are per-call generation settings. Extra carries
// provider-specific knobs that also participate in cache keying.
type Params struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Extra       map[string]any
}

type Completion struct {
	Text  string
	Model string
	Usage ragModel.TokenUsage
}

type Provider interface {
	Complete(ctx context.Context, prompt string, params Params) (Completion, error)
	CompleteMessages(ctx context.Context, messages []ragModel.ConversationTurn, params Params) (Completion, error)
}
