package openai

import (
	"context"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/customHttpClient"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/pkg/logger_i"
)

type llmClient struct {
	client    openai.Client
	modelName string
}

var logger *logger_i.Logger
var openaiClient *llmClient
var once sync.Once

func GetOpenAIClient(modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_openai")
		if apikey == "" {
			logger.Error("OpenAI API key missing")
			return
		}
		openaiClient = &llmClient{
			client: openai.NewClient(
				option.WithAPIKey(apikey),
				option.WithHTTPClient(customHttpClient.PooledClient()),
			),
			modelName: modelName,
		}
		logger.Info("OpenAI client created", "model", modelName)
	})

	if openaiClient == nil {
		return nil
	}
	return openaiClient
}

func (c *llmClient) Complete(ctx context.Context, prompt string, params llm.Params) (llm.Completion, error) {
	messages := []ragModel.ConversationTurn{{Role: ragModel.RoleUser, Content: prompt}}
	return c.CompleteMessages(ctx, messages, params)
}

func (c *llmClient) CompleteMessages(ctx context.Context, messages []ragModel.ConversationTurn, params llm.Params) (llm.Completion, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	model := params.Model
	if model == "" {
		model = c.modelName
	}

	result, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(params.Temperature),
		MaxTokens:   openai.Int(int64(params.MaxTokens)),
	})
	if err != nil {
		loggr.Error("Error generating completion:", "error", err)
		return llm.Completion{}, err
	}
	if len(result.Choices) == 0 {
		loggr.Warn("OpenAI returned no choices")
		return llm.Completion{Model: model}, nil
	}

	return llm.Completion{
		Text:  result.Choices[0].Message.Content,
		Model: model,
		Usage: ragModel.TokenUsage{
			PromptTokens:     int(result.Usage.PromptTokens),
			CompletionTokens: int(result.Usage.CompletionTokens),
			TotalTokens:      int(result.Usage.TotalTokens),
		},
	}, nil
}

func toOpenAIMessages(messages []ragModel.ConversationTurn) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case ragModel.RoleSystem:
			converted = append(converted, openai.SystemMessage(message.Content))
		case ragModel.RoleAssistant:
			converted = append(converted, openai.AssistantMessage(message.Content))
		default:
			converted = append(converted, openai.UserMessage(message.Content))
		}
	}
	return converted
}
