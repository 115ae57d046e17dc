package gemini

import (
	"context"
	"sync"

	"github.com/tiramai/ragapi/internal/config"
	"github.com/tiramai/ragapi/internal/domain/ragModel"
	"github.com/tiramai/ragapi/internal/rag/llm"
	"github.com/tiramai/ragapi/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
}

var logger *logger_i.Logger
var geminiClient *llmClient
var once sync.Once

func GetGeminiClient(ctx context.Context, modelName string, apikey string) llm.Provider {
	once.Do(func() {
		logger = logger_i.NewLogger("llm_gemini")
		newGeminiClient(ctx, modelName, apikey)
	})

	if geminiClient == nil {
		return nil
	}
	return &llmClient{client: geminiClient.client, modelName: geminiClient.modelName}
}

func newGeminiClient(ctx context.Context, modelName string, apikey string) {

	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		logger.Error("Error creating Gemini client:", "error", err)
	}
	if c != nil {
		geminiClient = &llmClient{client: c, modelName: modelName}
		logger.Info("Gemini client created", "model", modelName)
		go closeClient(ctx, geminiClient)
	}

}

func (c *llmClient) Complete(ctx context.Context, prompt string, params llm.Params) (llm.Completion, error) {
	return c.generate(ctx, nil, genai.Text(prompt), params)
}

func (c *llmClient) CompleteMessages(ctx context.Context, messages []ragModel.ConversationTurn, params llm.Params) (llm.Completion, error) {
	var system *genai.Content
	var contents []*genai.Content

	for _, message := range messages {
		switch message.Role {
		case ragModel.RoleSystem:
			// gemini takes the system message out of band
			system = &genai.Content{Parts: []*genai.Part{{Text: message.Content}}}
		case ragModel.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: message.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: message.Content}},
			})
		}
	}

	return c.generate(ctx, system, contents, params)
}

func (c *llmClient) generate(ctx context.Context, system *genai.Content, contents []*genai.Content, params llm.Params) (llm.Completion, error) {
	loggr := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	model := params.Model
	if model == "" {
		model = c.modelName
	}
	temperature := float32(params.Temperature)

	contentConfig := &genai.GenerateContentConfig{
		SystemInstruction: system,
		Temperature:       &temperature,
		MaxOutputTokens:   int32(params.MaxTokens),
	}

	result, err := c.client.Models.GenerateContent(ctx, model, contents, contentConfig)
	if err != nil {
		loggr.Error("Error generating content:", "error", err)
		return llm.Completion{}, err
	}

	completion := llm.Completion{
		Text:  result.Text(),
		Model: model,
	}
	if result.UsageMetadata != nil {
		completion.Usage = ragModel.TokenUsage{
			PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
		}
	}
	return completion, nil
}

func closeClient(ctx context.Context, llmc *llmClient) {
	<-ctx.Done()
	logger.Info("Closing Gemini client")
	llmc.client = nil
	llmc.modelName = ""
}
