package artificial

import (
	"context"
	"net/http"

	"sakuracore/sources/configuration"
	"sakuracore/sources/texting/tokenizer"
	"sakuracore/sources/tracing"

	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator is the last rung of the fallback ladder.
type OpenAIGenerator struct {
	ai        *openai.Client
	config    *configuration.Config
	sanitizer *Sanitizer
}

func NewOpenAIGenerator(client *http.Client, config *configuration.Config, sanitizer *Sanitizer) *OpenAIGenerator {
	x := &OpenAIGenerator{config: config, sanitizer: sanitizer}

	if config.AI.OpenAIToken == "" {
		return x
	}

	openaiConfig := openai.DefaultConfig(config.AI.OpenAIToken)
	openaiConfig.HTTPClient = client

	x.ai = openai.NewClientWithConfig(openaiConfig)
	return x
}

func (x *OpenAIGenerator) Name() string {
	return ProviderOpenAI
}

func (x *OpenAIGenerator) Configured() bool {
	return x.ai != nil
}

func (x *OpenAIGenerator) Invoke(ctx context.Context, log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error) {
	if !x.Configured() {
		return nil, &ProviderError{Provider: x.Name(), Err: ErrNotConfigured}
	}

	model := x.config.AI.OpenAIModel
	log = log.With(tracing.AiProvider, x.Name(), tracing.AiModel, model)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	response, err := x.ai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})

	if err != nil {
		log.E("OpenAI completion failed", tracing.InnerError, err)
		return nil, &ProviderError{Provider: x.Name(), Err: err}
	}

	if len(response.Choices) == 0 {
		return nil, &ProviderError{Provider: x.Name(), Err: ErrEmptyResponse}
	}

	text := x.sanitizer.Sanitize(response.Choices[0].Message.Content)

	tokens := response.Usage.TotalTokens
	if tokens == 0 {
		tokens = tokenizer.Tokens(log, req.Prompt+text)
	}

	log.I("OpenAI completion succeeded", tracing.AiTokens, tokens)
	return &GenerationResult{Text: text, Provider: x.Name(), Model: model, Tokens: tokens}, nil
}
