package artificial

import (
	"context"
	"net/http"

	"sakuracore/sources/configuration"
	"sakuracore/sources/texting/tokenizer"
	"sakuracore/sources/tracing"

	openrouter "github.com/revrost/go-openrouter"
)

// NativeGenerator talks to Gemini-class models through the OpenRouter SDK
// instead of the vendor REST surface.
type NativeGenerator struct {
	ai        *openrouter.Client
	config    *configuration.Config
	sanitizer *Sanitizer
}

func NewNativeGenerator(client *http.Client, config *configuration.Config, sanitizer *Sanitizer) *NativeGenerator {
	x := &NativeGenerator{config: config, sanitizer: sanitizer}

	if config.AI.OpenRouterToken == "" {
		return x
	}

	clientConfig := openrouter.DefaultConfig(config.AI.OpenRouterToken)
	clientConfig.HTTPClient = client
	clientConfig.XTitle = "Sakura Core"

	x.ai = openrouter.NewClientWithConfig(*clientConfig)
	return x
}

func (x *NativeGenerator) Name() string {
	return ProviderNative
}

func (x *NativeGenerator) Configured() bool {
	return x.ai != nil
}

func (x *NativeGenerator) Invoke(ctx context.Context, log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error) {
	if !x.Configured() {
		return nil, &ProviderError{Provider: x.Name(), Err: ErrNotConfigured}
	}

	model := x.config.AI.NativeModel
	log = log.With(tracing.AiProvider, x.Name(), tracing.AiModel, model)

	messages := make([]openrouter.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openrouter.ChatCompletionMessage{
			Role:    openrouter.ChatMessageRoleSystem,
			Content: openrouter.Content{Text: req.System},
		})
	}
	messages = append(messages, openrouter.ChatCompletionMessage{
		Role:    openrouter.ChatMessageRoleUser,
		Content: openrouter.Content{Text: req.Prompt},
	})

	response, err := x.ai.CreateChatCompletion(ctx, openrouter.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})

	if err != nil {
		log.E("Native completion failed", tracing.InnerError, err)
		return nil, &ProviderError{Provider: x.Name(), Err: err}
	}

	if len(response.Choices) == 0 {
		return nil, &ProviderError{Provider: x.Name(), Err: ErrEmptyResponse}
	}

	text := x.sanitizer.Sanitize(response.Choices[0].Message.Content.Text)

	tokens := response.Usage.TotalTokens
	if tokens == 0 {
		tokens = tokenizer.Tokens(log, req.Prompt+text)
	}

	log.I("Native completion succeeded", tracing.AiTokens, tokens)
	return &GenerationResult{Text: text, Provider: x.Name(), Model: model, Tokens: tokens}, nil
}
