package artificial

import (
	"context"
	"net/http"

	"sakuracore/sources/configuration"
	"sakuracore/sources/texting/tokenizer"
	"sakuracore/sources/tracing"

	"github.com/sashabaranov/go-openai"
)

type AzureGenerator struct {
	ai        *openai.Client
	config    *configuration.Config
	sanitizer *Sanitizer
}

func NewAzureGenerator(client *http.Client, config *configuration.Config, sanitizer *Sanitizer) *AzureGenerator {
	x := &AzureGenerator{config: config, sanitizer: sanitizer}

	if config.AI.AzureKey == "" || config.AI.AzureEndpoint == "" {
		return x
	}

	azureConfig := openai.DefaultAzureConfig(config.AI.AzureKey, config.AI.AzureEndpoint)
	azureConfig.APIVersion = config.AI.AzureAPIVersion
	azureConfig.AzureModelMapperFunc = func(model string) string {
		return config.AI.AzureDeployment
	}
	azureConfig.HTTPClient = client

	x.ai = openai.NewClientWithConfig(azureConfig)
	return x
}

func (x *AzureGenerator) Name() string {
	return ProviderAzure
}

func (x *AzureGenerator) Configured() bool {
	return x.ai != nil
}

func (x *AzureGenerator) Invoke(ctx context.Context, log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error) {
	if !x.Configured() {
		return nil, &ProviderError{Provider: x.Name(), Err: ErrNotConfigured}
	}

	model := x.config.AI.AzureDeployment
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
		log.E("Azure completion failed", tracing.InnerError, err)
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

	log.I("Azure completion succeeded", tracing.AiTokens, tokens)
	return &GenerationResult{Text: text, Provider: x.Name(), Model: model, Tokens: tokens}, nil
}
