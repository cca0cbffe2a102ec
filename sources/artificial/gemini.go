package artificial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"sakuracore/sources/configuration"
	"sakuracore/sources/texting/tokenizer"
	"sakuracore/sources/tracing"
)

// GeminiGenerator calls the generative language REST surface directly.
// It backs up the native adapter when OpenRouter is down or unconfigured.
type GeminiGenerator struct {
	client    *http.Client
	config    *configuration.Config
	sanitizer *Sanitizer
}

func NewGeminiGenerator(client *http.Client, config *configuration.Config, sanitizer *Sanitizer) *GeminiGenerator {
	return &GeminiGenerator{client: client, config: config, sanitizer: sanitizer}
}

func (x *GeminiGenerator) Name() string {
	return ProviderGemini
}

func (x *GeminiGenerator) Configured() bool {
	return x.config.AI.GeminiKey != ""
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float32 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func (x *GeminiGenerator) Invoke(ctx context.Context, log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error) {
	if !x.Configured() {
		return nil, &ProviderError{Provider: x.Name(), Err: ErrNotConfigured}
	}

	model := x.config.AI.GeminiModel
	log = log.With(tracing.AiProvider, x.Name(), tracing.AiModel, model)

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}}},
	}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	body.GenerationConfig.Temperature = req.Temperature
	body.GenerationConfig.MaxOutputTokens = req.MaxTokens

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProviderError{Provider: x.Name(), Err: err}
	}

	endpoint := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		x.config.AI.GeminiEndpoint, model, x.config.AI.GeminiKey,
	)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &ProviderError{Provider: x.Name(), Err: err}
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := x.client.Do(request)
	if err != nil {
		log.E("Gemini request failed", tracing.InnerError, err)
		return nil, &ProviderError{Provider: x.Name(), Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		log.E("Gemini returned unexpected status", "status", response.StatusCode, "body", string(raw))
		return nil, &ProviderError{Provider: x.Name(), Err: fmt.Errorf("gemini status %d", response.StatusCode)}
	}

	var parsed geminiResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		log.E("Failed to decode gemini response", tracing.InnerError, err)
		return nil, &ProviderError{Provider: x.Name(), Err: err}
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return nil, &ProviderError{Provider: x.Name(), Err: ErrEmptyResponse}
	}

	var text strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	cleaned := x.sanitizer.Sanitize(text.String())

	tokens := parsed.UsageMetadata.TotalTokenCount
	if tokens == 0 {
		tokens = tokenizer.Tokens(log, req.Prompt+cleaned)
	}

	log.I("Gemini completion succeeded", tracing.AiTokens, tokens)
	return &GenerationResult{Text: cleaned, Provider: x.Name(), Model: model, Tokens: tokens}, nil
}
