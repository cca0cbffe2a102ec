package artificial

import (
	"context"
	"net/http"
	"time"

	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"

	"github.com/sashabaranov/go-openai"
)

// WhisperCreditCost is charged per transcription.
const WhisperCreditCost = 1

type Whisper struct {
	ai     *openai.Client
	config *configuration.Config
}

func NewWhisper(client *http.Client, config *configuration.Config) *Whisper {
	x := &Whisper{config: config}

	if config.AI.OpenAIToken == "" {
		return x
	}

	openaiConfig := openai.DefaultConfig(config.AI.OpenAIToken)
	openaiConfig.HTTPClient = client

	x.ai = openai.NewClientWithConfig(openaiConfig)
	return x
}

func (w *Whisper) Configured() bool {
	return w.ai != nil
}

func (w *Whisper) Transcribe(log *tracing.Logger, filePath string) (string, error) {
	defer tracing.ProfilePoint(log, "Transcription completed", "artificial.whisper.transcribe")()

	if !w.Configured() {
		return "", &ProviderError{Provider: "whisper", Err: ErrNotConfigured}
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 5*time.Minute)
	defer cancel()

	log = log.With(tracing.AiModel, w.config.AI.WhisperModel)
	log.I("stt requested")

	request := openai.AudioRequest{Model: w.config.AI.WhisperModel, FilePath: filePath}
	response, err := w.ai.CreateTranscription(ctx, request)
	if err != nil {
		log.E("Failed to transcribe audio", tracing.InnerError, err)
		return "", &ProviderError{Provider: "whisper", Err: err}
	}

	log.I("stt completed")
	return response.Text, nil
}
