package artificial

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"
)

// SpeakerCreditCost is charged per synthesized clip.
const SpeakerCreditCost = 1

type Speaker struct {
	client *http.Client
	config *configuration.Config
}

func NewSpeaker(client *http.Client, config *configuration.Config) *Speaker {
	return &Speaker{client: client, config: config}
}

func (x *Speaker) Configured() bool {
	return x.config.Media.SpeechKey != ""
}

type speakRequest struct {
	Text          string `json:"text"`
	ModelID       string `json:"model_id"`
	VoiceSettings struct {
		Stability       float64 `json:"stability"`
		SimilarityBoost float64 `json:"similarity_boost"`
	} `json:"voice_settings"`
}

// Speak synthesizes text to speech and returns the audio as a data URL.
func (x *Speaker) Speak(log *tracing.Logger, text string) (string, error) {
	defer tracing.ProfilePoint(log, "Speech synthesis completed", "artificial.speaker.speak")()

	if !x.Configured() {
		return "", &ProviderError{Provider: "speaker", Err: ErrNotConfigured}
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 2*time.Minute)
	defer cancel()

	body := speakRequest{Text: text, ModelID: x.config.Media.SpeechModel}
	body.VoiceSettings.Stability = 0.5
	body.VoiceSettings.SimilarityBoost = 0.5

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ProviderError{Provider: "speaker", Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", x.config.Media.SpeechHost, x.config.Media.SpeechVoice)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ProviderError{Provider: "speaker", Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("xi-api-key", x.config.Media.SpeechKey)

	response, err := x.client.Do(request)
	if err != nil {
		log.E("Speech synthesis request failed", tracing.InnerError, err)
		return "", &ProviderError{Provider: "speaker", Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		log.E("Speech engine returned unexpected status", "status", response.StatusCode, "body", string(raw))
		return "", &ProviderError{Provider: "speaker", Err: fmt.Errorf("speech engine status %d", response.StatusCode)}
	}

	audio, err := io.ReadAll(response.Body)
	if err != nil {
		log.E("Failed to read audio response", tracing.InnerError, err)
		return "", &ProviderError{Provider: "speaker", Err: err}
	}

	log.I("Speech synthesized", "bytes", len(audio))
	return "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio), nil
}
