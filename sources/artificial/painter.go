package artificial

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"
)

// PainterCreditCost is charged per generated image.
const PainterCreditCost = 1

type Painter struct {
	client *http.Client
	config *configuration.Config
}

func NewPainter(client *http.Client, config *configuration.Config) *Painter {
	return &Painter{client: client, config: config}
}

func (x *Painter) Configured() bool {
	return x.config.Media.ImageKey != ""
}

type paintRequest struct {
	TextPrompts []struct {
		Text string `json:"text"`
	} `json:"text_prompts"`
	CfgScale int `json:"cfg_scale"`
	Height   int `json:"height"`
	Width    int `json:"width"`
	Samples  int `json:"samples"`
	Steps    int `json:"steps"`
}

type paintResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// Paint renders prompt into an image and returns it as a data URL.
func (x *Painter) Paint(log *tracing.Logger, prompt string) (string, error) {
	defer tracing.ProfilePoint(log, "Painting completed", "artificial.painter.paint")()

	if !x.Configured() {
		return "", &ProviderError{Provider: "painter", Err: ErrNotConfigured}
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), 2*time.Minute)
	defer cancel()

	body := paintRequest{CfgScale: 7, Height: 1024, Width: 1024, Samples: 1, Steps: 30}
	body.TextPrompts = []struct {
		Text string `json:"text"`
	}{{Text: prompt}}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ProviderError{Provider: "painter", Err: err}
	}

	endpoint := fmt.Sprintf("%s/v1/generation/%s/text-to-image", x.config.Media.ImageHost, x.config.Media.ImageEngine)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", &ProviderError{Provider: "painter", Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Authorization", "Bearer "+x.config.Media.ImageKey)

	response, err := x.client.Do(request)
	if err != nil {
		log.E("Image generation request failed", tracing.InnerError, err)
		return "", &ProviderError{Provider: "painter", Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(response.Body, 1024))
		log.E("Image engine returned unexpected status", "status", response.StatusCode, "body", string(raw))
		return "", &ProviderError{Provider: "painter", Err: fmt.Errorf("image engine status %d", response.StatusCode)}
	}

	var parsed paintResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		log.E("Failed to decode image response", tracing.InnerError, err)
		return "", &ProviderError{Provider: "painter", Err: err}
	}

	if len(parsed.Artifacts) == 0 {
		return "", &ProviderError{Provider: "painter", Err: ErrEmptyResponse}
	}

	log.I("Image generated")
	return "data:image/png;base64," + parsed.Artifacts[0].Base64, nil
}
