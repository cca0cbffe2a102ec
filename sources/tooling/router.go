package tooling

import (
	"errors"
	"fmt"
	"time"

	"sakuracore/sources/artificial"
	"sakuracore/sources/metrics"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"
)

var (
	ErrUnknownTool     = errors.New("unknown tool")
	ErrUnknownCategory = errors.New("unknown tool category")
	ErrEmptyInput      = errors.New("tool input is empty")
)

// RouteError carries the wall-clock duration of the failed run so that
// accounting stays uniform between successes and failures.
type RouteError struct {
	Tool       string
	DurationMs int64
	Err        error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("tool %s failed after %dms: %v", e.Tool, e.DurationMs, e.Err)
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

type ToolRequest struct {
	Tool        string
	Input       string
	SearchQuery string
	AudioPath   string
}

type ToolResult struct {
	Output     string
	OutputType platform.OutputType
	Tokens     int
	Credits    int
	Provider   string
	Model      string
	DurationMs int64
}

type categoryProfile struct {
	temperature float32
	maxTokens   int
}

var profiles = map[string]categoryProfile{
	CategoryWriting:     {temperature: 0.7, maxTokens: 2000},
	CategorySpecialized: {temperature: 0.7, maxTokens: 2000},
	CategoryCode:        {temperature: 0.2, maxTokens: 3000},
	CategoryBusiness:    {temperature: 0.6, maxTokens: 3000},
	CategoryStudy:       {temperature: 0.5, maxTokens: 2500},
	CategoryData:        {temperature: 0.3, maxTokens: 2500},
}

type textEngine interface {
	Generate(log *tracing.Logger, req *artificial.GenerationRequest) (*artificial.GenerationResult, error)
	GenerateCode(log *tracing.Logger, req *artificial.GenerationRequest) (*artificial.GenerationResult, error)
}

type imageEngine interface {
	Paint(log *tracing.Logger, prompt string) (string, error)
}

type speechEngine interface {
	Speak(log *tracing.Logger, text string) (string, error)
}

type transcribeEngine interface {
	Transcribe(log *tracing.Logger, filePath string) (string, error)
}

type Router struct {
	catalog      *Catalog
	prompts      *PromptRegistry
	orchestrator textEngine
	painter      imageEngine
	speaker      speechEngine
	whisper      transcribeEngine
	metrics      *metrics.MetricsService
}

func NewRouter(catalog *Catalog, prompts *PromptRegistry, orchestrator *artificial.Orchestrator, painter *artificial.Painter, speaker *artificial.Speaker, whisper *artificial.Whisper, metrics *metrics.MetricsService) *Router {
	return &Router{
		catalog:      catalog,
		prompts:      prompts,
		orchestrator: orchestrator,
		painter:      painter,
		speaker:      speaker,
		whisper:      whisper,
		metrics:      metrics,
	}
}

func (x *Router) Route(log *tracing.Logger, req *ToolRequest) (*ToolResult, error) {
	start := time.Now()

	fail := func(tool string, err error) (*ToolResult, error) {
		x.metrics.CountToolRun(tool, "error")
		return nil, &RouteError{Tool: tool, DurationMs: time.Since(start).Milliseconds(), Err: err}
	}

	tool, ok := x.catalog.Get(req.Tool)
	if !ok {
		log.W("Unknown tool requested", tracing.ToolName, req.Tool)
		return fail(req.Tool, ErrUnknownTool)
	}

	log = log.With(tracing.ToolName, tool.Name, tracing.ToolCategory, tool.Category)

	if req.Input == "" && req.AudioPath == "" {
		return fail(tool.Name, ErrEmptyInput)
	}

	result, err := x.dispatch(log, tool, req)
	if err != nil {
		return fail(tool.Name, err)
	}

	result.DurationMs = time.Since(start).Milliseconds()

	x.metrics.CountToolRun(tool.Name, "success")
	if result.Credits > 0 {
		x.metrics.CountCredits(tool.Name, result.Credits)
	}

	log.I("Tool routed", tracing.AiTokens, result.Tokens, "credits", result.Credits, "duration_ms", result.DurationMs)
	return result, nil
}

func (x *Router) dispatch(log *tracing.Logger, tool Tool, req *ToolRequest) (*ToolResult, error) {
	switch tool.Category {
	case CategoryWriting, CategoryBusiness, CategoryStudy, CategoryData, CategorySpecialized:
		profile := profiles[tool.Category]
		generation, err := x.orchestrator.Generate(log, &artificial.GenerationRequest{
			System:      x.prompts.System(tool),
			Prompt:      x.prompts.Build(tool, req.Input),
			SearchQuery: req.SearchQuery,
			Temperature: profile.temperature,
			MaxTokens:   profile.maxTokens,
		})
		if err != nil {
			return nil, err
		}
		return &ToolResult{
			Output:     generation.Text,
			OutputType: platform.OutputText,
			Tokens:     generation.Tokens,
			Provider:   generation.Provider,
			Model:      generation.Model,
		}, nil

	case CategoryCode:
		profile := profiles[CategoryCode]
		generation, err := x.orchestrator.GenerateCode(log, &artificial.GenerationRequest{
			System:    x.prompts.System(tool),
			Prompt:    x.prompts.Build(tool, req.Input),
			MaxTokens: profile.maxTokens,
		})
		if err != nil {
			return nil, err
		}
		return &ToolResult{
			Output:     generation.Text,
			OutputType: platform.OutputText,
			Tokens:     generation.Tokens,
			Provider:   generation.Provider,
			Model:      generation.Model,
		}, nil

	case CategoryImage:
		output, err := x.painter.Paint(log, req.Input)
		if err != nil {
			return nil, err
		}
		return &ToolResult{
			Output:     output,
			OutputType: platform.OutputImage,
			Credits:    artificial.PainterCreditCost,
		}, nil

	case CategoryAudio:
		if tool.Name == "transcription" {
			text, err := x.whisper.Transcribe(log, req.AudioPath)
			if err != nil {
				return nil, err
			}
			return &ToolResult{
				Output:     text,
				OutputType: platform.OutputText,
				Credits:    artificial.WhisperCreditCost,
			}, nil
		}

		output, err := x.speaker.Speak(log, req.Input)
		if err != nil {
			return nil, err
		}
		return &ToolResult{
			Output:     output,
			OutputType: platform.OutputAudio,
			Credits:    artificial.SpeakerCreditCost,
		}, nil

	default:
		log.E("Tool category has no handler", tracing.ToolCategory, tool.Category)
		return nil, ErrUnknownCategory
	}
}
