package artificial

import (
	"context"
	"time"

	"sakuracore/sources/configuration"
	"sakuracore/sources/features"
	"sakuracore/sources/metrics"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"
)

// Orchestrator is the single entry point for text generation. Everything
// above it sees one engine; provider identity never leaves this package.
type Orchestrator struct {
	selector *Selector
	enricher *Enricher
	features *features.FeatureManager
	metrics  *metrics.MetricsService
	config   *configuration.Config
}

func NewOrchestrator(selector *Selector, enricher *Enricher, features *features.FeatureManager, metrics *metrics.MetricsService, config *configuration.Config, sanitizer *Sanitizer) *Orchestrator {
	sanitizer.OnScrub(metrics.CountSanitizerScrub)

	return &Orchestrator{
		selector: selector,
		enricher: enricher,
		features: features,
		metrics:  metrics,
		config:   config,
	}
}

func (x *Orchestrator) Generate(log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error) {
	defer tracing.ProfilePoint(log, "Generation completed", "artificial.orchestrator.generate")()

	effective := *req

	if effective.SearchQuery != "" && x.features.IsEnabledDefault(features.FeatureSearchEnrichment, true) {
		if background := x.enricher.Enrich(log, effective.SearchQuery); background != "" {
			if effective.System != "" {
				effective.System = effective.System + "\n\n" + background
			} else {
				effective.System = background
			}
		}
	}

	candidates := x.selector.Candidates()
	if len(candidates) == 0 {
		log.E("No text providers configured")
		return nil, ErrEngineUnavailable
	}

	for attempt, generator := range candidates {
		ctx, cancel := platform.ContextTimeoutVal(context.Background(), x.config.AI.RequestTimeout)
		start := time.Now()
		result, err := generator.Invoke(ctx, log, &effective)
		cancel()

		x.metrics.ObserveAiRequest(generator.Name(), time.Since(start).Seconds())

		if err == nil {
			x.metrics.CountTokens(result.Provider, result.Tokens)
			return result, nil
		}

		log.E("Generation attempt failed", tracing.AiProvider, generator.Name(), tracing.AiAttempt, attempt+1, tracing.InnerError, err)
	}

	log.E("All providers exhausted", "candidates", len(candidates))
	return nil, ErrEngineUnavailable
}

// GenerateCode pins a low temperature and skips enrichment. Web snippets
// in a code prompt hurt more than they help.
func (x *Orchestrator) GenerateCode(log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error) {
	effective := *req
	effective.Temperature = 0.2
	effective.SearchQuery = ""
	return x.Generate(log, &effective)
}
