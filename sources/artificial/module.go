package artificial

import "go.uber.org/fx"

var Module = fx.Module(
	"artificial",
	fx.Provide(
		NewSanitizer,
		NewEnricher,
		NewAzureGenerator,
		NewNativeGenerator,
		NewGeminiGenerator,
		NewOpenAIGenerator,
		NewSelector,
		NewOrchestrator,
		NewPainter,
		NewSpeaker,
		NewWhisper,
		NewStatusService,
	),
)
