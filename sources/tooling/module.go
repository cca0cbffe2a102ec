package tooling

import "go.uber.org/fx"

var Module = fx.Module("tooling",
	fx.Provide(
		NewCatalog,
		NewPromptRegistry,
		NewRouter,
	),
)
