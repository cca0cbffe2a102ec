package artificial

import (
	"sync/atomic"

	"sakuracore/sources/configuration"
)

const (
	SelectorModeAuto       = "auto"
	SelectorModeRoundRobin = "both"
)

// autoOrder is the fallback ladder. Cheap and fast first.
var autoOrder = []string{ProviderAzure, ProviderNative, ProviderGemini, ProviderOpenAI}

type Selector struct {
	config     *configuration.Config
	generators map[string]Generator
	counter    atomic.Uint64
}

func NewSelector(config *configuration.Config, azure *AzureGenerator, native *NativeGenerator, gemini *GeminiGenerator, openai *OpenAIGenerator) *Selector {
	return &Selector{
		config: config,
		generators: map[string]Generator{
			ProviderAzure:  azure,
			ProviderNative: native,
			ProviderGemini: gemini,
			ProviderOpenAI: openai,
		},
	}
}

// Available returns the configured generators in ladder order.
func (x *Selector) Available() []Generator {
	available := make([]Generator, 0, len(autoOrder))
	for _, name := range autoOrder {
		if g := x.generators[name]; g != nil && g.Configured() {
			available = append(available, g)
		}
	}
	return available
}

// Candidates returns generators in invocation order for the current mode.
// The first element is the selected primary, the rest is the fallback tail.
func (x *Selector) Candidates() []Generator {
	available := x.Available()
	if len(available) == 0 {
		return nil
	}

	switch x.config.AI.Provider {
	case SelectorModeAuto, "":
		return available

	case SelectorModeRoundRobin:
		offset := int(x.counter.Add(1)-1) % len(available)
		ordered := make([]Generator, 0, len(available))
		ordered = append(ordered, available[offset])
		for i, g := range available {
			if i != offset {
				ordered = append(ordered, g)
			}
		}
		return ordered

	default:
		fixed := x.generators[x.config.AI.Provider]
		if fixed == nil || !fixed.Configured() {
			return available
		}

		ordered := make([]Generator, 0, len(available))
		ordered = append(ordered, fixed)
		for _, g := range available {
			if g.Name() != fixed.Name() {
				ordered = append(ordered, g)
			}
		}
		return ordered
	}
}
