package artificial

import (
	"context"
	"testing"

	"sakuracore/sources/configuration"
	"sakuracore/sources/tracing"
)

type stubGenerator struct {
	name       string
	configured bool
	result     *GenerationResult
	err        error
	invoked    int
	lastReq    *GenerationRequest
}

func (g *stubGenerator) Name() string     { return g.name }
func (g *stubGenerator) Configured() bool { return g.configured }

func (g *stubGenerator) Invoke(ctx context.Context, log *tracing.Logger, req *GenerationRequest) (*GenerationResult, error) {
	g.invoked++
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func newTestSelector(provider string, generators map[string]Generator) *Selector {
	return &Selector{
		config:     &configuration.Config{AI: configuration.AIConfig{Provider: provider}},
		generators: generators,
	}
}

func names(generators []Generator) []string {
	out := make([]string, 0, len(generators))
	for _, g := range generators {
		out = append(out, g.Name())
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fullSet(configured ...string) map[string]Generator {
	on := make(map[string]bool, len(configured))
	for _, name := range configured {
		on[name] = true
	}

	set := make(map[string]Generator, len(autoOrder))
	for _, name := range autoOrder {
		set[name] = &stubGenerator{name: name, configured: on[name]}
	}
	return set
}

func TestCandidatesAutoOrder(t *testing.T) {
	tests := []struct {
		name       string
		provider   string
		configured []string
		expected   []string
	}{
		{
			name:       "all configured follow the ladder",
			provider:   SelectorModeAuto,
			configured: []string{ProviderAzure, ProviderNative, ProviderGemini, ProviderOpenAI},
			expected:   []string{ProviderAzure, ProviderNative, ProviderGemini, ProviderOpenAI},
		},
		{
			name:       "empty provider behaves as auto",
			provider:   "",
			configured: []string{ProviderGemini, ProviderAzure},
			expected:   []string{ProviderAzure, ProviderGemini},
		},
		{
			name:       "unconfigured providers skipped",
			provider:   SelectorModeAuto,
			configured: []string{ProviderOpenAI},
			expected:   []string{ProviderOpenAI},
		},
		{
			name:       "fixed provider leads, rest is fallback tail",
			provider:   ProviderGemini,
			configured: []string{ProviderAzure, ProviderNative, ProviderGemini},
			expected:   []string{ProviderGemini, ProviderAzure, ProviderNative},
		},
		{
			name:       "fixed but unconfigured falls back to ladder",
			provider:   ProviderGemini,
			configured: []string{ProviderAzure, ProviderNative},
			expected:   []string{ProviderAzure, ProviderNative},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selector := newTestSelector(tt.provider, fullSet(tt.configured...))
			got := names(selector.Candidates())
			if !equalNames(got, tt.expected) {
				t.Errorf("Candidates() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestCandidatesRoundRobin(t *testing.T) {
	selector := newTestSelector(SelectorModeRoundRobin, fullSet(ProviderAzure, ProviderNative))

	first := names(selector.Candidates())
	second := names(selector.Candidates())
	third := names(selector.Candidates())

	if !equalNames(first, []string{ProviderAzure, ProviderNative}) {
		t.Errorf("first Candidates() = %v, expected azure first", first)
	}
	if !equalNames(second, []string{ProviderNative, ProviderAzure}) {
		t.Errorf("second Candidates() = %v, expected native first", second)
	}
	if !equalNames(third, first) {
		t.Errorf("third Candidates() = %v, expected rotation back to %v", third, first)
	}
}

func TestCandidatesNoneConfigured(t *testing.T) {
	selector := newTestSelector(SelectorModeAuto, fullSet())

	if got := selector.Candidates(); got != nil {
		t.Errorf("Candidates() = %v, expected nil", names(got))
	}
}
