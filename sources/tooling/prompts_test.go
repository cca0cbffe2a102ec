package tooling

import (
	"strings"
	"testing"
)

func TestSystemPromptResolution(t *testing.T) {
	registry := NewPromptRegistry()

	tests := []struct {
		name     string
		tool     Tool
		contains string
	}{
		{
			name:     "tool override wins",
			tool:     Tool{Name: "sql-generator", Category: CategoryCode},
			contains: "database expert",
		},
		{
			name:     "category fallback",
			tool:     Tool{Name: "code-explainer", Category: CategoryCode},
			contains: "software engineer",
		},
		{
			name:     "unknown category falls back to specialized",
			tool:     Tool{Name: "mystery", Category: "mystery"},
			contains: "versatile assistant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := registry.System(tt.tool)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("System() = %q, expected to contain %q", got, tt.contains)
			}
		})
	}
}

func TestSystemPromptsNeverNameProviders(t *testing.T) {
	registry := NewPromptRegistry()
	catalog := NewCatalog()

	for _, tool := range catalog.All() {
		system := strings.ToLower(registry.System(tool))
		for _, brand := range []string{"openai", "chatgpt", "gemini", "claude", "azure"} {
			if strings.Contains(system, brand) {
				t.Errorf("System(%s) leaks %q", tool.Name, brand)
			}
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	registry := NewPromptRegistry()

	built := registry.Build(Tool{Name: "summarizer", Title: "Summarizer"}, "some long text")
	if !strings.Contains(built, "Summarize the following text") || !strings.Contains(built, "some long text") {
		t.Errorf("Build() = %q, expected summarizer framing with input", built)
	}

	generic := registry.Build(Tool{Name: "recipe-generator", Title: "Recipe Generator"}, "pasta")
	expected := "Task: Recipe Generator\n\npasta"
	if generic != expected {
		t.Errorf("Build() = %q, expected %q", generic, expected)
	}
}
