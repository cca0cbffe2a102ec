package artificial

import (
	"testing"

	"sakuracore/sources/tracing"
)

var testLog = tracing.NewConsoleLogger()

func TestSanitize(t *testing.T) {
	sanitizer := NewSanitizer(testLog)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "clean text untouched",
			input:    "The quarterly report shows steady growth.",
			expected: "The quarterly report shows steady growth.",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "ai model disclaimer",
			input:    "As an AI model, I cannot verify this claim.",
			expected: "I cannot verify this claim.",
		},
		{
			name:     "ai language model disclaimer",
			input:    "I'm an AI language model, so take this with a grain of salt.",
			expected: "so take this with a grain of salt.",
		},
		{
			name:     "bare brand token",
			input:    "ChatGPT says hello",
			expected: "says hello",
		},
		{
			name:     "brand in the middle",
			input:    "I asked Claude for help",
			expected: "I asked for help",
		},
		{
			name:     "compound brand",
			input:    "Azure OpenAI deployment responded quickly",
			expected: "deployment responded quickly",
		},
		{
			name:     "model version token",
			input:    "Built on GPT-4o technology",
			expected: "Built on technology",
		},
		{
			name:     "powered by phrase dies whole",
			input:    "Response powered by OpenAI models",
			expected: "Response",
		},
		{
			name:     "using brand phrase dies whole",
			input:    "Drafted using ChatGPT for speed.",
			expected: "Drafted.",
		},
		{
			name:     "generic creator sentence removed",
			input:    "I was made by a large AI company. Here is your article.",
			expected: "Here is your article.",
		},
		{
			name:     "search source attribution",
			input:    "According to Bing, interest rates rose last quarter.",
			expected: "interest rates rose last quarter.",
		},
		{
			name:     "search engine name",
			input:    "Bing Search ranks this result highly",
			expected: "ranks this result highly",
		},
		{
			name:     "whitespace collapse",
			input:    "first   second\t\tthird",
			expected: "first second third",
		},
		{
			name:     "newline collapse",
			input:    "first\n\n\n\nsecond",
			expected: "first\n\nsecond",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  padded  \n",
			expected: "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizer.Sanitize(tt.input)
			if got != tt.expected {
				t.Errorf("Sanitize() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	sanitizer := NewSanitizer(testLog)

	inputs := []string{
		"As an AI model, I asked Claude about Azure OpenAI and ChatGPT.",
		"According to Bing, I was trained by a research lab. Done using Gemini.",
		"Plain text stays plain.",
		"first   second\n\n\n\nthird",
	}

	for _, input := range inputs {
		once := sanitizer.Sanitize(input)
		twice := sanitizer.Sanitize(once)
		if once != twice {
			t.Errorf("Sanitize(Sanitize(%q)) = %q, expected %q", input, twice, once)
		}
	}
}

func TestSanitizeScrubCallback(t *testing.T) {
	sanitizer := NewSanitizer(testLog)

	scrubs := 0
	sanitizer.OnScrub(func() { scrubs++ })

	sanitizer.Sanitize("Nothing to remove here.")
	if scrubs != 0 {
		t.Errorf("scrubs = %d after clean text, expected 0", scrubs)
	}

	sanitizer.Sanitize("ChatGPT wrote this.")
	if scrubs != 1 {
		t.Errorf("scrubs = %d after dirty text, expected 1", scrubs)
	}
}
