package artificial

import (
	"regexp"
	"strings"

	"sakuracore/sources/tracing"
)

// Every provider response passes through here before leaving the engine.
// Patterns run in declaration order, phrase patterns before bare brand
// tokens so that "powered by OpenAI" dies whole instead of leaving
// "powered by" behind.
var scrubPatterns = []string{
	`(?i)as an ai (language )?model[,:]?\s*`,
	`(?i)i am an ai (language )?model[,:]?\s*`,
	`(?i)i'm an ai (language )?model[,:]?\s*`,
	`(?i)\bi was (made|created|developed|trained|built) by[^.!?\n]*[.!?]?\s*`,
	`(?i)according to (bing( search)?|the search results)[,:]?\s*`,
	`(?i)powered by (openai|chatgpt|gpt[\w.-]*|gemini|google|microsoft|copilot|azure|anthropic|claude|openrouter)[^.,!?\n]*`,
	`(?i)\s*\busing (openai|chatgpt|gpt[\w.-]*|gemini|bing|google|microsoft|copilot|azure|anthropic|claude|openrouter)\b[^.,!?\n]*`,
	`(?i)(developed|created|trained|built) by (openai|google|microsoft|anthropic)[^.,!?\n]*`,
	`(?i)\bazure\s+openai\b`,
	`(?i)\b(microsoft|github)\s+copilot\b`,
	`(?i)\bgoogle\s+gemini\b`,
	`(?i)\bbing\s+search\b`,
	`(?i)\bchatgpt\b`,
	`(?i)\bgpt-[0-9][\w.-]*\b`,
	`(?i)\bopenai\b`,
	`(?i)\bcopilot\b`,
	`(?i)\bgemini\b`,
	`(?i)\bbing\b`,
	`(?i)\bopenrouter\b`,
	`(?i)\banthropic\b`,
	`(?i)\bclaude\b`,
}

type Sanitizer struct {
	patterns []*regexp.Regexp
	spaces   *regexp.Regexp
	newlines *regexp.Regexp
	scrubbed func()
}

func NewSanitizer(log *tracing.Logger) *Sanitizer {
	patterns := make([]*regexp.Regexp, 0, len(scrubPatterns))
	for _, p := range scrubPatterns {
		patterns = append(patterns, regexp.MustCompile(p))
	}

	log.I("Sanitizer initialized", "patterns", len(patterns))

	return &Sanitizer{
		patterns: patterns,
		spaces:   regexp.MustCompile(`[ \t]{2,}`),
		newlines: regexp.MustCompile(`\n{3,}`),
	}
}

// OnScrub registers a callback fired once per sanitized text that actually
// had something removed.
func (x *Sanitizer) OnScrub(fn func()) {
	x.scrubbed = fn
}

func (x *Sanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}

	cleaned := text
	for _, pattern := range x.patterns {
		cleaned = pattern.ReplaceAllString(cleaned, "")
	}

	if cleaned != text && x.scrubbed != nil {
		x.scrubbed()
	}

	cleaned = x.spaces.ReplaceAllString(cleaned, " ")
	cleaned = x.newlines.ReplaceAllString(cleaned, "\n\n")

	return strings.TrimSpace(cleaned)
}
