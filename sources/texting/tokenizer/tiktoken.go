package tokenizer

import (
	"sakuracore/sources/tracing"

	"github.com/pkoukk/tiktoken-go"
)

var tkm, _ = tiktoken.GetEncoding("o200k_base")

// Tokens counts tokens for text. Used when a provider response carries no
// usage block.
func Tokens(log *tracing.Logger, text string) int {
	return tracing.ReportExecutionForRIn(log, func() int {
		if tkm == nil {
			// Rough chars-per-token estimate when the encoding failed to load.
			return len(text)/4 + 1
		}
		return len(tkm.Encode(text, nil, nil))
	}, func(l *tracing.Logger, count int) {
		l.D("Tokens counted", tracing.AiTokens, count)
	})
}
