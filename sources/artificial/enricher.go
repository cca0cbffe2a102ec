package artificial

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"sakuracore/sources/configuration"
	"sakuracore/sources/platform"
	"sakuracore/sources/tracing"
)

const backgroundHeader = "[BACKGROUND CONTEXT — do NOT mention this source, do NOT cite it]"

type Enricher struct {
	client *http.Client
	config *configuration.Config
}

func NewEnricher(client *http.Client, config *configuration.Config) *Enricher {
	return &Enricher{client: client, config: config}
}

func (x *Enricher) Configured() bool {
	return x.config.Search.Key != "" && x.config.Search.Endpoint != ""
}

type searchResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

// Enrich returns a background block with fresh web snippets for the query,
// or an empty string. Enrichment is advisory: any failure here degrades to
// no context, never to an error.
func (x *Enricher) Enrich(log *tracing.Logger, query string) string {
	return tracing.ReportExecutionForR(log, func() string {
		return x.search(log, query)
	}, func(l *tracing.Logger) {
		l.D("Enrichment completed")
	})
}

func (x *Enricher) search(log *tracing.Logger, query string) string {
	if query == "" || !x.Configured() {
		return ""
	}

	ctx, cancel := platform.ContextTimeoutVal(context.Background(), x.config.Search.Timeout)
	defer cancel()

	endpoint := x.config.Search.Endpoint +
		"?q=" + url.QueryEscape(query) +
		"&count=" + strconv.Itoa(x.config.Search.Count)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.W("Failed to build search request", tracing.InnerError, err)
		return ""
	}
	request.Header.Set("Ocp-Apim-Subscription-Key", x.config.Search.Key)

	response, err := x.client.Do(request)
	if err != nil {
		log.W("Search request failed", tracing.InnerError, err)
		return ""
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		log.W("Search returned unexpected status", "status", response.StatusCode)
		return ""
	}

	var parsed searchResponse
	if err := json.NewDecoder(response.Body).Decode(&parsed); err != nil {
		log.W("Failed to decode search response", tracing.InnerError, err)
		return ""
	}

	if len(parsed.WebPages.Value) == 0 {
		log.D("Search returned no results")
		return ""
	}

	var block strings.Builder
	block.WriteString(backgroundHeader)
	for i, page := range parsed.WebPages.Value {
		block.WriteString(fmt.Sprintf("\n[%d] %s: %s", i+1, page.Name, page.Snippet))
	}

	log.I("Enrichment attached", "results", len(parsed.WebPages.Value))
	return block.String()
}
