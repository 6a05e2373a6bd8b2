package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/m4i-labs/provcrate/internal/ctxlog"
)

// FetchContext downloads a JSON-LD context document and returns its
// @context mapping. It is called once per run and never retried: on any
// failure the error is logged and an empty mapping returned, so a run
// degrades to the base context instead of aborting.
func FetchContext(ctx context.Context, client *http.Client, url string) map[string]any {
	logger := ctxlog.FromContext(ctx)

	terms, err := fetchContext(ctx, client, url)
	if err != nil {
		logger.Warn("vocabulary context unavailable, continuing with base terms", "url", url, "error", err)
		return map[string]any{}
	}
	logger.Debug("fetched vocabulary context", "url", url, "terms", len(terms))
	return terms
}

func fetchContext(ctx context.Context, client *http.Client, url string) (map[string]any, error) {
	if url == "" {
		return nil, fmt.Errorf("no context URL configured")
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/ld+json, application/json")
	req.Header.Set("User-Agent", "provcrate")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching context: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("context server returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var doc struct {
		Context map[string]any `json:"@context"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parsing context JSON: %w", err)
	}
	if doc.Context == nil {
		return nil, fmt.Errorf("document has no @context object")
	}
	return doc.Context, nil
}

// MergeContext layers the fetched terms over the base context and pins the
// run namespace and unit prefixes.
func MergeContext(fetched map[string]any, localNS string) map[string]any {
	merged := BaseContext()
	for k, v := range fetched {
		merged[k] = v
	}
	merged[PrefixLocal] = localNS
	merged[PrefixUnits] = Units
	return merged
}
