package hints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shijra-api/internal/domain"
)

// HTTPFetcher loads hints from GET /api/hints/{individualId}?treeId=.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher targets the API at baseURL. A nil client gets a 10s timeout.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

type hintsEnvelope struct {
	Success bool          `json:"success"`
	Data    []domain.Hint `json:"data"`
	Error   string        `json:"error"`
}

func (f *HTTPFetcher) FetchHints(ctx context.Context, treeID, individualID string) ([]domain.Hint, error) {
	u := fmt.Sprintf("%s/api/hints/%s?treeId=%s", f.baseURL, url.PathEscape(individualID), url.QueryEscape(treeID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch hints: %w", err)
	}
	defer resp.Body.Close()

	var env hintsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode hints (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || !env.Success {
		return nil, fmt.Errorf("fetch hints: status %d: %s", resp.StatusCode, env.Error)
	}
	return env.Data, nil
}
