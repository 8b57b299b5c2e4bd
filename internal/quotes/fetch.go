package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/me/spq/pkg/model"
)

// DefaultEndpoint is the public quotes API serving the seed dataset.
const DefaultEndpoint = "https://southparkquotes.onrender.com/v1/quotes/500"

// ClientConfig holds quote API configuration.
type ClientConfig struct {
	Endpoint string
}

// DefaultClientConfig returns configuration pointing to the public API.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{Endpoint: DefaultEndpoint}
}

// apiRecord is one element of the API response array.
type apiRecord struct {
	Quote     string `json:"quote"`
	Character string `json:"character"`
}

// Client fetches the quote list over HTTP.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// NewClient creates a client targeting the configured endpoint.
func NewClient(cfg ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		client:   &http.Client{},
		logger:   logger.With("component", "quotes-api"),
	}
}

// FetchQuotes retrieves the full quote list and assigns each record an id
// of the form "<character>-<index>" from its position in the response.
// Id stability across calls therefore depends on the source returning a
// stable order. Any non-2xx status is an error.
func (c *Client) FetchQuotes(ctx context.Context) ([]model.Quote, error) {
	c.logger.Debug("fetching quotes", "endpoint", c.endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quotes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch quotes: HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var records []apiRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("unmarshal quotes: %w", err)
	}

	out := make([]model.Quote, len(records))
	for i, rec := range records {
		out[i] = model.Quote{
			ID:        fmt.Sprintf("%s-%d", rec.Character, i),
			Quote:     rec.Quote,
			Character: rec.Character,
		}
	}

	c.logger.Debug("quotes fetched", "count", len(out))
	return out, nil
}

// FetchFunc adapts the client to the store seeding contract.
func (c *Client) FetchFunc() FetchFunc {
	return c.FetchQuotes
}
