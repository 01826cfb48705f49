package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/intent-network/relayer/x/proof"
)

var _ Source = (*HTTPClient)(nil)

// HTTPClient implements Source over the matching service's REST API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        zerolog.Logger
}

// NewHTTPClient constructs a matching-service client for the given base URL.
func NewHTTPClient(cfg Config, httpClient *http.Client, log zerolog.Logger) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid matcher base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.RequestTimeout}
	}
	logger := log.With().Str("component", "matcher-client").Logger()

	client := &HTTPClient{
		baseURL:    parsed,
		httpClient: httpClient,
		log:        logger,
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Dur("timeout", httpClient.Timeout).
		Msg("HTTP matcher client initialized")

	return client, nil
}

// FetchCandidates pulls the current pending proof set from the matcher.
func (c *HTTPClient) FetchCandidates(ctx context.Context) ([]*proof.Proof, error) {
	endpoint := c.buildURL("v1", "proofs", "pending")
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("prepare candidates request: %w", err)
	}
	req.Header.Set("X-Request-ID", requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("endpoint", endpoint).Str("request_id", requestID).Msg("candidates request failed")
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.log.Error().
			Int("status_code", res.StatusCode).
			Str("request_id", requestID).
			Str("response", string(msg)).
			Msg("matcher returned error response")
		return nil, fmt.Errorf("matcher returned %s: %s", res.Status, string(msg))
	}

	var payload candidatesResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode candidates response: %w", err)
	}

	c.log.Debug().
		Str("request_id", requestID).
		Int("candidates", len(payload.Proofs)).
		Msg("fetched candidate proofs")

	return payload.Proofs, nil
}

func (c *HTTPClient) buildURL(elem ...string) string {
	clone := *c.baseURL
	clone.Path = path.Join(append([]string{c.baseURL.Path}, elem...)...)
	return clone.String()
}

type candidatesResponse struct {
	Proofs []*proof.Proof `json:"proofs"`
}
