package oddsapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/XavierBriggs/fortuna/services/odds-scanner/internal/retry"
	"github.com/XavierBriggs/fortuna/services/odds-scanner/pkg/contracts"
)

const (
	DefaultBaseURL = "https://api.the-odds-api.com/v4"

	DefaultMarkets    = "h2h,spreads,totals"
	DefaultRegions    = "us"
	DefaultOddsFormat = "american"

	maxBodyBytes = 32 << 20
)

// APIError is returned when The Odds API answers with a non-2xx status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Odds API error %d", e.StatusCode)
}

// Retryable reports whether the request may succeed if repeated
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client handles The Odds API requests
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      *retry.RetryPolicy
	userAgent  string
}

// NewClient creates a new Odds API client
func NewClient(baseURL, apiKey string, timeout time.Duration, policy *retry.RetryPolicy) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if policy == nil {
		policy = retry.NewRetryPolicy(1, 0)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry:     policy,
		userAgent: "odds-scanner/1.0",
	}
}

// NormalizeQuery fills in the default markets, regions and odds format.
func NormalizeQuery(q contracts.OddsQuery) contracts.OddsQuery {
	if q.Markets == "" {
		q.Markets = DefaultMarkets
	}
	if q.Regions == "" {
		q.Regions = DefaultRegions
	}
	if q.OddsFormat != "american" && q.OddsFormat != "decimal" {
		q.OddsFormat = DefaultOddsFormat
	}
	return q
}

// FetchOdds fetches the odds document for one sport
func (c *Client) FetchOdds(ctx context.Context, query contracts.OddsQuery) ([]byte, error) {
	if query.Sport == "" {
		return nil, fmt.Errorf("missing required param: sport")
	}
	query = NormalizeQuery(query)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("markets", query.Markets)
	params.Set("regions", query.Regions)
	params.Set("oddsFormat", query.OddsFormat)

	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, url.PathEscape(query.Sport), params.Encode())

	var body []byte
	err := c.retry.Execute(ctx, func(ctx context.Context) error {
		data, err := c.fetch(ctx, endpoint)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && !apiErr.Retryable() {
				return retry.Permanent(err)
			}
			if ctx.Err() != nil {
				return retry.Permanent(err)
			}
			log.Warn().Err(err).Str("sport", query.Sport).Msg("odds fetch failed")
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}

	return body, nil
}

// fetch makes one HTTP GET request and returns the raw body
func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		log.Debug().Str("remaining", remaining).Str("used", resp.Header.Get("x-requests-used")).Msg("odds API quota")
	}

	return body, nil
}
