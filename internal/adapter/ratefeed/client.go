package ratefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/simaogato/folio-backend/internal/httputil"
	"github.com/simaogato/folio-backend/internal/usecase/ratesync"
)

// Client reads a latest-rates JSON document of the form
// {"base":"USD","timestamp":1700000000,"rates":{"EUR":0.92,...}}
type Client struct {
	url        string
	httpClient *http.Client
	retry      httputil.RetryConfig
	logger     *zap.Logger
}

func NewClient(url string, timeout time.Duration, maxAttempts int, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		retry: httputil.RetryConfig{
			MaxAttempts: maxAttempts,
			BaseDelay:   2 * time.Second,
			MaxDelay:    10 * time.Second,
		},
		logger: logger,
	}
}

type latestResponse struct {
	Base      string                     `json:"base"`
	Timestamp int64                      `json:"timestamp"` // epoch seconds
	Rates     map[string]decimal.Decimal `json:"rates"`
}

func (c *Client) Latest(ctx context.Context) (*ratesync.Quotes, error) {
	resp, err := httputil.Do(ctx, c.httpClient, c.retry, c.logger, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("rate feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	var data latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(data.Rates) == 0 {
		return nil, fmt.Errorf("rate feed returned no rates")
	}

	quotes := &ratesync.Quotes{
		Base:  data.Base,
		Rates: data.Rates,
	}
	if data.Timestamp > 0 {
		quotes.Timestamp = data.Timestamp * 1000
	}
	return quotes, nil
}
