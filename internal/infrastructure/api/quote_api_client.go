// Package api internal/infrastructure/api/quote_api_client.go
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/solfx/rate-pipeline/internal/domain/entity"
	"github.com/solfx/rate-pipeline/internal/domain/service"
	"github.com/solfx/rate-pipeline/internal/infrastructure/logger"
)

var _ service.QuoteAPI = (*QuoteAPIClient)(nil)

// QuoteAPIClient fetches daily buy/sell quotes from the external quote
// service and normalizes the heterogeneous response shapes into RateRecords.
type QuoteAPIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     logger.Logger
}

// NewQuoteAPIClient creates a new quote API client. An empty token disables
// the Authorization header.
func NewQuoteAPIClient(baseURL, token string, httpClient *http.Client, log logger.Logger) *QuoteAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &QuoteAPIClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
		logger:     log,
	}
}

// FetchDailyQuote retrieves one calendar date's quote. Transport failures and
// non-success statuses never reach the caller: they are logged and recorded
// as a null-valued record for the date, so a single bad date cannot abort an
// ingestion run.
func (c *QuoteAPIClient) FetchDailyQuote(ctx context.Context, date time.Time) *entity.RateRecord {
	rec, err := c.fetch(ctx, date)
	if err != nil {
		c.logger.Warn("Quote fetch failed, recording null quote", map[string]interface{}{
			"date":  date.Format(entity.DateLayout),
			"error": err.Error(),
		})
		return entity.EmptyRateRecord(date)
	}
	return rec
}

func (c *QuoteAPIClient) fetch(ctx context.Context, date time.Time) (*entity.RateRecord, error) {
	reqURL := fmt.Sprintf("%s?date=%s", c.baseURL, url.QueryEscape(date.Format(entity.DateLayout)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Accept", "application/json")
	if c.token != "" {
		req.Header.Add("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote service returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(bodyBytes, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	buy, sell := normalizeQuote(doc)

	c.logger.Debug("Quote normalized", map[string]interface{}{
		"date":     date.Format(entity.DateLayout),
		"has_buy":  buy.Valid,
		"has_sell": sell.Valid,
	})

	return &entity.RateRecord{
		Date: date,
		Buy:  buy,
		Sell: sell,
		Raw:  json.RawMessage(bodyBytes),
	}, nil
}
