// Package api implements the external product catalog client.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

const productPath = "/products"

// maxAttempts allows exactly one retry after a transport failure. The
// enricher's negative cache handles anything beyond that.
const maxAttempts = 2

// CatalogAPIClient talks to the external product catalog over HTTP. The
// service is treated as untrusted: unexpected shapes become errors or
// absent fields, never panics.
type CatalogAPIClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        logger.Logger
}

// NewCatalogAPIClient creates a client for the catalog at baseURL. Each
// call is bounded by timeout and the client never exceeds rps requests
// per second against the shared service.
func NewCatalogAPIClient(baseURL string, timeout time.Duration, rps float64, log logger.Logger) *CatalogAPIClient {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if rps <= 0 {
		rps = 10
	}
	return &CatalogAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		log:        log,
	}
}

// productResponse mirrors the subset of the catalog payload we consume.
// Extra fields in the response are ignored; absent optional fields stay
// nil.
type productResponse struct {
	ID       json.Number `json:"id"`
	Title    *string     `json:"title"`
	Category *string     `json:"category"`
	Brand    *string     `json:"brand"`
	Rating   *float64    `json:"rating"`
}

// FetchProduct looks one product key up in the catalog. Unknown keys
// return entity.ErrProductNotFound; transport failures are retried once.
func (c *CatalogAPIClient) FetchProduct(ctx context.Context, key string) (*entity.CatalogEntry, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("catalog key must not be empty")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter interrupted: %w", err)
	}

	reqURL := fmt.Sprintf("%s%s/%s", c.baseURL, productPath, url.PathEscape(key))

	var resp *http.Response
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, lastErr = c.httpClient.Do(req)
		if lastErr == nil {
			break
		}
		if attempt < maxAttempts {
			c.log.Warn("catalog request failed, retrying", map[string]interface{}{
				"key":     key,
				"attempt": attempt,
				"error":   lastErr.Error(),
			})
		}
	}
	if lastErr != nil {
		return nil, fmt.Errorf("catalog request failed after %d attempts: %w", maxAttempts, lastErr)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("failed to close response body", map[string]interface{}{"error": err.Error()})
		}
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("key %s: %w", key, entity.ErrProductNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d for key %s", resp.StatusCode, key)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}

	var product productResponse
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("malformed catalog response for key %s: %w", key, err)
	}

	entry := &entity.CatalogEntry{
		Key:      key,
		Title:    product.Title,
		Category: product.Category,
		Brand:    product.Brand,
		Rating:   product.Rating,
	}

	c.log.Debug("catalog lookup resolved", map[string]interface{}{
		"key": key,
	})
	return entry, nil
}
