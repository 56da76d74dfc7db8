// Package enrichment augments validated transactions with product
// catalog data fetched from an external HTTP API.
//
// Catalog access is best effort. The client makes a single attempt
// within its configured timeout and reports failure as an error; the
// caller decides whether to degrade to unenriched output. Matching
// between transactions and catalog products goes through a derived
// numeric key, see DeriveProductKey.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang-sales-analytics-service/internal/models"
	pkgerrors "golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"
)

// DefaultCatalogURL is the product catalog endpoint used when no
// override is configured.
const DefaultCatalogURL = "https://dummyjson.com"

// DefaultTimeout bounds the single catalog fetch attempt
const DefaultTimeout = 10 * time.Second

// DefaultLimit is the page size requested from the catalog API
const DefaultLimit = 100

// CatalogConfig holds settings for the product catalog client
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
	Limit   int
}

// DefaultCatalogConfig returns the standard catalog client settings
func DefaultCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		BaseURL: DefaultCatalogURL,
		Timeout: DefaultTimeout,
		Limit:   DefaultLimit,
	}
}

// Validate checks the catalog configuration for invalid values
func (c *CatalogConfig) Validate() error {
	if c.BaseURL == "" {
		return pkgerrors.ConfigurationError(pkgerrors.CodeMissingConfig, "catalog_url", c.BaseURL,
			fmt.Errorf("catalog base URL cannot be empty"))
	}
	if c.Timeout <= 0 {
		return pkgerrors.ConfigurationError(pkgerrors.CodeInvalidConfig, "catalog_timeout", c.Timeout,
			fmt.Errorf("timeout must be positive"))
	}
	if c.Limit <= 0 {
		return pkgerrors.ConfigurationError(pkgerrors.CodeInvalidConfig, "catalog_limit", c.Limit,
			fmt.Errorf("limit must be positive"))
	}
	return nil
}

// Client fetches product data from the catalog API
type Client struct {
	config     *CatalogConfig
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a catalog client with the given configuration. A
// nil config uses defaults.
func NewClient(config *CatalogConfig) *Client {
	if config == nil {
		config = DefaultCatalogConfig()
	}
	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     logger.GetGlobalLogger().WithComponent("catalog_client"),
	}
}

// catalogResponse mirrors the product listing payload of the API
type catalogResponse struct {
	Products []catalogProduct `json:"products"`
}

type catalogProduct struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

// FetchProducts retrieves the product listing in a single request.
// There are no retries; any transport, status or decode failure is
// returned as a network error and the caller chooses how to proceed.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	endpoint := fmt.Sprintf("%s/products?limit=%d", c.config.BaseURL, c.config.Limit)

	c.logger.WithFields(logger.Fields{
		"endpoint": endpoint,
		"timeout":  c.config.Timeout.String(),
	}).Debug("Fetching product catalog")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.NetworkError(pkgerrors.CodeConnectionFailed, endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, pkgerrors.NetworkError(pkgerrors.CodeTimeout, endpoint, err)
		}
		return nil, pkgerrors.NetworkError(pkgerrors.CodeConnectionFailed, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, pkgerrors.NetworkError(pkgerrors.CodeBadResponse, endpoint,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, pkgerrors.NetworkError(pkgerrors.CodeBadResponse, endpoint, err)
	}

	products := make([]models.Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, models.Product{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Brand:    p.Brand,
			Price:    p.Price,
			Rating:   p.Rating,
		})
	}

	c.logger.WithFields(logger.Fields{
		"products": len(products),
		"duration": time.Since(start).String(),
	}).Info("Product catalog fetched")

	return products, nil
}
