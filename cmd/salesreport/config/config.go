package config

import (
	"fmt"
	"time"

	"golang-sales-analytics-service/internal/enrichment"
	"golang-sales-analytics-service/internal/parsers"
	"golang-sales-analytics-service/internal/reporter"
	"golang-sales-analytics-service/internal/validator"

	"github.com/shopspring/decimal"
)

// CreateParserConfig creates the parser configuration for the sales
// data file format: pipe-delimited, single header line, with an
// encoding fallback ladder for files that are not valid UTF-8.
func CreateParserConfig() *parsers.Config {
	return &parsers.Config{
		Delimiter: "|",
		HasHeader: true,
		Encodings: []string{"utf-8", "latin-1", "cp1252"},
	}
}

// CreateFilterOptions builds validator filter options from CLI flag
// values. Empty strings disable the corresponding filter.
func CreateFilterOptions(region, minAmount, maxAmount string) (*validator.Options, error) {
	opts := &validator.Options{Region: region}

	if minAmount != "" {
		min, err := decimal.NewFromString(minAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid minimum amount %q: %w", minAmount, err)
		}
		opts.MinAmount = &min
	}

	if maxAmount != "" {
		max, err := decimal.NewFromString(maxAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid maximum amount %q: %w", maxAmount, err)
		}
		opts.MaxAmount = &max
	}

	if opts.MinAmount != nil && opts.MaxAmount != nil && opts.MinAmount.GreaterThan(*opts.MaxAmount) {
		return nil, fmt.Errorf("minimum amount %s cannot exceed maximum amount %s",
			opts.MinAmount.String(), opts.MaxAmount.String())
	}

	return opts, nil
}

// CreateCatalogConfig creates the product catalog client configuration
// with CLI overrides applied.
func CreateCatalogConfig(baseURL string, timeout time.Duration) *enrichment.CatalogConfig {
	config := enrichment.DefaultCatalogConfig()

	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if timeout > 0 {
		config.Timeout = timeout
	}

	return config
}

// CreateReportConfig creates a report configuration for the specified
// output format.
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "text":
		config.Format = reporter.FormatText
	case "json":
		config.Format = reporter.FormatJSON
	}

	return config
}
