package config

import (
	"testing"
	"time"

	"golang-sales-analytics-service/internal/reporter"

	"github.com/shopspring/decimal"
)

func TestCreateParserConfig(t *testing.T) {
	config := CreateParserConfig()

	if config.Delimiter != "|" {
		t.Errorf("Expected pipe delimiter, got %q", config.Delimiter)
	}
	if !config.HasHeader {
		t.Error("Expected header handling enabled")
	}
	if len(config.Encodings) != 3 || config.Encodings[0] != "utf-8" {
		t.Errorf("Expected utf-8 first in encoding ladder, got %v", config.Encodings)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected parser config to validate, got %v", err)
	}
}

func TestCreateFilterOptions(t *testing.T) {
	opts, err := CreateFilterOptions("West", "100", "5000")
	if err != nil {
		t.Fatalf("Expected valid options, got %v", err)
	}

	if opts.Region != "West" {
		t.Errorf("Expected region West, got %s", opts.Region)
	}
	if opts.MinAmount == nil || !opts.MinAmount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Expected min amount 100, got %v", opts.MinAmount)
	}
	if opts.MaxAmount == nil || !opts.MaxAmount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected max amount 5000, got %v", opts.MaxAmount)
	}
}

func TestCreateFilterOptionsEmpty(t *testing.T) {
	opts, err := CreateFilterOptions("", "", "")
	if err != nil {
		t.Fatalf("Expected valid empty options, got %v", err)
	}

	if opts.Region != "" || opts.MinAmount != nil || opts.MaxAmount != nil {
		t.Error("Expected all filters disabled for empty inputs")
	}
	if opts.HasAmountFilter() {
		t.Error("Expected no amount filter for empty bounds")
	}
}

func TestCreateFilterOptionsInvalid(t *testing.T) {
	if _, err := CreateFilterOptions("", "abc", ""); err == nil {
		t.Error("Expected error for unparseable minimum amount")
	}
	if _, err := CreateFilterOptions("", "", "1,2"); err == nil {
		t.Error("Expected error for unparseable maximum amount")
	}
	if _, err := CreateFilterOptions("", "500", "100"); err == nil {
		t.Error("Expected error when minimum exceeds maximum")
	}
}

func TestCreateCatalogConfig(t *testing.T) {
	config := CreateCatalogConfig("https://example.com", 5*time.Second)

	if config.BaseURL != "https://example.com" {
		t.Errorf("Expected overridden base URL, got %s", config.BaseURL)
	}
	if config.Timeout != 5*time.Second {
		t.Errorf("Expected overridden timeout, got %s", config.Timeout)
	}

	// Empty overrides keep defaults
	config = CreateCatalogConfig("", 0)
	if config.BaseURL == "" || config.Timeout <= 0 {
		t.Error("Expected defaults for empty overrides")
	}
}

func TestCreateReportConfig(t *testing.T) {
	config := CreateReportConfig("json")
	if config.Format != reporter.FormatJSON {
		t.Errorf("Expected JSON format, got %s", config.Format)
	}

	config = CreateReportConfig("text")
	if config.Format != reporter.FormatText {
		t.Errorf("Expected text format, got %s", config.Format)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Expected report config to validate, got %v", err)
	}
}
