// Package reporter renders sales analysis results in human-readable
// and machine-readable formats.
//
// Supported output formats:
//   - Text: sectioned plain-text report for terminal display or a file
//   - JSON: structured data format for programmatic consumption
//
// The reporter renders what it is given and computes nothing beyond
// presentation-level derivations (date ranges, success rates, averages
// over already-aggregated figures). All analytics come in via
// ReportData.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang-sales-analytics-service/internal/analytics"
	"golang-sales-analytics-service/internal/enrichment"
	"golang-sales-analytics-service/internal/models"

	"github.com/shopspring/decimal"
)

// OutputFormat represents the supported report output formats
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	Format OutputFormat `json:"format"`

	// Section row limits for the text format
	TrendDays     int `json:"trend_days"`
	LowPerformers int `json:"low_performers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:        FormatText,
		TrendDays:     10,
		LowPerformers: 5,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.TrendDays < 1 {
		return fmt.Errorf("trend days must be at least 1, got %d", c.TrendDays)
	}
	if c.LowPerformers < 1 {
		return fmt.Errorf("low performer limit must be at least 1, got %d", c.LowPerformers)
	}
	return nil
}

// ReportData bundles everything a report renders: the filter audit
// trail, the aggregation results and the enrichment outcome.
type ReportData struct {
	Summary          *models.FilterSummary         `json:"filter_summary"`
	Analytics        *analytics.Summary            `json:"analytics"`
	Enriched         []models.EnrichedTransaction  `json:"-"`
	AvailableRegions []string                      `json:"available_regions"`
	AmountMin        decimal.Decimal               `json:"amount_min"`
	AmountMax        decimal.Decimal               `json:"amount_max"`
	HasAmountRange   bool                          `json:"has_amount_range"`
	GeneratedAt      time.Time                     `json:"generated_at"`
}

// ReportGenerator generates sales analysis reports
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a report generator with the specified
// configuration. A nil config uses defaults.
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{config: config}, nil
}

// GenerateReport renders the report data to the provided writer
func (rg *ReportGenerator) GenerateReport(data *ReportData, writer io.Writer) error {
	if data == nil {
		return fmt.Errorf("report data cannot be nil")
	}
	if data.Analytics == nil {
		return fmt.Errorf("report data is missing analytics results")
	}

	switch rg.config.Format {
	case FormatText:
		return rg.generateTextReport(data, writer)
	case FormatJSON:
		return rg.generateJSONReport(data, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) generateTextReport(data *ReportData, writer io.Writer) error {
	fmt.Fprintf(writer, "SALES ANALYSIS REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", data.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Records Analyzed: %d\n\n", data.Summary.FinalCount)

	fmt.Fprintf(writer, "=== DATA QUALITY ===\n")
	rg.printFilterSummary(data, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== OVERALL SUMMARY ===\n")
	rg.printOverallSummary(data, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== REGION PERFORMANCE ===\n")
	rg.printRegionTable(data.Analytics.Regions, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== TOP PRODUCTS BY QUANTITY ===\n")
	rg.printProductList(data.Analytics.TopProducts, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== TOP CUSTOMERS ===\n")
	rg.printCustomerList(data.Analytics.Customers, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== DAILY SALES TREND ===\n")
	rg.printDailyTrend(data.Analytics.DailyTrend, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== PEAK SALES DAY ===\n")
	rg.printPeakDay(data.Analytics.PeakDay, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== LOW PERFORMING PRODUCTS ===\n")
	rg.printLowPerformers(data.Analytics.LowPerformers, writer)
	fmt.Fprintf(writer, "\n")

	fmt.Fprintf(writer, "=== AVERAGE TRANSACTION VALUE PER REGION ===\n")
	rg.printRegionAverages(data.Analytics.Regions, writer)

	if len(data.Enriched) > 0 {
		fmt.Fprintf(writer, "\n=== ENRICHMENT SUMMARY ===\n")
		rg.printEnrichmentSummary(data.Enriched, writer)
	}

	return nil
}

func (rg *ReportGenerator) generateJSONReport(data *ReportData, writer io.Writer) error {
	output := map[string]interface{}{
		"generated_at":      data.GeneratedAt,
		"filter_summary":    data.Summary,
		"analytics":         data.Analytics,
		"available_regions": data.AvailableRegions,
	}

	if data.HasAmountRange {
		output["amount_range"] = map[string]string{
			"min": data.AmountMin.StringFixed(2),
			"max": data.AmountMax.StringFixed(2),
		}
	}

	if len(data.Enriched) > 0 {
		output["enrichment"] = map[string]interface{}{
			"total":         len(data.Enriched),
			"matched":       enrichment.MatchedCount(data.Enriched),
			"unmatched_ids": enrichment.UnmatchedProductIDs(data.Enriched),
		}
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// Section renderers for the text format

func (rg *ReportGenerator) printFilterSummary(data *ReportData, writer io.Writer) {
	s := data.Summary
	fmt.Fprintf(writer, "Total Input Records:    %d\n", s.TotalInput)
	fmt.Fprintf(writer, "Invalid Records:        %d\n", s.Invalid)
	fmt.Fprintf(writer, "Valid After Cleaning:   %d\n", s.ValidAfterCleaning)
	fmt.Fprintf(writer, "Filtered By Region:     %d\n", s.FilteredByRegion)
	fmt.Fprintf(writer, "Filtered By Amount:     %d\n", s.FilteredByAmount)
	fmt.Fprintf(writer, "Final Record Count:     %d\n", s.FinalCount)

	if len(data.AvailableRegions) > 0 {
		fmt.Fprintf(writer, "Available Regions:      %s\n", joinStrings(data.AvailableRegions))
	}
	if data.HasAmountRange {
		fmt.Fprintf(writer, "Transaction Amounts:    %s - %s\n",
			data.AmountMin.StringFixed(2), data.AmountMax.StringFixed(2))
	}
}

func (rg *ReportGenerator) printOverallSummary(data *ReportData, writer io.Writer) {
	a := data.Analytics
	fmt.Fprintf(writer, "Total Revenue:          %s\n", a.TotalRevenue.StringFixed(2))

	count := data.Summary.FinalCount
	fmt.Fprintf(writer, "Transaction Count:      %d\n", count)

	avg := decimal.Zero
	if count > 0 {
		avg = a.TotalRevenue.Div(decimal.NewFromInt(int64(count)))
	}
	fmt.Fprintf(writer, "Average Order Value:    %s\n", avg.StringFixed(2))

	if len(a.DailyTrend) > 0 {
		first := a.DailyTrend[0].Date
		last := a.DailyTrend[len(a.DailyTrend)-1].Date
		fmt.Fprintf(writer, "Date Range:             %s to %s\n", first, last)
	}
}

func (rg *ReportGenerator) printRegionTable(regions []analytics.RegionStat, writer io.Writer) {
	if len(regions) == 0 {
		fmt.Fprintf(writer, "No region data available\n")
		return
	}

	for _, region := range regions {
		fmt.Fprintf(writer, "%-15s %12s  (%s%%, %d transactions)\n",
			region.Region,
			region.TotalSales.StringFixed(2),
			region.Percentage.StringFixed(2),
			region.TransactionCount)
	}
}

func (rg *ReportGenerator) printProductList(products []analytics.ProductStat, writer io.Writer) {
	if len(products) == 0 {
		fmt.Fprintf(writer, "No product data available\n")
		return
	}

	for i, product := range products {
		fmt.Fprintf(writer, "  %d. %s: %d units, revenue %s\n",
			i+1, product.Name, product.Quantity, product.Revenue.StringFixed(2))
	}
}

func (rg *ReportGenerator) printCustomerList(customers []analytics.CustomerStat, writer io.Writer) {
	if len(customers) == 0 {
		fmt.Fprintf(writer, "No customer data available\n")
		return
	}

	limit := 5
	for i, customer := range customers {
		if i >= limit {
			fmt.Fprintf(writer, "  ... and %d more\n", len(customers)-limit)
			break
		}
		fmt.Fprintf(writer, "  %d. %s: spent %s over %d purchases (avg %s), products: %s\n",
			i+1,
			customer.CustomerID,
			customer.TotalSpent.StringFixed(2),
			customer.PurchaseCount,
			customer.AvgOrderValue.StringFixed(2),
			joinStrings(customer.Products))
	}
}

func (rg *ReportGenerator) printDailyTrend(trend []analytics.DailyStat, writer io.Writer) {
	if len(trend) == 0 {
		fmt.Fprintf(writer, "No daily data available\n")
		return
	}

	for i, day := range trend {
		if i >= rg.config.TrendDays {
			fmt.Fprintf(writer, "  ... and %d more days\n", len(trend)-rg.config.TrendDays)
			break
		}
		fmt.Fprintf(writer, "  %s: revenue %s, %d transactions, %d customers\n",
			day.Date, day.Revenue.StringFixed(2), day.TransactionCount, day.UniqueCustomers)
	}
}

func (rg *ReportGenerator) printPeakDay(peak analytics.PeakDay, writer io.Writer) {
	if peak.Date == "" {
		fmt.Fprintf(writer, "No sales data available\n")
		return
	}
	fmt.Fprintf(writer, "%s with revenue %s over %d transactions\n",
		peak.Date, peak.Revenue.StringFixed(2), peak.TransactionCount)
}

func (rg *ReportGenerator) printLowPerformers(products []analytics.ProductStat, writer io.Writer) {
	if len(products) == 0 {
		fmt.Fprintf(writer, "No low performing products\n")
		return
	}

	for i, product := range products {
		if i >= rg.config.LowPerformers {
			fmt.Fprintf(writer, "  ... and %d more\n", len(products)-rg.config.LowPerformers)
			break
		}
		fmt.Fprintf(writer, "  %d. %s: %d units\n", i+1, product.Name, product.Quantity)
	}
}

func (rg *ReportGenerator) printRegionAverages(regions []analytics.RegionStat, writer io.Writer) {
	if len(regions) == 0 {
		fmt.Fprintf(writer, "No region data available\n")
		return
	}

	for _, region := range regions {
		avg := decimal.Zero
		if region.TransactionCount > 0 {
			avg = region.TotalSales.Div(decimal.NewFromInt(int64(region.TransactionCount)))
		}
		fmt.Fprintf(writer, "%-15s %12s\n", region.Region, avg.StringFixed(2))
	}
}

func (rg *ReportGenerator) printEnrichmentSummary(enriched []models.EnrichedTransaction, writer io.Writer) {
	total := len(enriched)
	matched := enrichment.MatchedCount(enriched)

	rate := 0.0
	if total > 0 {
		rate = float64(matched) / float64(total) * 100.0
	}

	fmt.Fprintf(writer, "Matched Products:       %d/%d (%.2f%%)\n", matched, total, rate)

	unmatched := enrichment.UnmatchedProductIDs(enriched)
	if len(unmatched) > 0 {
		fmt.Fprintf(writer, "Unmatched Product IDs:  %s\n", joinStrings(unmatched))
	}
}

func joinStrings(items []string) string {
	return strings.Join(items, ", ")
}
