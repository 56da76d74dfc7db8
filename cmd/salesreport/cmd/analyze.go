package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang-sales-analytics-service/cmd/salesreport/config"
	"golang-sales-analytics-service/internal/analytics"
	"golang-sales-analytics-service/internal/enrichment"
	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/internal/parsers"
	"golang-sales-analytics-service/internal/reporter"
	"golang-sales-analytics-service/internal/validator"
	"golang-sales-analytics-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the analyze command
var (
	inputFile      string
	regionFilter   string
	minAmount      string
	maxAmount      string
	topN           int
	lowThreshold   int
	catalogURL     string
	catalogTimeout time.Duration
	enrichedOut    string
	reportOut      string
	outputFormat   string
	skipEnrichment bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a pipe-delimited sales transaction file",
	Long: `Analyze reads a pipe-delimited sales transaction file, validates and
optionally filters the records, computes sales analytics, enriches the
transactions from the product catalog API, and writes the enriched data
file and the analysis report.

Malformed lines are dropped silently and counted. Records failing
validation rules are excluded from all analytics. A catalog fetch
failure is never fatal; transactions are kept unenriched.

Examples:
  # Basic analysis
  salesreport analyze --input data/sales_data.txt

  # Filter to one region and an amount range
  salesreport analyze --input data/sales_data.txt \
    --region West --min-amount 100 --max-amount 5000

  # JSON report to a file, no catalog enrichment
  salesreport analyze --input data/sales_data.txt \
    --output-format json --report-out output/report.json --skip-enrichment`,

	PreRunE: validateAnalyzeFlags,
	RunE:    runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Required flags
	analyzeCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path to pipe-delimited sales data file (required)")

	// Filter flags
	analyzeCmd.Flags().StringVarP(&regionFilter, "region", "r", "", "keep only transactions from this region")
	analyzeCmd.Flags().StringVar(&minAmount, "min-amount", "", "keep only transactions with amount >= this value")
	analyzeCmd.Flags().StringVar(&maxAmount, "max-amount", "", "keep only transactions with amount <= this value")

	// Analytics flags
	analyzeCmd.Flags().IntVar(&topN, "top-n", analytics.DefaultTopN, "number of top products to report")
	analyzeCmd.Flags().IntVar(&lowThreshold, "low-threshold", analytics.DefaultLowThreshold, "quantity threshold for low performing products")

	// Enrichment flags
	analyzeCmd.Flags().StringVar(&catalogURL, "catalog-url", enrichment.DefaultCatalogURL, "product catalog API base URL")
	analyzeCmd.Flags().DurationVar(&catalogTimeout, "catalog-timeout", enrichment.DefaultTimeout, "timeout for the catalog fetch")
	analyzeCmd.Flags().BoolVar(&skipEnrichment, "skip-enrichment", false, "skip the product catalog enrichment step")

	// Output flags
	analyzeCmd.Flags().StringVar(&enrichedOut, "enriched-out", "data/enriched_sales_data.txt", "path for the enriched data file")
	analyzeCmd.Flags().StringVar(&reportOut, "report-out", "", "path for the report file (default: stdout)")
	analyzeCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "text", "report format: text, json")

	// Mark required flags
	analyzeCmd.MarkFlagRequired("input")

	// Bind flags to viper
	viper.BindPFlag("input", analyzeCmd.Flags().Lookup("input"))
	viper.BindPFlag("region", analyzeCmd.Flags().Lookup("region"))
	viper.BindPFlag("min-amount", analyzeCmd.Flags().Lookup("min-amount"))
	viper.BindPFlag("max-amount", analyzeCmd.Flags().Lookup("max-amount"))
	viper.BindPFlag("top-n", analyzeCmd.Flags().Lookup("top-n"))
	viper.BindPFlag("low-threshold", analyzeCmd.Flags().Lookup("low-threshold"))
	viper.BindPFlag("catalog-url", analyzeCmd.Flags().Lookup("catalog-url"))
	viper.BindPFlag("catalog-timeout", analyzeCmd.Flags().Lookup("catalog-timeout"))
	viper.BindPFlag("skip-enrichment", analyzeCmd.Flags().Lookup("skip-enrichment"))
	viper.BindPFlag("enriched-out", analyzeCmd.Flags().Lookup("enriched-out"))
	viper.BindPFlag("report-out", analyzeCmd.Flags().Lookup("report-out"))
	viper.BindPFlag("output-format", analyzeCmd.Flags().Lookup("output-format"))
}

func validateAnalyzeFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	inputFile = viper.GetString("input")
	regionFilter = viper.GetString("region")
	minAmount = viper.GetString("min-amount")
	maxAmount = viper.GetString("max-amount")
	topN = viper.GetInt("top-n")
	lowThreshold = viper.GetInt("low-threshold")
	catalogURL = viper.GetString("catalog-url")
	catalogTimeout = viper.GetDuration("catalog-timeout")
	skipEnrichment = viper.GetBool("skip-enrichment")
	enrichedOut = viper.GetString("enriched-out")
	reportOut = viper.GetString("report-out")
	outputFormat = viper.GetString("output-format")

	if inputFile == "" {
		return fmt.Errorf("input file is required")
	}

	// Validate amount filter values parse and form a sane range
	if _, err := config.CreateFilterOptions(regionFilter, minAmount, maxAmount); err != nil {
		return err
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[outputFormat] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: text, json", outputFormat)
	}

	if topN < 1 {
		return fmt.Errorf("top-n must be at least 1")
	}
	if lowThreshold < 1 {
		return fmt.Errorf("low-threshold must be at least 1")
	}
	if !skipEnrichment {
		if catalogURL == "" {
			return fmt.Errorf("catalog-url cannot be empty")
		}
		if catalogTimeout <= 0 {
			return fmt.Errorf("catalog-timeout must be positive")
		}
	}

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	log := logger.GetGlobalLogger().WithComponent("analyze")

	if verbose {
		if debugLogger, lerr := logger.NewLogger(logger.DebugConfig()); lerr == nil {
			logger.SetGlobalLogger(debugLogger)
			log = logger.GetGlobalLogger().WithComponent("analyze")
		}
	}

	log.WithFields(logger.Fields{
		"input":  inputFile,
		"format": outputFormat,
	}).Info("Starting sales analysis")

	// Stage 1: load and decode the raw file
	loader, err := parsers.NewLoader(config.CreateParserConfig())
	if err != nil {
		return err
	}
	lines, err := loader.ReadSalesData(inputFile)
	if err != nil {
		return err
	}

	// Stage 2: parse lines into records, dropping malformed ones
	recordParser, err := parsers.NewRecordParser(config.CreateParserConfig())
	if err != nil {
		return err
	}
	records, parseStats := recordParser.ParseRecords(lines)
	log.WithFields(logger.Fields{
		"parsed":  parseStats.RecordsParsed,
		"dropped": parseStats.Dropped(),
	}).Info("Parsing complete")

	// Capture the full value space before filtering narrows it
	availableRegions := validator.Regions(records)
	amountMin, amountMax, hasAmountRange := validator.AmountRange(records)

	// Stage 3: validate and filter
	filterOpts, err := config.CreateFilterOptions(regionFilter, minAmount, maxAmount)
	if err != nil {
		return err
	}
	result := validator.ValidateAndFilter(records, *filterOpts)

	// Stage 4: run the analytics engine
	summary := analytics.RunAll(result.Records, topN, lowThreshold)
	log.WithField("total_revenue", summary.TotalRevenue.StringFixed(2)).Info("Analytics complete")

	// Stage 5: catalog enrichment, degrading to unenriched on failure
	var enriched []models.EnrichedTransaction
	if skipEnrichment {
		log.Info("Skipping catalog enrichment")
		enriched = enrichment.EnrichTransactions(result.Records, nil)
	} else {
		enriched = enrichTransactions(ctx, result.Records, log)
	}

	// Stage 6: write the enriched data file
	if err := enrichment.WriteEnrichedFile(enrichedOut, enriched); err != nil {
		return err
	}

	// Stage 7: render the report
	data := &reporter.ReportData{
		Summary:          &result.Summary,
		Analytics:        summary,
		Enriched:         enriched,
		AvailableRegions: availableRegions,
		AmountMin:        amountMin,
		AmountMax:        amountMax,
		HasAmountRange:   hasAmountRange,
		GeneratedAt:      time.Now(),
	}

	generator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return err
	}

	output := os.Stdout
	if reportOut != "" {
		output, err = os.Create(reportOut)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer output.Close()
	}

	if err := generator.GenerateReport(data, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	log.WithFields(logger.Fields{
		"records":  result.Summary.FinalCount,
		"enriched": enrichment.MatchedCount(enriched),
	}).Info("Sales analysis complete")

	return nil
}

// enrichTransactions fetches the product catalog and annotates the
// records. Any fetch failure is logged and treated as an empty catalog.
func enrichTransactions(ctx context.Context, records []models.TransactionRecord, log logger.Logger) []models.EnrichedTransaction {
	catalogConfig := config.CreateCatalogConfig(catalogURL, catalogTimeout)
	client := enrichment.NewClient(catalogConfig)

	fetchCtx, cancel := context.WithTimeout(ctx, catalogConfig.Timeout)
	defer cancel()

	products, err := client.FetchProducts(fetchCtx)
	if err != nil {
		log.WithError(err).Warn("Catalog fetch failed, continuing without enrichment")
		products = nil
	}

	return enrichment.EnrichTransactions(records, enrichment.BuildProductMapping(products))
}
