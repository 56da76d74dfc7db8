// Package validator classifies parsed transaction records against the
// business rules and applies the optional narrowing filters.
//
// Validation and filtering are separate stages with a fixed order:
// records are first partitioned into valid and invalid under five
// conjunctive rules, then the valid set is narrowed by the region filter
// and finally by the amount-range filter. Every stage's removal count is
// tracked in the FilterSummary so the lineage of a run can be audited:
// valid_after_cleaning + invalid always equals total_input, while
// final_count only accounts for records surviving the filters.
package validator

import (
	"sort"

	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// Options holds the optional user-supplied filters. A nil bound or an
// empty region disables that filter.
type Options struct {
	Region    string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// HasAmountFilter reports whether at least one amount bound is set
func (o *Options) HasAmountFilter() bool {
	return o.MinAmount != nil || o.MaxAmount != nil
}

// Result carries the outcome of one validation/filter run
type Result struct {
	Records      []models.TransactionRecord
	InvalidCount int
	Summary      models.FilterSummary
}

// ValidateAndFilter partitions records under the business rules, then
// applies the region filter followed by the amount-range filter. The
// returned records are a fresh slice; the input is never mutated.
func ValidateAndFilter(records []models.TransactionRecord, opts Options) *Result {
	log := logger.GetGlobalLogger().WithComponent("validator")

	valid := make([]models.TransactionRecord, 0, len(records))
	invalid := 0

	for _, record := range records {
		if err := record.Validate(); err != nil {
			log.WithError(err).WithField("transaction_id", record.TransactionID).Debug("Record failed validation")
			invalid++
			continue
		}
		valid = append(valid, record)
	}

	validAfterCleaning := len(valid)

	filtered := valid
	filteredByRegion := 0
	if opts.Region != "" {
		before := len(filtered)
		filtered = FilterByRegion(filtered, opts.Region)
		filteredByRegion = before - len(filtered)
	}

	filteredByAmount := 0
	if opts.HasAmountFilter() {
		before := len(filtered)
		filtered = FilterByAmount(filtered, opts.MinAmount, opts.MaxAmount)
		filteredByAmount = before - len(filtered)
	}

	summary := models.FilterSummary{
		TotalInput:         len(records),
		Invalid:            invalid,
		ValidAfterCleaning: validAfterCleaning,
		FilteredByRegion:   filteredByRegion,
		FilteredByAmount:   filteredByAmount,
		FinalCount:         len(filtered),
	}

	log.WithFields(logger.Fields{
		"total_input":          summary.TotalInput,
		"invalid":              summary.Invalid,
		"valid_after_cleaning": summary.ValidAfterCleaning,
		"filtered_by_region":   summary.FilteredByRegion,
		"filtered_by_amount":   summary.FilteredByAmount,
		"final_count":          summary.FinalCount,
	}).Info("Validation and filtering completed")

	return &Result{
		Records:      filtered,
		InvalidCount: invalid,
		Summary:      summary,
	}
}

// FilterByRegion keeps only records whose Region matches exactly.
// Narrowing only: applying the same filter to its own output is a no-op.
func FilterByRegion(records []models.TransactionRecord, region string) []models.TransactionRecord {
	out := make([]models.TransactionRecord, 0, len(records))
	for _, record := range records {
		if record.Region == region {
			out = append(out, record)
		}
	}
	return out
}

// FilterByAmount keeps only records whose LineAmount lies within
// [min, max]. Either bound may be nil, disabling that side of the range.
func FilterByAmount(records []models.TransactionRecord, min, max *decimal.Decimal) []models.TransactionRecord {
	out := make([]models.TransactionRecord, 0, len(records))
	for _, record := range records {
		amount := record.LineAmount()
		if min != nil && amount.LessThan(*min) {
			continue
		}
		if max != nil && amount.GreaterThan(*max) {
			continue
		}
		out = append(out, record)
	}
	return out
}

// Regions returns the distinct regions present in records, sorted
// alphabetically. Used by the report renderer's filter-options section.
func Regions(records []models.TransactionRecord) []string {
	seen := make(map[string]bool)
	var regions []string
	for _, record := range records {
		if record.Region == "" || seen[record.Region] {
			continue
		}
		seen[record.Region] = true
		regions = append(regions, record.Region)
	}
	sort.Strings(regions)
	return regions
}

// AmountRange returns the minimum and maximum LineAmount across records.
// ok is false when records is empty.
func AmountRange(records []models.TransactionRecord) (min, max decimal.Decimal, ok bool) {
	if len(records) == 0 {
		return decimal.Zero, decimal.Zero, false
	}

	min = records[0].LineAmount()
	max = min
	for _, record := range records[1:] {
		amount := record.LineAmount()
		if amount.LessThan(min) {
			min = amount
		}
		if amount.GreaterThan(max) {
			max = amount
		}
	}
	return min, max, true
}
