package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// TransactionRecord represents a single parsed sales transaction.
// Records are immutable once validated; LineAmount is always derived,
// never stored.
type TransactionRecord struct {
	TransactionID string          `json:"transaction_id"`
	Date          string          `json:"date"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CustomerID    string          `json:"customer_id"`
	Region        string          `json:"region"`
}

// LineAmount returns Quantity * UnitPrice for the transaction. The value
// is recomputed on every call so it can never drift from the fields.
func (t *TransactionRecord) LineAmount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// Validate applies the five business rules. All must pass for a record
// to be considered valid:
//  1. Quantity must be positive
//  2. UnitPrice must be positive
//  3. TransactionID, Date, ProductID, ProductName and Region must be present
//  4. TransactionID must start with "T"
//  5. ProductID must start with "P"; CustomerID, when present, must start
//     with "C" (an empty CustomerID is acceptable)
func (t *TransactionRecord) Validate() error {
	if t.Quantity <= 0 {
		return fmt.Errorf("quantity must be greater than zero, got %d", t.Quantity)
	}

	if !t.UnitPrice.IsPositive() {
		return fmt.Errorf("unit price must be greater than zero, got %s", t.UnitPrice.String())
	}

	required := map[string]string{
		"TransactionID": t.TransactionID,
		"Date":          t.Date,
		"ProductID":     t.ProductID,
		"ProductName":   t.ProductName,
		"Region":        t.Region,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("required field %s is empty", field)
		}
	}

	if !strings.HasPrefix(t.TransactionID, "T") {
		return fmt.Errorf("transaction ID %q must start with 'T'", t.TransactionID)
	}

	if !strings.HasPrefix(t.ProductID, "P") {
		return fmt.Errorf("product ID %q must start with 'P'", t.ProductID)
	}

	if t.CustomerID != "" && !strings.HasPrefix(t.CustomerID, "C") {
		return fmt.Errorf("customer ID %q must start with 'C'", t.CustomerID)
	}

	return nil
}

// String returns a string representation of the TransactionRecord
func (t *TransactionRecord) String() string {
	return fmt.Sprintf("TransactionRecord{ID: %s, Date: %s, Product: %s, Amount: %s, Region: %s}",
		t.TransactionID, t.Date, t.ProductID, t.LineAmount().StringFixed(2), t.Region)
}

// FilterSummary is the lineage audit trail of one validation/filter run.
// It is produced once per run and never mutated afterwards.
type FilterSummary struct {
	TotalInput         int `json:"total_input"`
	Invalid            int `json:"invalid"`
	ValidAfterCleaning int `json:"valid_after_cleaning"`
	FilteredByRegion   int `json:"filtered_by_region"`
	FilteredByAmount   int `json:"filtered_by_amount"`
	FinalCount         int `json:"final_count"`
}

// Product is one entry of the external product catalog.
type Product struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

// EnrichedTransaction is a TransactionRecord annotated with catalog
// metadata. Nil API fields mean the transaction could not be matched.
type EnrichedTransaction struct {
	TransactionRecord
	APICategory *string  `json:"api_category"`
	APIBrand    *string  `json:"api_brand"`
	APIRating   *float64 `json:"api_rating"`
	APIMatch    bool     `json:"api_match"`
}

// Field parsing helpers shared by the record parser.

// ParseQuantity parses an integer quantity from a raw field value.
// Grouping commas are stripped before conversion.
func ParseQuantity(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("quantity string cannot be empty")
	}

	q, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, err)
	}

	return q, nil
}

// ParseUnitPrice parses a decimal unit price from a raw field value.
// Grouping commas are stripped before conversion.
func ParseUnitPrice(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("unit price string cannot be empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid unit price %q: %w", s, err)
	}

	return d, nil
}

// CleanProductName trims whitespace and removes every comma from a raw
// product name. The enriched output file and the aggregation keys both
// rely on comma-free names.
func CleanProductName(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}
