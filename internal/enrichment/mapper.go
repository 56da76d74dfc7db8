package enrichment

import (
	"sort"
	"strconv"

	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/logger"
)

// DeriveProductKey converts a transaction ProductID into the numeric
// key used for catalog lookup. Leading "P" or "p" runes are stripped,
// remaining digits are collected, and the key is the integer value of
// the digits after the first one. At least two digits must remain:
// "P102" yields 2, "P172" yields 72, "P5" yields no key.
func DeriveProductKey(productID string) (int, bool) {
	var digits []rune
	for _, r := range productID {
		if r == 'P' || r == 'p' {
			continue
		}
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}

	if len(digits) < 2 {
		return 0, false
	}

	key, err := strconv.Atoi(string(digits[1:]))
	if err != nil {
		return 0, false
	}
	return key, true
}

// BuildProductMapping indexes catalog products by their numeric ID
func BuildProductMapping(products []models.Product) map[int]models.Product {
	mapping := make(map[int]models.Product, len(products))
	for _, p := range products {
		mapping[p.ID] = p
	}
	return mapping
}

// EnrichTransactions joins each transaction against the catalog
// mapping via its derived product key. Transactions without a derivable
// key or without a catalog hit are kept with their API fields unset and
// APIMatch false. The output preserves input order.
func EnrichTransactions(records []models.TransactionRecord, mapping map[int]models.Product) []models.EnrichedTransaction {
	log := logger.GetGlobalLogger().WithComponent("enrichment")

	enriched := make([]models.EnrichedTransaction, 0, len(records))
	matched := 0

	for _, record := range records {
		e := models.EnrichedTransaction{TransactionRecord: record}

		if key, ok := DeriveProductKey(record.ProductID); ok {
			if product, found := mapping[key]; found {
				category := product.Category
				brand := product.Brand
				rating := product.Rating
				e.APICategory = &category
				e.APIBrand = &brand
				e.APIRating = &rating
				e.APIMatch = true
				matched++
			}
		}

		enriched = append(enriched, e)
	}

	log.WithFields(logger.Fields{
		"records": len(records),
		"matched": matched,
	}).Info("Transactions enriched")

	return enriched
}

// MatchedCount returns how many enriched transactions carry catalog data
func MatchedCount(enriched []models.EnrichedTransaction) int {
	count := 0
	for _, e := range enriched {
		if e.APIMatch {
			count++
		}
	}
	return count
}

// UnmatchedProductIDs returns the distinct ProductIDs of transactions
// that found no catalog match, sorted for stable reporting.
func UnmatchedProductIDs(enriched []models.EnrichedTransaction) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0)
	for _, e := range enriched {
		if !e.APIMatch && !seen[e.ProductID] {
			seen[e.ProductID] = true
			ids = append(ids, e.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}
