package enrichment

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang-sales-analytics-service/internal/models"
	pkgerrors "golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"
)

// enrichedHeader is the column layout of the enriched output file
var enrichedHeader = []string{
	"TransactionID", "Date", "ProductID", "ProductName",
	"Quantity", "UnitPrice", "CustomerID", "Region",
	"API_Category", "API_Brand", "API_Rating", "API_Match",
}

// WriteEnrichedFile writes the enriched transactions to a
// pipe-delimited file at path, creating parent directories as needed.
// Unmatched transactions get empty API columns.
func WriteEnrichedFile(path string, enriched []models.EnrichedTransaction) error {
	log := logger.GetGlobalLogger().WithComponent("enriched_writer")

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return pkgerrors.FileError(pkgerrors.CodeFileWrite, path, err)
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(enrichedHeader, "|"))
	sb.WriteByte('\n')

	for _, e := range enriched {
		sb.WriteString(strings.Join(enrichedRow(e), "|"))
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return pkgerrors.FileError(pkgerrors.CodeFileWrite, path, err)
	}

	log.WithFields(logger.Fields{
		"path":    path,
		"records": len(enriched),
	}).Info("Enriched sales data written")

	return nil
}

func enrichedRow(e models.EnrichedTransaction) []string {
	category := ""
	if e.APICategory != nil {
		category = *e.APICategory
	}
	brand := ""
	if e.APIBrand != nil {
		brand = *e.APIBrand
	}
	rating := ""
	if e.APIRating != nil {
		rating = strconv.FormatFloat(*e.APIRating, 'g', -1, 64)
	}

	return []string{
		e.TransactionID,
		e.Date,
		e.ProductID,
		e.ProductName,
		fmt.Sprintf("%d", e.Quantity),
		e.UnitPrice.String(),
		e.CustomerID,
		e.Region,
		category,
		brand,
		rating,
		strconv.FormatBool(e.APIMatch),
	}
}
