package parsers

import (
	"fmt"
	"strings"

	"golang-sales-analytics-service/internal/models"
	"golang-sales-analytics-service/pkg/logger"
)

// ParseStats holds counters from one parsing pass. Dropped rows are
// observable only through these totals; they never surface as errors.
type ParseStats struct {
	TotalLines        int `json:"total_lines"`
	RecordsParsed     int `json:"records_parsed"`
	DroppedFieldCount int `json:"dropped_field_count"`
	DroppedConversion int `json:"dropped_conversion"`
}

// Dropped returns the total number of discarded rows
func (ps *ParseStats) Dropped() int {
	return ps.DroppedFieldCount + ps.DroppedConversion
}

// String returns a human-readable summary of parsing statistics
func (ps *ParseStats) String() string {
	return fmt.Sprintf("Parsed %d of %d lines (%d dropped: %d bad field count, %d bad numerics)",
		ps.RecordsParsed, ps.TotalLines, ps.Dropped(), ps.DroppedFieldCount, ps.DroppedConversion)
}

// RecordParser turns raw delimited lines into typed transaction records
type RecordParser struct {
	config *Config
	logger logger.Logger
}

// NewRecordParser creates a new RecordParser with the given configuration
func NewRecordParser(config *Config) (*RecordParser, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &RecordParser{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("record_parser"),
	}, nil
}

// ParseRecords parses raw lines into TransactionRecords. A line is
// discarded silently when it does not split into exactly eight fields or
// when Quantity or UnitPrice fail numeric conversion. A row either fully
// parses or is dropped; no partial record is ever emitted.
func (rp *RecordParser) ParseRecords(lines []string) ([]models.TransactionRecord, *ParseStats) {
	stats := &ParseStats{TotalLines: len(lines)}
	records := make([]models.TransactionRecord, 0, len(lines))

	for _, line := range lines {
		record, drop := rp.parseLine(line)
		switch drop {
		case dropNone:
			records = append(records, record)
			stats.RecordsParsed++
		case dropFieldCount:
			stats.DroppedFieldCount++
		case dropConversion:
			stats.DroppedConversion++
		}
	}

	rp.logger.WithFields(logger.Fields{
		"total_lines":    stats.TotalLines,
		"records_parsed": stats.RecordsParsed,
		"dropped":        stats.Dropped(),
	}).Info("Record parsing completed")

	return records, stats
}

type dropReason int

const (
	dropNone dropReason = iota
	dropFieldCount
	dropConversion
)

func (rp *RecordParser) parseLine(line string) (models.TransactionRecord, dropReason) {
	fields := strings.Split(line, rp.config.Delimiter)
	if len(fields) != FieldCount {
		rp.logger.WithField("field_count", len(fields)).Debug("Dropping row with wrong field count")
		return models.TransactionRecord{}, dropFieldCount
	}

	quantity, err := models.ParseQuantity(fields[4])
	if err != nil {
		rp.logger.WithError(err).Debug("Dropping row with unparseable quantity")
		return models.TransactionRecord{}, dropConversion
	}

	unitPrice, err := models.ParseUnitPrice(fields[5])
	if err != nil {
		rp.logger.WithError(err).Debug("Dropping row with unparseable unit price")
		return models.TransactionRecord{}, dropConversion
	}

	return models.TransactionRecord{
		TransactionID: strings.TrimSpace(fields[0]),
		Date:          strings.TrimSpace(fields[1]),
		ProductID:     strings.TrimSpace(fields[2]),
		ProductName:   models.CleanProductName(fields[3]),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    strings.TrimSpace(fields[6]),
		Region:        strings.TrimSpace(fields[7]),
	}, dropNone
}
