// Package parsers reads pipe-delimited sales transaction files.
//
// The loader handles the file-level concerns: it reads the whole file,
// walks an ordered list of candidate encodings until one decodes cleanly,
// strips the header row and drops blank lines. The record parser then
// turns those raw lines into typed TransactionRecord values, silently
// discarding rows that do not conform. A bad row is never an error, only
// a counter in ParseStats.
package parsers

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang-sales-analytics-service/pkg/errors"
	"golang-sales-analytics-service/pkg/logger"
)

// Loader reads a sales data file into raw record lines
type Loader struct {
	config *Config
	logger logger.Logger
}

// NewLoader creates a new Loader with the given configuration
func NewLoader(config *Config) (*Loader, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, errors.ConfigurationError(
			errors.CodeInvalidConfig,
			"parser_config",
			config,
			err,
		)
	}

	return &Loader{
		config: config,
		logger: logger.GetGlobalLogger().WithComponent("loader"),
	}, nil
}

// ReadSalesData reads the file at path and returns its data lines with
// the header stripped and blank lines removed. Each configured encoding
// is tried in order; a missing file and an undecodable file are distinct
// fatal errors.
func (l *Loader) ReadSalesData(path string) ([]string, error) {
	l.logger.WithField("file_path", path).Debug("Reading sales data file")

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.WithError(err).WithField("file_path", path).Error("Sales data file not found")
			return nil, errors.FileError(errors.CodeFileNotFound, path, err)
		}
		if os.IsPermission(err) {
			return nil, errors.FileError(errors.CodeFilePermission, path, err)
		}
		return nil, errors.Wrap(err, errors.CategoryFile, errors.CodeUnexpectedError, "failed to read "+path)
	}

	text, encodingUsed, err := l.decode(raw)
	if err != nil {
		l.logger.WithError(err).WithFields(logger.Fields{
			"file_path": path,
			"encodings": l.config.Encodings,
		}).Error("File could not be decoded with any supported encoding")
		return nil, errors.ParseError(errors.CodeEncodingError, path, err)
	}

	lines := l.dataLines(text)

	l.logger.WithFields(logger.Fields{
		"file_path":  path,
		"encoding":   encodingUsed,
		"line_count": len(lines),
	}).Info("Sales data file loaded")

	return lines, nil
}

// decode walks the configured encoding ladder and returns the first
// clean decoding along with the encoding name that produced it.
func (l *Loader) decode(raw []byte) (string, string, error) {
	var lastErr error

	for _, name := range l.config.Encodings {
		enc, err := lookupEncoding(name)
		if err != nil {
			lastErr = err
			continue
		}

		if name == "utf-8" || name == "utf8" {
			if utf8.Valid(raw) {
				return string(raw), name, nil
			}
			l.logger.WithField("encoding", name).Debug("Decode attempt failed, trying next encoding")
			continue
		}

		decoded, err := enc.NewDecoder().Bytes(raw)
		if err != nil {
			lastErr = err
			l.logger.WithError(err).WithField("encoding", name).Debug("Decode attempt failed, trying next encoding")
			continue
		}

		return string(decoded), name, nil
	}

	if lastErr == nil {
		lastErr = errors.New(errors.CategoryParse, errors.CodeEncodingError, "no encoding produced a clean decoding")
	}
	return "", "", lastErr
}

// dataLines splits decoded text into trimmed record lines, discarding
// the header row and blank lines.
func (l *Loader) dataLines(text string) []string {
	rawLines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	start := 0
	if l.config.HasHeader && len(rawLines) > 0 {
		start = 1
	}

	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines[start:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines
}
