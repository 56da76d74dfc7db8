package parsers

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// FieldCount is the number of pipe-delimited fields every well-formed
// sales record carries.
const FieldCount = 8

// Config holds configuration for reading and parsing a sales data file
type Config struct {
	// Delimiter separating the fields of a record
	Delimiter string
	// HasHeader indicates the first line is a header to discard
	HasHeader bool
	// Encodings is the ordered list of text encodings the loader tries
	// before giving up on a file
	Encodings []string
}

// DefaultConfig returns a configuration matching the standard sales
// data file format
func DefaultConfig() *Config {
	return &Config{
		Delimiter: "|",
		HasHeader: true,
		Encodings: []string{"utf-8", "latin-1", "cp1252"},
	}
}

// Validate validates the parser configuration
func (c *Config) Validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("delimiter cannot be empty")
	}

	if len(c.Encodings) == 0 {
		return fmt.Errorf("at least one encoding is required")
	}

	for _, name := range c.Encodings {
		if _, err := lookupEncoding(name); err != nil {
			return err
		}
	}

	return nil
}

// lookupEncoding maps an encoding name to its decoder. The loader
// handles UTF-8 by validation rather than through the decoder.
func lookupEncoding(name string) (encoding.Encoding, error) {
	switch name {
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1, nil
	case "cp1252", "windows-1252":
		return charmap.Windows1252, nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", name)
	}
}
