// Package parser turns the raw input file into per-line records. It owns
// the two messy edges of ingestion: character encoding recovery and
// splitting delimited lines without ever failing the whole file over one
// bad row.
package parser

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

// fieldCount is the fixed input schema width: TransactionID, Date,
// Region, ProductName, ProductID, Quantity, UnitPrice, CustomerID.
const fieldCount = 8

// Header is the column header row for the input schema, joined with the
// configured delimiter when written.
var Header = []string{
	"TransactionID", "Date", "Region", "ProductName",
	"ProductID", "Quantity", "UnitPrice", "CustomerID",
}

// Record is one successfully split input line. Fields are raw strings;
// type coercion is the validator's job.
type Record struct {
	Line          int
	Raw           string
	TransactionID string
	Date          string
	Region        string
	ProductName   string
	ProductID     string
	Quantity      string
	UnitPrice     string
	CustomerID    string
}

// Result is the per-line outcome: exactly one of Record or Err is set.
type Result struct {
	Record *Record
	Err    *entity.ParseError
}

// Parser splits a delimited sales file into Results.
type Parser struct {
	delimiter rune
	encoding  string
	log       logger.Logger
}

// New creates a parser for the given delimiter and encoding name. The
// encoding must already be validated by config.
func New(delimiter rune, encodingName string, log logger.Logger) *Parser {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &Parser{
		delimiter: delimiter,
		encoding:  strings.ToLower(encodingName),
		log:       log,
	}
}

// ParseFile reads, decodes and splits the input file. It returns one
// Result per data line in input order. An empty, blank or header-only
// file returns entity.ErrEmptyInput.
func (p *Parser) ParseFile(path string) ([]Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	text, recovered := p.decode(data)
	if recovered {
		p.log.Warn("input was not valid in the declared encoding, undecodable bytes replaced",
			map[string]interface{}{"path": path, "encoding": p.encoding})
	}

	var results []Result
	sawHeader := false
	seenData := false

	for i, line := range splitLines(text) {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if !seenData && !sawHeader && isHeader(trimmed, p.delimiter) {
			sawHeader = true
			continue
		}
		seenData = true
		results = append(results, p.ParseLine(trimmed, lineNo))
	}

	if len(results) == 0 {
		return nil, entity.ErrEmptyInput
	}

	p.log.Info("parsed input file", map[string]interface{}{
		"path":  path,
		"lines": len(results),
	})
	return results, nil
}

// ParseLine splits one raw line into a Record. A short line yields a
// ParseError instead of an error return, so callers can keep streaming.
// Trailing extra columns are tolerated: the enriched dataset appends
// catalog columns to the input schema and must round-trip through here.
func (p *Parser) ParseLine(raw string, lineNo int) Result {
	parts := strings.Split(raw, string(p.delimiter))
	if len(parts) < fieldCount {
		return Result{Err: &entity.ParseError{
			Line:   lineNo,
			Raw:    raw,
			Reason: fmt.Sprintf("expected %d fields, got %d", fieldCount, len(parts)),
		}}
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return Result{Record: &Record{
		Line:          lineNo,
		Raw:           raw,
		TransactionID: parts[0],
		Date:          parts[1],
		Region:        parts[2],
		ProductName:   parts[3],
		ProductID:     parts[4],
		Quantity:      parts[5],
		UnitPrice:     parts[6],
		CustomerID:    parts[7],
	}}
}

// decode converts raw bytes to a string per the declared encoding. The
// second return value reports that a permissive fallback replaced
// undecodable bytes rather than aborting the file.
func (p *Parser) decode(data []byte) (string, bool) {
	switch p.encoding {
	case "utf-8", "utf8":
		if utf8.Valid(data) {
			return string(data), false
		}
		return string(bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))), true
	case "latin-1", "iso-8859-1":
		return decodeCharmap(data, charmap.ISO8859_1.NewDecoder())
	case "cp1252", "windows-1252":
		return decodeCharmap(data, charmap.Windows1252.NewDecoder())
	default:
		// Config rejects unknown encodings; treat as permissive UTF-8.
		return string(bytes.ToValidUTF8(data, []byte(string(utf8.RuneError)))), true
	}
}

func decodeCharmap(data []byte, dec *encoding.Decoder) (string, bool) {
	out, _, err := transform.Bytes(dec, data)
	if err == nil {
		return string(out), false
	}
	// ISO 8859-1 maps every byte, so the permissive fallback cannot fail.
	out, _, _ = transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	return string(out), true
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

func isHeader(line string, delimiter rune) bool {
	first := strings.TrimSpace(strings.Split(line, string(delimiter))[0])
	return strings.EqualFold(first, Header[0])
}
