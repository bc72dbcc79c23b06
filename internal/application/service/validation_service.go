// Package service holds the application services that make up the sales
// pipeline: validation, filtering, aggregation, enrichment and the
// orchestrating pipeline itself.
package service

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/parser"
)

// ValidationService turns parsed records into validated transactions,
// classifying every input as valid or rejected with an enumerated reason.
type ValidationService struct {
	log logger.Logger
}

// NewValidationService creates a validation service.
func NewValidationService(log logger.Logger) *ValidationService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &ValidationService{log: log}
}

// Validate consumes parser output and returns the valid transactions in
// input order together with the rejection accounting. It never stops on
// a single bad record.
func (s *ValidationService) Validate(results []parser.Result) ([]entity.Transaction, entity.RejectionStats) {
	stats := entity.NewRejectionStats()
	stats.LinesRead = len(results)

	valid := make([]entity.Transaction, 0, len(results))

	for _, res := range results {
		if res.Err != nil {
			stats.ParseFailures++
			s.log.Debug("unparseable line", map[string]interface{}{
				"line":   res.Err.Line,
				"reason": res.Err.Reason,
			})
			continue
		}

		tx, reason := s.coerce(res.Record)
		if reason != "" {
			stats.Reject(reason)
			s.log.Debug("rejected record", map[string]interface{}{
				"line":   res.Record.Line,
				"reason": string(reason),
			})
			continue
		}

		valid = append(valid, tx)
	}

	stats.Valid = len(valid)
	s.log.Info("validation complete", map[string]interface{}{
		"lines":          stats.LinesRead,
		"valid":          stats.Valid,
		"rejected":       stats.Rejected(),
		"parse_failures": stats.ParseFailures,
	})
	return valid, stats
}

// coerce applies the field-level checks and type conversions for one
// record. It returns the zero reason on success.
func (s *ValidationService) coerce(rec *parser.Record) (entity.Transaction, entity.RejectReason) {
	if rec.TransactionID == "" || rec.Date == "" || rec.Region == "" ||
		rec.ProductName == "" || rec.ProductID == "" || rec.Quantity == "" ||
		rec.UnitPrice == "" || rec.CustomerID == "" {
		return entity.Transaction{}, entity.ReasonMissingField
	}

	date, err := time.Parse(entity.DateLayout, rec.Date)
	if err != nil {
		return entity.Transaction{}, entity.ReasonBadDate
	}

	region, ok := entity.ParseRegion(rec.Region)
	if !ok {
		return entity.Transaction{}, entity.ReasonUnknownRegion
	}

	quantity, err := strconv.Atoi(stripThousands(rec.Quantity))
	if err != nil {
		return entity.Transaction{}, entity.ReasonBadNumber
	}
	if quantity <= 0 {
		return entity.Transaction{}, entity.ReasonNonPositiveQuantity
	}

	price, err := decimal.NewFromString(stripThousands(rec.UnitPrice))
	if err != nil {
		return entity.Transaction{}, entity.ReasonBadNumber
	}
	if price.IsNegative() {
		return entity.Transaction{}, entity.ReasonNegativePrice
	}

	return entity.Transaction{
		ID:          rec.TransactionID,
		Date:        date,
		Region:      region,
		ProductName: rec.ProductName,
		ProductID:   rec.ProductID,
		Quantity:    quantity,
		UnitPrice:   price,
		CustomerID:  rec.CustomerID,
	}, ""
}

// stripThousands removes grouping commas from numeric fields ("1,916").
func stripThousands(s string) string {
	return strings.ReplaceAll(s, ",", "")
}
