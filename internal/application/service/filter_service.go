package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

// Criteria holds the optional filter predicates. A nil field means no
// constraint on that dimension. Both amount bounds are inclusive.
type Criteria struct {
	Region    *string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Empty reports whether no predicate was supplied.
func (c Criteria) Empty() bool {
	return c.Region == nil && c.MinAmount == nil && c.MaxAmount == nil
}

// Validate rejects predicate combinations that can never match anything.
func (c Criteria) Validate() error {
	if c.MinAmount != nil && c.MaxAmount != nil && c.MinAmount.GreaterThan(*c.MaxAmount) {
		return &entity.FilterError{Min: *c.MinAmount, Max: *c.MaxAmount}
	}
	return nil
}

// FilterService applies the caller's optional predicates to the
// validated transaction set.
type FilterService struct {
	log logger.Logger
}

// NewFilterService creates a filter service.
func NewFilterService(log logger.Logger) *FilterService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &FilterService{log: log}
}

// Apply returns the subsequence of txns satisfying every supplied
// predicate. The amount is recomputed from quantity and unit price for
// each transaction. An empty result is valid, not an error.
func (s *FilterService) Apply(txns []entity.Transaction, criteria Criteria) ([]entity.Transaction, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	if criteria.Empty() {
		return txns, nil
	}

	filtered := make([]entity.Transaction, 0, len(txns))
	for _, tx := range txns {
		if criteria.Region != nil && !strings.EqualFold(*criteria.Region, string(tx.Region)) {
			continue
		}
		amount := tx.Amount()
		if criteria.MinAmount != nil && amount.LessThan(*criteria.MinAmount) {
			continue
		}
		if criteria.MaxAmount != nil && amount.GreaterThan(*criteria.MaxAmount) {
			continue
		}
		filtered = append(filtered, tx)
	}

	s.log.Info("filter applied", map[string]interface{}{
		"input":    len(txns),
		"retained": len(filtered),
	})
	return filtered, nil
}
