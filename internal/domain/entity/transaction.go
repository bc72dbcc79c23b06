package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Region is one of the four sales regions a transaction can belong to.
type Region string

const (
	RegionNorth Region = "North"
	RegionSouth Region = "South"
	RegionEast  Region = "East"
	RegionWest  Region = "West"
)

// DateLayout is the calendar date format used across input files, the
// catalog API and both output artifacts.
const DateLayout = "2006-01-02"

// ParseRegion normalizes a raw region value to its canonical casing.
// The second return value is false when the value is not a known region.
func ParseRegion(raw string) (Region, bool) {
	switch Region(CanonicalCase(raw)) {
	case RegionNorth:
		return RegionNorth, true
	case RegionSouth:
		return RegionSouth, true
	case RegionEast:
		return RegionEast, true
	case RegionWest:
		return RegionWest, true
	default:
		return "", false
	}
}

// Transaction represents a single validated sales record.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Region      Region          `json:"region"`
	ProductName string          `json:"product_name"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CustomerID  string          `json:"customer_id"`
}

// Amount is the transaction value. It is always recomputed from quantity
// and unit price so it can never go stale against a stored copy.
func (t *Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// EnrichedTransaction is a Transaction joined with catalog metadata.
// Catalog is nil when the product could not be resolved this run, which
// is distinct from a resolved product whose optional fields are empty.
type EnrichedTransaction struct {
	Transaction
	Catalog *CatalogEntry `json:"catalog,omitempty"`
}

// Matched reports whether the catalog lookup resolved for this transaction.
func (e *EnrichedTransaction) Matched() bool {
	return e.Catalog != nil
}
