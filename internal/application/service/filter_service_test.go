package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

func tx(id string, region entity.Region, qty int, price string) entity.Transaction {
	return entity.Transaction{
		ID:          id,
		Date:        time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Region:      region,
		ProductName: "Widget",
		ProductID:   "P101",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		CustomerID:  "C1",
	}
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestApply(t *testing.T) {
	svc := NewFilterService(logger.Discard())

	txns := []entity.Transaction{
		tx("T1", entity.RegionNorth, 3, "9.99"),  // 29.97
		tx("T2", entity.RegionSouth, 1, "100"),   // 100.00
		tx("T3", entity.RegionNorth, 10, "5.00"), // 50.00
	}

	t.Run("no predicates returns everything", func(t *testing.T) {
		out, err := svc.Apply(txns, Criteria{})
		require.NoError(t, err)
		assert.Len(t, out, 3)
	})

	t.Run("region filter is case-insensitive", func(t *testing.T) {
		out, err := svc.Apply(txns, Criteria{Region: strPtr("north")})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "T1", out[0].ID)
		assert.Equal(t, "T3", out[1].ID)
	})

	t.Run("amount bounds are inclusive", func(t *testing.T) {
		out, err := svc.Apply(txns, Criteria{
			MinAmount: decPtr("29.97"),
			MaxAmount: decPtr("50.00"),
		})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "T1", out[0].ID)
		assert.Equal(t, "T3", out[1].ID)
	})

	t.Run("all predicates together", func(t *testing.T) {
		out, err := svc.Apply(txns, Criteria{
			Region:    strPtr("North"),
			MinAmount: decPtr("40"),
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "T3", out[0].ID)
	})

	t.Run("empty result is not an error", func(t *testing.T) {
		out, err := svc.Apply(txns, Criteria{MinAmount: decPtr("1000000")})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("min greater than max fails before processing", func(t *testing.T) {
		_, err := svc.Apply(txns, Criteria{
			MinAmount: decPtr("100"),
			MaxAmount: decPtr("10"),
		})
		require.Error(t, err)
		var ferr *entity.FilterError
		assert.ErrorAs(t, err, &ferr)
	})

	t.Run("filtering is idempotent", func(t *testing.T) {
		criteria := Criteria{Region: strPtr("North"), MaxAmount: decPtr("60")}

		once, err := svc.Apply(txns, criteria)
		require.NoError(t, err)
		twice, err := svc.Apply(once, criteria)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	})
}
