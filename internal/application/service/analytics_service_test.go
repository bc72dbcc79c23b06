package service

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

func txAt(id, date string, region entity.Region, product, customer string, qty int, price string) entity.Transaction {
	d, err := time.Parse(entity.DateLayout, date)
	if err != nil {
		panic(err)
	}
	return entity.Transaction{
		ID:          id,
		Date:        d,
		Region:      region,
		ProductName: product,
		ProductID:   "P101",
		Quantity:    qty,
		UnitPrice:   decimal.RequireFromString(price),
		CustomerID:  customer,
	}
}

func sampleSet() []entity.Transaction {
	return []entity.Transaction{
		txAt("T1", "2024-01-05", entity.RegionNorth, "Widget", "C1", 3, "9.99"), // 29.97
		txAt("T2", "2024-01-05", entity.RegionSouth, "Gadget", "C2", 1, "100"),  // 100.00
		txAt("T3", "2024-01-06", entity.RegionNorth, "widget", "C1", 2, "9.99"), // 19.98
		txAt("T4", "2024-01-07", entity.RegionEast, "Cable", "C3", 20, "4.50"),  // 90.00
		txAt("T5", "2024-01-07", entity.RegionEast, "Cable", "C2", 5, "4.50"),   // 22.50
	}
}

func TestSummarize(t *testing.T) {
	svc := NewAnalyticsService(logger.Discard())

	t.Run("total revenue", func(t *testing.T) {
		s := svc.Summarize(sampleSet())
		assert.True(t, s.TotalRevenue.Equal(decimal.RequireFromString("262.45")),
			"got %s", s.TotalRevenue)
		assert.Equal(t, 5, s.TransactionCount)
		assert.True(t, s.AvgOrderValue.Equal(decimal.RequireFromString("52.49")),
			"got %s", s.AvgOrderValue)
	})

	t.Run("region and product breakdowns both sum to the total", func(t *testing.T) {
		s := svc.Summarize(sampleSet())

		regionSum := decimal.Zero
		for _, r := range s.RevenueByRegion {
			regionSum = regionSum.Add(r.Revenue)
		}
		productSum := decimal.Zero
		for _, p := range s.RevenueByProduct {
			productSum = productSum.Add(p.Revenue)
		}
		customerSum := decimal.Zero
		for _, c := range s.RevenueByCustomer {
			customerSum = customerSum.Add(c.TotalSpent)
		}

		assert.True(t, regionSum.Equal(s.TotalRevenue))
		assert.True(t, productSum.Equal(s.TotalRevenue))
		assert.True(t, customerSum.Equal(s.TotalRevenue))
	})

	t.Run("product casing does not split buckets", func(t *testing.T) {
		s := svc.Summarize(sampleSet())

		var widget *entity.ProductStat
		for i := range s.RevenueByProduct {
			if s.RevenueByProduct[i].Name == "Widget" {
				widget = &s.RevenueByProduct[i]
			}
		}
		require.NotNil(t, widget, "Widget and widget should share one bucket")
		assert.Equal(t, 5, widget.Quantity)
		assert.True(t, widget.Revenue.Equal(decimal.RequireFromString("49.95")))
	})

	t.Run("daily trend is chronological", func(t *testing.T) {
		s := svc.Summarize(sampleSet())

		require.Len(t, s.DailyTrend, 3)
		for i := 1; i < len(s.DailyTrend); i++ {
			assert.True(t, s.DailyTrend[i-1].Date.Before(s.DailyTrend[i].Date))
		}

		day1 := s.DailyTrend[0]
		assert.Equal(t, "2024-01-05", day1.Date.Format(entity.DateLayout))
		assert.True(t, day1.Revenue.Equal(decimal.RequireFromString("129.97")))
		assert.Equal(t, 2, day1.Transactions)
		assert.Equal(t, 2, day1.UniqueCustomers)
	})

	t.Run("peak day", func(t *testing.T) {
		s := svc.Summarize(sampleSet())
		require.NotNil(t, s.PeakDay)
		assert.Equal(t, "2024-01-05", s.PeakDay.Date.Format(entity.DateLayout))
	})

	t.Run("low performers are below the quantity threshold", func(t *testing.T) {
		s := svc.Summarize(sampleSet())

		names := make([]string, 0, len(s.LowPerformers))
		for _, p := range s.LowPerformers {
			names = append(names, p.Name)
		}
		// Widget sold 5, Gadget 1; Cable sold 25 and is not low.
		assert.Equal(t, []string{"Gadget", "Widget"}, names)
	})

	t.Run("aggregation is order-independent", func(t *testing.T) {
		base := svc.Summarize(sampleSet())

		shuffled := sampleSet()
		rng := rand.New(rand.NewSource(42))
		for i := 0; i < 10; i++ {
			rng.Shuffle(len(shuffled), func(a, b int) {
				shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
			})
			s := svc.Summarize(shuffled)
			assert.Equal(t, base, s)
		}
	})

	t.Run("empty set yields zeroes, not errors", func(t *testing.T) {
		s := svc.Summarize(nil)
		assert.True(t, s.Empty())
		assert.True(t, s.TotalRevenue.IsZero())
		assert.Empty(t, s.RevenueByRegion)
		assert.Empty(t, s.DailyTrend)
		assert.Nil(t, s.PeakDay)
	})

	t.Run("decimal accumulation does not drift", func(t *testing.T) {
		// 1000 * 0.1 must be exactly 100, no float drift.
		txns := make([]entity.Transaction, 0, 1000)
		for i := 0; i < 1000; i++ {
			txns = append(txns, txAt("T", "2024-01-05", entity.RegionNorth, "Widget", "C1", 1, "0.1"))
		}
		s := svc.Summarize(txns)
		assert.True(t, s.TotalRevenue.Equal(decimal.RequireFromString("100")),
			"got %s", s.TotalRevenue)
	})
}
