package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegionStat aggregates revenue for one region.
type RegionStat struct {
	Region       Region
	Revenue      decimal.Decimal
	Transactions int
	// PercentOfTotal is the region's share of total revenue, 0-100.
	PercentOfTotal decimal.Decimal
}

// ProductStat aggregates quantity and revenue for one product.
type ProductStat struct {
	Name     string
	Quantity int
	Revenue  decimal.Decimal
}

// CustomerStat aggregates spend for one customer.
type CustomerStat struct {
	CustomerID    string
	TotalSpent    decimal.Decimal
	Orders        int
	AvgOrderValue decimal.Decimal
}

// DailyStat aggregates one calendar day of the sales trend.
type DailyStat struct {
	Date            time.Time
	Revenue         decimal.Decimal
	Transactions    int
	UniqueCustomers int
}

// AnalyticsSummary holds every aggregate computed over the filtered
// transaction set. It is built once per run and never mutated afterwards.
type AnalyticsSummary struct {
	TotalRevenue      decimal.Decimal
	TransactionCount  int
	AvgOrderValue     decimal.Decimal
	FirstDate         time.Time
	LastDate          time.Time
	RevenueByRegion   []RegionStat   // sorted by revenue descending
	RevenueByProduct  []ProductStat  // sorted by revenue descending
	RevenueByCustomer []CustomerStat // sorted by total spent descending
	DailyTrend        []DailyStat    // sorted chronologically
	TopProducts       []ProductStat  // by quantity sold, capped
	TopCustomers      []CustomerStat // by total spent, capped
	LowPerformers     []ProductStat  // quantity below threshold, ascending
	PeakDay           *DailyStat     // nil when the set is empty
}

// Empty reports whether the summary was built from zero transactions.
func (s *AnalyticsSummary) Empty() bool {
	return s.TransactionCount == 0
}
