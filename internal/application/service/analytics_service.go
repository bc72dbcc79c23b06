package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
)

const (
	// defaultTopN caps the top-products and top-customers sections.
	defaultTopN = 5

	// defaultLowQuantityThreshold marks products as low performing when
	// their total quantity sold stays below it.
	defaultLowQuantityThreshold = 10
)

// AnalyticsService computes the run's aggregate analytics. Summarize is a
// pure function of its input set: accumulation is commutative and every
// output is explicitly sorted, so input order never changes the result.
type AnalyticsService struct {
	topN         int
	lowThreshold int
	log          logger.Logger
}

// NewAnalyticsService creates an analytics service with default limits.
func NewAnalyticsService(log logger.Logger) *AnalyticsService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &AnalyticsService{
		topN:         defaultTopN,
		lowThreshold: defaultLowQuantityThreshold,
		log:          log,
	}
}

type dayAccumulator struct {
	revenue      decimal.Decimal
	transactions int
	customers    map[string]struct{}
}

// Summarize builds the AnalyticsSummary for a transaction set. A zero
// transaction set yields an empty summary, not an error.
func (s *AnalyticsService) Summarize(txns []entity.Transaction) *entity.AnalyticsSummary {
	summary := &entity.AnalyticsSummary{
		TotalRevenue:     decimal.Zero,
		AvgOrderValue:    decimal.Zero,
		TransactionCount: len(txns),
	}

	regions := make(map[entity.Region]*entity.RegionStat)
	products := make(map[string]*entity.ProductStat)
	customers := make(map[string]*entity.CustomerStat)
	days := make(map[string]*dayAccumulator)

	for _, tx := range txns {
		amount := tx.Amount()
		summary.TotalRevenue = summary.TotalRevenue.Add(amount)

		r, ok := regions[tx.Region]
		if !ok {
			r = &entity.RegionStat{Region: tx.Region, Revenue: decimal.Zero}
			regions[tx.Region] = r
		}
		r.Revenue = r.Revenue.Add(amount)
		r.Transactions++

		name := entity.CanonicalCase(tx.ProductName)
		p, ok := products[name]
		if !ok {
			p = &entity.ProductStat{Name: name, Revenue: decimal.Zero}
			products[name] = p
		}
		p.Quantity += tx.Quantity
		p.Revenue = p.Revenue.Add(amount)

		c, ok := customers[tx.CustomerID]
		if !ok {
			c = &entity.CustomerStat{CustomerID: tx.CustomerID, TotalSpent: decimal.Zero}
			customers[tx.CustomerID] = c
		}
		c.TotalSpent = c.TotalSpent.Add(amount)
		c.Orders++

		day := tx.Date.Format(entity.DateLayout)
		d, ok := days[day]
		if !ok {
			d = &dayAccumulator{revenue: decimal.Zero, customers: make(map[string]struct{})}
			days[day] = d
		}
		d.revenue = d.revenue.Add(amount)
		d.transactions++
		d.customers[tx.CustomerID] = struct{}{}
	}

	if summary.TransactionCount > 0 {
		summary.AvgOrderValue = summary.TotalRevenue.Div(decimal.NewFromInt(int64(summary.TransactionCount)))
	}

	summary.RevenueByRegion = finalizeRegions(regions, summary.TotalRevenue)
	summary.RevenueByProduct = sortProductsByRevenue(products)
	summary.RevenueByCustomer = finalizeCustomers(customers)
	summary.DailyTrend = finalizeTrend(days)

	if len(summary.DailyTrend) > 0 {
		summary.FirstDate = summary.DailyTrend[0].Date
		summary.LastDate = summary.DailyTrend[len(summary.DailyTrend)-1].Date
		summary.PeakDay = peakDay(summary.DailyTrend)
	}

	summary.TopProducts = topByQuantity(products, s.topN)
	summary.LowPerformers = lowPerformers(products, s.lowThreshold)
	summary.TopCustomers = capCustomers(summary.RevenueByCustomer, s.topN)

	s.log.Info("analytics computed", map[string]interface{}{
		"transactions":  summary.TransactionCount,
		"total_revenue": summary.TotalRevenue.StringFixed(2),
		"regions":       len(summary.RevenueByRegion),
		"products":      len(summary.RevenueByProduct),
		"days":          len(summary.DailyTrend),
	})
	return summary
}

func finalizeRegions(regions map[entity.Region]*entity.RegionStat, total decimal.Decimal) []entity.RegionStat {
	out := make([]entity.RegionStat, 0, len(regions))
	hundred := decimal.NewFromInt(100)
	for _, r := range regions {
		stat := *r
		if total.IsPositive() {
			stat.PercentOfTotal = stat.Revenue.Mul(hundred).Div(total)
		} else {
			stat.PercentOfTotal = decimal.Zero
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Region < out[j].Region
	})
	return out
}

func sortProductsByRevenue(products map[string]*entity.ProductStat) []entity.ProductStat {
	out := make([]entity.ProductStat, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func finalizeCustomers(customers map[string]*entity.CustomerStat) []entity.CustomerStat {
	out := make([]entity.CustomerStat, 0, len(customers))
	for _, c := range customers {
		stat := *c
		if stat.Orders > 0 {
			stat.AvgOrderValue = stat.TotalSpent.Div(decimal.NewFromInt(int64(stat.Orders)))
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalSpent.Equal(out[j].TotalSpent) {
			return out[i].TotalSpent.GreaterThan(out[j].TotalSpent)
		}
		return out[i].CustomerID < out[j].CustomerID
	})
	return out
}

func finalizeTrend(days map[string]*dayAccumulator) []entity.DailyStat {
	out := make([]entity.DailyStat, 0, len(days))
	for day, acc := range days {
		date, err := time.Parse(entity.DateLayout, day)
		if err != nil {
			continue
		}
		out = append(out, entity.DailyStat{
			Date:            date,
			Revenue:         acc.revenue,
			Transactions:    acc.transactions,
			UniqueCustomers: len(acc.customers),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// peakDay picks the highest-revenue day; ties resolve to the earliest
// date so the choice stays deterministic.
func peakDay(trend []entity.DailyStat) *entity.DailyStat {
	peak := trend[0]
	for _, d := range trend[1:] {
		if d.Revenue.GreaterThan(peak.Revenue) {
			peak = d
		}
	}
	return &peak
}

func topByQuantity(products map[string]*entity.ProductStat, n int) []entity.ProductStat {
	out := make([]entity.ProductStat, 0, len(products))
	for _, p := range products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func lowPerformers(products map[string]*entity.ProductStat, threshold int) []entity.ProductStat {
	var out []entity.ProductStat
	for _, p := range products {
		if p.Quantity < threshold {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func capCustomers(sorted []entity.CustomerStat, n int) []entity.CustomerStat {
	if len(sorted) > n {
		return sorted[:n]
	}
	return sorted
}
