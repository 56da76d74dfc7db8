// Package analytics computes descriptive sales analytics over a set of
// validated transaction records.
//
// Each aggregation is a pure function: it folds over an immutable input
// slice and produces a fresh result, sharing no accumulator with any
// other aggregation. Because the seven views are independent, RunAll
// evaluates them concurrently over the same read-only input.
//
// Ordering is deterministic everywhere. Descending views break ties by
// first occurrence in the input (stable sort over first-seen insertion
// order), and the daily trend relies on the date format sorting
// lexicographically in chronological order.
package analytics

import (
	"sort"
	"sync"

	"golang-sales-analytics-service/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTopN is the default number of products returned by TopProducts
const DefaultTopN = 5

// DefaultLowThreshold is the default quantity threshold for LowPerformers
const DefaultLowThreshold = 10

var oneHundred = decimal.NewFromInt(100)

// RegionStat holds aggregated sales for one region
type RegionStat struct {
	Region           string          `json:"region"`
	TotalSales       decimal.Decimal `json:"total_sales"`
	TransactionCount int             `json:"transaction_count"`
	Percentage       decimal.Decimal `json:"percentage"`
}

// ProductStat holds aggregated quantity and revenue for one product
type ProductStat struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// CustomerStat holds purchase statistics for one customer
type CustomerStat struct {
	CustomerID    string          `json:"customer_id"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	PurchaseCount int             `json:"purchase_count"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	Products      []string        `json:"products"`
}

// DailyStat holds aggregated sales for one date
type DailyStat struct {
	Date             string          `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
	UniqueCustomers  int             `json:"unique_customers"`
}

// PeakDay identifies the date with the highest revenue. An empty Date
// is the sentinel for empty input.
type PeakDay struct {
	Date             string          `json:"date"`
	Revenue          decimal.Decimal `json:"revenue"`
	TransactionCount int             `json:"transaction_count"`
}

// TotalRevenue sums LineAmount over all records. Returns zero for
// empty input.
func TotalRevenue(records []models.TransactionRecord) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.LineAmount())
	}
	return total
}

// RegionSales groups records by region and computes each region's share
// of the grand total. Results are ordered by total sales descending,
// ties broken by first occurrence. Percentages are zero when the grand
// total is zero.
func RegionSales(records []models.TransactionRecord) []RegionStat {
	index := make(map[string]int)
	stats := make([]RegionStat, 0)

	for _, record := range records {
		i, seen := index[record.Region]
		if !seen {
			i = len(stats)
			index[record.Region] = i
			stats = append(stats, RegionStat{Region: record.Region, TotalSales: decimal.Zero, Percentage: decimal.Zero})
		}
		stats[i].TotalSales = stats[i].TotalSales.Add(record.LineAmount())
		stats[i].TransactionCount++
	}

	grandTotal := decimal.Zero
	for _, stat := range stats {
		grandTotal = grandTotal.Add(stat.TotalSales)
	}
	if grandTotal.IsPositive() {
		for i := range stats {
			stats[i].Percentage = stats[i].TotalSales.Div(grandTotal).Mul(oneHundred)
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSales.GreaterThan(stats[j].TotalSales)
	})

	return stats
}

// productStats aggregates quantity and revenue per product name in
// first-seen order. Shared by TopProducts and LowPerformers.
func productStats(records []models.TransactionRecord) []ProductStat {
	index := make(map[string]int)
	stats := make([]ProductStat, 0)

	for _, record := range records {
		i, seen := index[record.ProductName]
		if !seen {
			i = len(stats)
			index[record.ProductName] = i
			stats = append(stats, ProductStat{Name: record.ProductName, Revenue: decimal.Zero})
		}
		stats[i].Quantity += record.Quantity
		stats[i].Revenue = stats[i].Revenue.Add(record.LineAmount())
	}

	return stats
}

// TopProducts returns the n products with the highest summed quantity,
// descending. Ties keep first-seen order. A non-positive n falls back
// to DefaultTopN.
func TopProducts(records []models.TransactionRecord, n int) []ProductStat {
	if n <= 0 {
		n = DefaultTopN
	}

	stats := productStats(records)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].Quantity > stats[j].Quantity
	})

	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// LowPerformers returns products whose summed quantity is strictly
// below threshold, ascending by quantity with first-seen tie-break. A
// non-positive threshold falls back to DefaultLowThreshold.
func LowPerformers(records []models.TransactionRecord, threshold int) []ProductStat {
	if threshold <= 0 {
		threshold = DefaultLowThreshold
	}

	all := productStats(records)
	low := make([]ProductStat, 0)
	for _, stat := range all {
		if stat.Quantity < threshold {
			low = append(low, stat)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].Quantity < low[j].Quantity
	})

	return low
}

// CustomerAnalysis groups records by customer, skipping records with an
// empty CustomerID entirely. Per customer it accumulates total spent,
// purchase count, average order value and the distinct product names in
// first-seen order. Results are ordered by total spent descending.
func CustomerAnalysis(records []models.TransactionRecord) []CustomerStat {
	index := make(map[string]int)
	stats := make([]CustomerStat, 0)
	seenProducts := make(map[string]map[string]bool)

	for _, record := range records {
		if record.CustomerID == "" {
			continue
		}

		i, seen := index[record.CustomerID]
		if !seen {
			i = len(stats)
			index[record.CustomerID] = i
			stats = append(stats, CustomerStat{CustomerID: record.CustomerID, TotalSpent: decimal.Zero, AvgOrderValue: decimal.Zero})
			seenProducts[record.CustomerID] = make(map[string]bool)
		}

		stats[i].TotalSpent = stats[i].TotalSpent.Add(record.LineAmount())
		stats[i].PurchaseCount++

		if !seenProducts[record.CustomerID][record.ProductName] {
			seenProducts[record.CustomerID][record.ProductName] = true
			stats[i].Products = append(stats[i].Products, record.ProductName)
		}
	}

	for i := range stats {
		if stats[i].PurchaseCount > 0 {
			stats[i].AvgOrderValue = stats[i].TotalSpent.Div(decimal.NewFromInt(int64(stats[i].PurchaseCount)))
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalSpent.GreaterThan(stats[j].TotalSpent)
	})

	return stats
}

// DailyTrend groups records by date with revenue, transaction count and
// the number of distinct non-empty customers. Results are ordered by
// the date string's natural sort order, which for ISO dates is
// chronological.
func DailyTrend(records []models.TransactionRecord) []DailyStat {
	index := make(map[string]int)
	stats := make([]DailyStat, 0)
	customers := make(map[string]map[string]bool)

	for _, record := range records {
		i, seen := index[record.Date]
		if !seen {
			i = len(stats)
			index[record.Date] = i
			stats = append(stats, DailyStat{Date: record.Date, Revenue: decimal.Zero})
			customers[record.Date] = make(map[string]bool)
		}

		stats[i].Revenue = stats[i].Revenue.Add(record.LineAmount())
		stats[i].TransactionCount++
		if record.CustomerID != "" {
			customers[record.Date][record.CustomerID] = true
		}
	}

	for i := range stats {
		stats[i].UniqueCustomers = len(customers[stats[i].Date])
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Date < stats[j].Date
	})

	return stats
}

// PeakSalesDay returns the date with the highest revenue. Ties go to
// the earliest date in chronological order. For empty input the zero
// sentinel (empty date, zero revenue and count) is returned.
func PeakSalesDay(records []models.TransactionRecord) PeakDay {
	trend := DailyTrend(records)
	if len(trend) == 0 {
		return PeakDay{Revenue: decimal.Zero}
	}

	peak := trend[0]
	for _, day := range trend[1:] {
		if day.Revenue.GreaterThan(peak.Revenue) {
			peak = day
		}
	}

	return PeakDay{
		Date:             peak.Date,
		Revenue:          peak.Revenue,
		TransactionCount: peak.TransactionCount,
	}
}

// Summary bundles the outputs of all seven aggregations over one input
// set. Each field is independently recomputed per run; nothing is
// updated incrementally.
type Summary struct {
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	Regions       []RegionStat    `json:"regions"`
	TopProducts   []ProductStat   `json:"top_products"`
	Customers     []CustomerStat  `json:"customers"`
	DailyTrend    []DailyStat     `json:"daily_trend"`
	PeakDay       PeakDay         `json:"peak_day"`
	LowPerformers []ProductStat   `json:"low_performers"`
}

// RunAll evaluates the seven aggregations concurrently over the shared
// read-only record slice and collects them into a Summary. The
// aggregations are independent pure computations, so no coordination
// beyond the final join is needed.
func RunAll(records []models.TransactionRecord, topN, lowThreshold int) *Summary {
	summary := &Summary{}

	var wg sync.WaitGroup
	run := func(f func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}

	run(func() { summary.TotalRevenue = TotalRevenue(records) })
	run(func() { summary.Regions = RegionSales(records) })
	run(func() { summary.TopProducts = TopProducts(records, topN) })
	run(func() { summary.Customers = CustomerAnalysis(records) })
	run(func() { summary.DailyTrend = DailyTrend(records) })
	run(func() { summary.PeakDay = PeakSalesDay(records) })
	run(func() { summary.LowPerformers = LowPerformers(records, lowThreshold) })

	wg.Wait()
	return summary
}
