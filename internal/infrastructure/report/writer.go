// Package report renders the run's two output artifacts: the enriched
// dataset and the text report. It formats, nothing more.
package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikhil-rg/salespipe/internal/domain/entity"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/logger"
	"github.com/nikhil-rg/salespipe/internal/infrastructure/parser"
)

// absentMarker is written for catalog fields with no data, so readers can
// tell "no data" apart from an empty value.
const absentMarker = "N/A"

// enrichedExtraColumns are appended to the input schema in the enriched
// dataset.
var enrichedExtraColumns = []string{"Category", "Brand", "Rating"}

// Writer produces the output artifacts using the same delimiter
// convention as the input, so the enriched file round-trips through the
// parser.
type Writer struct {
	delimiter rune
	log       logger.Logger
}

// NewWriter creates a writer using the given field delimiter.
func NewWriter(delimiter rune, log logger.Logger) *Writer {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	return &Writer{delimiter: delimiter, log: log}
}

// WriteEnriched writes the enriched dataset to path. The file appears
// atomically: it is written to a temporary file first and renamed into
// place, so a failed run never leaves a partial file looking complete.
func (w *Writer) WriteEnriched(path string, enriched []entity.EnrichedTransaction) error {
	err := w.writeAtomic(path, "enriched dataset", func(out io.Writer) error {
		sep := string(w.delimiter)

		if err := writeRow(out, sep, append(append([]string{}, parser.Header...), enrichedExtraColumns...)); err != nil {
			return err
		}

		for i := range enriched {
			if err := writeRow(out, sep, enrichedRow(&enriched[i])); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.log.Info("enriched dataset written", map[string]interface{}{
		"path": path,
		"rows": len(enriched),
	})
	return nil
}

func enrichedRow(e *entity.EnrichedTransaction) []string {
	category, brand, rating := absentMarker, absentMarker, absentMarker
	if e.Catalog != nil {
		if e.Catalog.Category != nil {
			category = *e.Catalog.Category
		}
		if e.Catalog.Brand != nil {
			brand = *e.Catalog.Brand
		}
		if e.Catalog.Rating != nil {
			rating = strconv.FormatFloat(*e.Catalog.Rating, 'f', -1, 64)
		}
	}

	return []string{
		e.ID,
		e.Date.Format(entity.DateLayout),
		string(e.Region),
		e.ProductName,
		e.ProductID,
		strconv.Itoa(e.Quantity),
		e.UnitPrice.String(),
		e.CustomerID,
		category,
		brand,
		rating,
	}
}

func writeRow(out io.Writer, sep string, fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if _, err := io.WriteString(out, sep); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, f); err != nil {
			return err
		}
	}
	_, err := io.WriteString(out, "\n")
	return err
}

// WriteReport renders the analytics summary and run statistics to path,
// with the same atomic-write guarantee as the enriched dataset.
func (w *Writer) WriteReport(path string, run *entity.RunStats, summary *entity.AnalyticsSummary) error {
	err := w.writeAtomic(path, "report", func(out io.Writer) error {
		return renderReport(out, run, summary)
	})
	if err != nil {
		return err
	}

	w.log.Info("report written", map[string]interface{}{"path": path})
	return nil
}

// writeAtomic writes via a temp file in the destination directory and
// renames it into place. Any failure is wrapped as a WriteError and the
// temp file removed.
func (w *Writer) writeAtomic(path, artifact string, render func(io.Writer) error) error {
	wrap := func(err error) error {
		return &entity.WriteError{Artifact: artifact, Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return wrap(err)
	}

	tmp, err := os.CreateTemp(dir, ".salespipe-*")
	if err != nil {
		return wrap(err)
	}
	defer os.Remove(tmp.Name())

	buf := bufio.NewWriter(tmp)
	if err := render(buf); err != nil {
		tmp.Close()
		return wrap(err)
	}
	if err := buf.Flush(); err != nil {
		tmp.Close()
		return wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return wrap(err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return wrap(err)
	}
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func renderReport(out io.Writer, run *entity.RunStats, summary *entity.AnalyticsSummary) error {
	p := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format, args...)
	}

	rule := "============================================\n"
	section := "--------------------------------------------\n"

	p(rule)
	p("           SALES ANALYTICS REPORT\n")
	p("  Run ID:    %s\n", run.RunID)
	p("  Generated: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	p("  Records Processed: %d\n", summary.TransactionCount)
	p(rule)
	p("\n")

	p("RUN STATISTICS\n")
	p(section)
	p("Lines read:           %d\n", run.Rejections.LinesRead)
	p("Unparseable lines:    %d\n", run.Rejections.ParseFailures)
	p("Valid transactions:   %d\n", run.Rejections.Valid)
	p("Rejected:             %d\n", run.Rejections.Rejected())
	for _, reason := range entity.RejectReasons {
		if n := run.Rejections.ByReason[reason]; n > 0 {
			p("  %-21s %d\n", string(reason)+":", n)
		}
	}
	p("Filtered out:         %d\n", run.FilteredOut)
	p("Enriched:             %d\n", run.Enrichment.Matched)
	p("Enrichment failures:  %d\n", run.Enrichment.Unmatched)
	p("\n")

	if summary.Empty() {
		p("No transactions matched the supplied criteria.\n")
		return nil
	}

	p("OVERALL SUMMARY\n")
	p(section)
	p("Total Revenue:        %s\n", money(summary.TotalRevenue))
	p("Total Transactions:   %d\n", summary.TransactionCount)
	p("Average Order Value:  %s\n", money(summary.AvgOrderValue))
	p("Date Range:           %s to %s\n",
		summary.FirstDate.Format(entity.DateLayout),
		summary.LastDate.Format(entity.DateLayout))
	p("\n")

	p("REGION-WISE PERFORMANCE\n")
	p(section)
	p("%-8s %15s %10s %13s\n", "Region", "Sales", "% of Total", "Transactions")
	for _, r := range summary.RevenueByRegion {
		p("%-8s %15s %9.2f%% %13d\n",
			string(r.Region), money(r.Revenue), r.PercentOfTotal.InexactFloat64(), r.Transactions)
	}
	p("\n")

	p("TOP %d PRODUCTS\n", len(summary.TopProducts))
	p(section)
	p("%-4s %-27s %9s %15s\n", "Rank", "Product Name", "Qty Sold", "Revenue")
	for i, prod := range summary.TopProducts {
		p("%-4d %-27s %9d %15s\n", i+1, truncate(prod.Name, 27), prod.Quantity, money(prod.Revenue))
	}
	p("\n")

	p("TOP %d CUSTOMERS\n", len(summary.TopCustomers))
	p(section)
	p("%-4s %-10s %15s %8s %15s\n", "Rank", "Customer", "Total Spent", "Orders", "Avg Order")
	for i, c := range summary.TopCustomers {
		p("%-4d %-10s %15s %8d %15s\n", i+1, c.CustomerID, money(c.TotalSpent), c.Orders, money(c.AvgOrderValue))
	}
	p("\n")

	p("DAILY SALES TREND\n")
	p(section)
	p("%-12s %15s %6s %17s\n", "Date", "Revenue", "Txns", "Unique Customers")
	for _, d := range summary.DailyTrend {
		p("%-12s %15s %6d %17d\n",
			d.Date.Format(entity.DateLayout), money(d.Revenue), d.Transactions, d.UniqueCustomers)
	}
	p("\n")

	if summary.PeakDay != nil {
		p("PEAK SALES DAY\n")
		p(section)
		p("%s | Revenue: %s | Transactions: %d\n\n",
			summary.PeakDay.Date.Format(entity.DateLayout),
			money(summary.PeakDay.Revenue),
			summary.PeakDay.Transactions)
	}

	p("LOW PERFORMING PRODUCTS\n")
	p(section)
	if len(summary.LowPerformers) == 0 {
		p("None\n")
	} else {
		for _, prod := range summary.LowPerformers {
			p("- %s: Qty=%d, Revenue=%s\n", prod.Name, prod.Quantity, money(prod.Revenue))
		}
	}
	p("\n")

	p("CATALOG ENRICHMENT SUMMARY\n")
	p(section)
	p("Enriched transactions: %d/%d\n",
		run.Enrichment.Matched, run.Enrichment.Matched+run.Enrichment.Unmatched)
	p("Success rate: %.1f%%\n", run.Enrichment.SuccessRate())
	p("Products that couldn't be enriched:\n")
	if len(run.Enrichment.UnmatchedIDs) == 0 {
		p("None\n")
	} else {
		for _, id := range run.Enrichment.UnmatchedIDs {
			p("- %s\n", id)
		}
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
