// Package report computes read-only summaries over committed sales.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"dukanpos/internal/domain"
)

// SalesBetween filters sales whose date falls on a day in [from, to],
// inclusive on both ends. Dates compare by UTC calendar day.
func SalesBetween(state domain.DBState, from, to time.Time) []domain.Sale {
	fromDay := from.UTC().Truncate(24 * time.Hour)
	toDay := to.UTC().Truncate(24 * time.Hour)

	sales := make([]domain.Sale, 0)
	for _, sale := range state.Sales {
		day := sale.Date.UTC().Truncate(24 * time.Hour)
		if day.Before(fromDay) || day.After(toDay) {
			continue
		}
		sales = append(sales, sale)
	}
	return sales
}

// Summarize builds the sales report for the inclusive date range. Estimated
// profit values each sold line at its snapshot price minus the item's
// current purchase price; an absent purchase price, or an item deleted since
// the sale, counts as zero cost.
func Summarize(state domain.DBState, from, to time.Time) domain.SalesReport {
	sales := SalesBetween(state, from, to)

	gross := decimal.Zero
	profit := decimal.Zero
	byPayment := map[string]*domain.PaymentBreakdown{}

	for _, sale := range sales {
		gross = gross.Add(sale.Total)

		for _, line := range sale.Items {
			cost := decimal.Zero
			if item, ok := state.FindItem(line.ItemID); ok {
				cost = item.PurchasePrice
			}
			qty := decimal.NewFromInt(int64(line.Quantity))
			profit = profit.Add(line.Price.Sub(cost).Mul(qty))
		}

		bucket, ok := byPayment[sale.PaymentMethod]
		if !ok {
			bucket = &domain.PaymentBreakdown{PaymentMethod: sale.PaymentMethod, Total: decimal.Zero}
			byPayment[sale.PaymentMethod] = bucket
		}
		bucket.Invoices++
		bucket.Total = bucket.Total.Add(sale.Total)
	}

	breakdown := make([]domain.PaymentBreakdown, 0, len(byPayment))
	for _, method := range []string{domain.PaymentCash, domain.PaymentCredit} {
		if bucket, ok := byPayment[method]; ok {
			breakdown = append(breakdown, *bucket)
		}
	}

	return domain.SalesReport{
		From:            from.UTC().Format("2006-01-02"),
		To:              to.UTC().Format("2006-01-02"),
		GrossSales:      gross,
		EstimatedProfit: profit,
		InvoiceCount:    len(sales),
		ByPayment:       breakdown,
	}
}
