package view

import (
	"fmt"
	"time"
)

// Price formats a dollar amount with two decimals, e.g. "$1299.99".
func Price(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Date is the short month/day/year form used in tables and detail pages.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("1/2/2006")
}

func StockLabel(inStock bool) string {
	if inStock {
		return "In Stock"
	}
	return "Out of Stock"
}

// StockBadge is StockLabel with a check or cross for the detail page.
func StockBadge(inStock bool) string {
	if inStock {
		return "✓ " + StockLabel(true)
	}
	return "✗ " + StockLabel(false)
}
