package view

import (
	"time"

	"github.com/shopspring/decimal"
)

func FormatAmount(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
