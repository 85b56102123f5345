package catalog

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64
	Name        string
	Quantity    int
	Cost        decimal.Decimal
	Description string
	URL         string
}
