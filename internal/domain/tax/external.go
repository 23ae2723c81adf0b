package tax

import (
	"context"

	"github.com/shopspring/decimal"
)

// LineItem describes one order line for an external tax calculation.
type LineItem struct {
	ID        string
	Quantity  int
	UnitPrice decimal.Decimal
	TaxCode   string
}

// ConnectionStatus reports the outcome of an external provider probe.
type ConnectionStatus struct {
	Success bool
	Message string
}

// ExternalCalculator is the port for a third-party tax service. Implementations
// return an error rather than guessing; the caller decides how to fall back.
type ExternalCalculator interface {
	ComputeTax(ctx context.Context, subtotal, shipping decimal.Decimal, zipCode string, items []LineItem) (*Calculation, error)
	TestConnection(ctx context.Context) ConnectionStatus
}
