/*
money.go - Payment methods and totals aggregation

PURPOSE:
  Pure aggregation over a day's movement lists. Sums are grouped into three
  payment-method buckets per kind; the kind totals and the balance are derived
  from those buckets, so buckets always reconcile with their total exactly.

PRECISION:
  Every sum uses decimal.Decimal. Monetary values are two-decimal fixed-point;
  decimal arithmetic keeps aggregation exact regardless of entry count.
*/
package ledger

import "github.com/shopspring/decimal"

// =============================================================================
// PAYMENT METHOD
// =============================================================================

// PaymentMethod is the closed set of ways cash moves through the register.
type PaymentMethod string

const (
	PayCash PaymentMethod = "Espécie"
	PayPix  PaymentMethod = "Pix"
	PayCard PaymentMethod = "Cartão"
)

// ParsePaymentMethod maps arbitrary input onto the closed enumeration.
// Unrecognized or empty values fold into Cash rather than being dropped,
// so no movement ever escapes aggregation.
func ParsePaymentMethod(s string) PaymentMethod {
	switch PaymentMethod(s) {
	case PayPix:
		return PayPix
	case PayCard:
		return PayCard
	default:
		return PayCash
	}
}

// =============================================================================
// TOTALS
// =============================================================================

// MethodTotals is one per-payment-method bucket set.
type MethodTotals struct {
	Cash decimal.Decimal
	Pix  decimal.Decimal
	Card decimal.Decimal
}

func (m MethodTotals) add(method PaymentMethod, v decimal.Decimal) MethodTotals {
	switch method {
	case PayPix:
		m.Pix = m.Pix.Add(v)
	case PayCard:
		m.Card = m.Card.Add(v)
	default:
		m.Cash = m.Cash.Add(v)
	}
	return m
}

// Sum returns Cash + Pix + Card.
func (m MethodTotals) Sum() decimal.Decimal {
	return m.Cash.Add(m.Pix).Add(m.Card)
}

// Totals is the full aggregate for one day (or one closure snapshot).
type Totals struct {
	InBy     MethodTotals
	OutBy    MethodTotals
	InTotal  decimal.Decimal
	OutTotal decimal.Decimal
	Balance  decimal.Decimal
}

// TotalsForDay aggregates a day's movements. Pure: never fails, never
// mutates. Income and expense lists are summed independently; the balance is
// income minus expense.
func TotalsForDay(day *DayLedger) Totals {
	var t Totals
	for _, in := range day.In {
		t.InBy = t.InBy.add(in.Method, in.Value)
	}
	for _, out := range day.Out {
		t.OutBy = t.OutBy.add(out.Method, out.Value)
	}
	t.InTotal = t.InBy.Sum()
	t.OutTotal = t.OutBy.Sum()
	t.Balance = t.InTotal.Sub(t.OutTotal)
	return t
}
