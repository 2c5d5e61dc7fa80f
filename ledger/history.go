/*
history.go - Range queries across many days

PURPOSE:
  Flattens every movement between two inclusive calendar dates into one
  time-ordered view for history screens and period reports. Always recomputed
  from the authoritative per-day lists; nothing here is cached.

ORDERING:
  Newest date first. Within a date, records keep the per-day insertion order
  (income before expense, as the day lists provide them); this layer does not
  re-sort by time of day.

SIGN CONVENTION:
  Income values stay positive, expense values are negated in the view.
  Range totals sum absolute values per kind, so both aggregates are
  non-negative regardless of the stored sign.
*/
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RecordView is one flattened movement as history screens and reports
// consume it.
type RecordView struct {
	Kind     Kind
	Date     string
	Detail   string // category/type plus customer for income, category plus description for expense
	Method   PaymentMethod
	Value    decimal.Decimal // signed: income positive, expense negative
	Operator string          // receiver for income, creator for expense
}

// RangeFilter restricts a range query to one movement kind.
type RangeFilter string

const (
	FilterAll     RangeFilter = ""
	FilterIncome  RangeFilter = "income"
	FilterExpense RangeFilter = "expense"
)

// RangeTotals aggregates a filtered range. InTotal and OutTotal are sums of
// absolute values and therefore never negative.
type RangeTotals struct {
	InTotal  decimal.Decimal
	OutTotal decimal.Decimal
	Balance  decimal.Decimal
	Count    int
}

// MovementsInRange returns every movement between from and to (inclusive),
// newest date first, optionally restricted to one kind. Dates with no ledger
// contribute nothing. Fails with InvalidRangeError when either bound does
// not parse as a calendar date.
func (r *Register) MovementsInRange(from, to string, filter RangeFilter) ([]RecordView, error) {
	if _, err := ParseDate(from); err != nil {
		return nil, &InvalidRangeError{From: from, To: to}
	}
	if _, err := ParseDate(to); err != nil {
		return nil, &InvalidRangeError{From: from, To: to}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []RecordView
	// Only dates with a ledger are visited; ISO dates compare correctly as
	// strings, and the descending walk makes the result newest date first
	// without a re-sort.
	for _, date := range sortedDatesDesc(r.days) {
		if date > to || date < from {
			continue
		}
		day := r.days[date]
		for _, in := range day.In {
			if filter == FilterExpense {
				continue
			}
			out = append(out, incomeView(in))
		}
		for _, ex := range day.Out {
			if filter == FilterIncome {
				continue
			}
			out = append(out, expenseView(ex))
		}
	}
	return out, nil
}

// RangeTotalsOf aggregates an already-filtered record list.
func RangeTotalsOf(records []RecordView) RangeTotals {
	t := RangeTotals{Count: len(records)}
	for _, rec := range records {
		switch rec.Kind {
		case KindIncome:
			t.InTotal = t.InTotal.Add(rec.Value.Abs())
		case KindExpense:
			t.OutTotal = t.OutTotal.Add(rec.Value.Abs())
		}
	}
	t.Balance = t.InTotal.Sub(t.OutTotal)
	return t
}

func incomeView(in Income) RecordView {
	detail := in.Type
	if in.Customer != "" {
		detail = fmt.Sprintf("%s • %s", in.Type, in.Customer)
	}
	return RecordView{
		Kind:     KindIncome,
		Date:     in.Date,
		Detail:   detail,
		Method:   in.Method,
		Value:    in.Value,
		Operator: in.Receiver,
	}
}

func expenseView(ex Expense) RecordView {
	return RecordView{
		Kind:     KindExpense,
		Date:     ex.Date,
		Detail:   fmt.Sprintf("%s • %s", ex.Category, ex.Description),
		Method:   ex.Method,
		Value:    ex.Value.Abs().Neg(),
		Operator: ex.CreatedBy,
	}
}
