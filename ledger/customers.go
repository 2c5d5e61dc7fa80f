/*
customers.go - Per-customer income projections

PURPOSE:
  A "customer" is not an entity of its own: it is the distinct set of
  non-empty trimmed customer names observed across all income movements.
  Matching is exact string equality after trimming, no case folding or
  diacritic normalization; two spellings that trimming does not unify are
  two customers.

SORTING:
  Customer lists sort with Brazilian Portuguese collation, matching what the
  register's screens have always shown.
*/
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ListCustomers scans every income movement and returns the distinct
// non-empty trimmed customer names, locale-sorted. The collator is built per
// call: collate.Collator carries sorter state and must not be shared across
// registers.
func (r *Register) ListCustomers() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{})
	for _, day := range r.days {
		for _, in := range day.In {
			name := strings.TrimSpace(in.Customer)
			if name == "" {
				continue
			}
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	collate.New(language.BrazilianPortuguese).SortStrings(names)
	return names
}

// CustomerRecord is one income entry in a customer's history.
type CustomerRecord struct {
	Date     string
	Time     string
	Type     string
	Method   PaymentMethod
	Value    decimal.Decimal
	Receiver string
	Note     string
}

// CustomerHistory returns every income movement whose trimmed customer name
// equals the trimmed query exactly, newest date first, plus the running
// total of all matched values. An unknown name yields an empty history, not
// an error.
func (r *Register) CustomerHistory(name string) ([]CustomerRecord, decimal.Decimal) {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		records []CustomerRecord
		total   decimal.Decimal
	)
	if name == "" {
		return nil, total
	}

	for _, date := range sortedDatesDesc(r.days) {
		for _, in := range r.days[date].In {
			if strings.TrimSpace(in.Customer) != name {
				continue
			}
			records = append(records, CustomerRecord{
				Date:     in.Date,
				Time:     in.Time,
				Type:     in.Type,
				Method:   in.Method,
				Value:    in.Value,
				Receiver: in.Receiver,
				Note:     in.Note,
			})
			total = total.Add(in.Value)
		}
	}
	return records, total
}
