/*
register.go - The ledger store: movement CRUD and day lifecycle

PURPOSE:
  Register is the single source of truth for all cash data. It owns the
  date -> DayLedger map and the closure log, loaded once from the Store and
  written through after every mutation.

MUTATION GATING:
  Every mutating entry point (AddIncome, AddExpense, DeleteMovement, and
  CloseDay in closure.go) goes through one choke point that rejects closed
  days. There is no other path to a day's movement lists.

CONCURRENCY:
  The register is single-actor; the mutex only serializes the HTTP layer's
  synchronous calls. There is no cross-process coordination: a second writer
  against the same store is out of contract and last-write-wins.

SEE ALSO:
  - closure.go: CloseDay and the closure log
  - history.go: range queries over many days
  - customers.go: per-customer projections
*/
package ledger

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Register owns the full register state.
type Register struct {
	mu       sync.Mutex
	store    Store
	clock    Clock
	config   Config
	days     map[string]*DayLedger
	closures map[string]ClosureRecord
}

// NewRegister loads the persisted snapshot and returns a ready register.
func NewRegister(ctx context.Context, store Store, clock Clock) (*Register, error) {
	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}

	r := &Register{
		store:    store,
		clock:    clock,
		config:   snap.Config.Normalize(),
		days:     snap.Days,
		closures: make(map[string]ClosureRecord, len(snap.Closures)),
	}
	if r.days == nil {
		r.days = make(map[string]*DayLedger)
	}
	for _, c := range snap.Closures {
		r.closures[c.Date] = c
	}
	return r, nil
}

// =============================================================================
// DAY ACCESS
// =============================================================================

// ensureDay returns the live ledger for a date, creating an empty open one
// if the date has never been touched. Callers hold r.mu.
func (r *Register) ensureDay(date string) *DayLedger {
	day, ok := r.days[date]
	if !ok {
		day = &DayLedger{Date: date}
		r.days[date] = day
	}
	return day
}

// mutableDay is the closed-day choke point: every mutation goes through
// here and nowhere else.
func (r *Register) mutableDay(date, op string) (*DayLedger, error) {
	day := r.ensureDay(date)
	if day.Closed {
		return nil, &ClosedDayError{Date: date, Op: op}
	}
	return day, nil
}

// Day returns a copy of the ledger for a date, creating the day lazily if
// absent. Never fails; callers own the copy.
func (r *Register) Day(date string) DayLedger {
	r.mu.Lock()
	defer r.mu.Unlock()
	return copyDay(r.ensureDay(date))
}

// Today returns the clock's current calendar date.
func (r *Register) Today() string { return r.clock.Today() }

// =============================================================================
// MOVEMENT CRUD
// =============================================================================

// IncomeInput carries the caller-supplied fields of a new inflow.
type IncomeInput struct {
	Customer string
	Type     string
	Method   PaymentMethod
	Value    decimal.Decimal
	Receiver string // defaults to the acting user when empty
	Note     string
}

// ExpenseInput carries the caller-supplied fields of a new outflow.
type ExpenseInput struct {
	Category    string
	Description string
	Method      PaymentMethod
	Value       decimal.Decimal
}

// AddIncome records an inflow on the given date. Fails with ClosedDayError
// when the day is closed, ValidationError on a non-positive value or empty
// receiver. The movement gets a fresh identifier and the current time of day.
func (r *Register) AddIncome(ctx context.Context, date string, in IncomeInput, actor Actor) (Income, error) {
	if !in.Value.IsPositive() {
		return Income{}, &ValidationError{Field: "value", Message: "must be positive"}
	}
	receiver := strings.TrimSpace(in.Receiver)
	if receiver == "" {
		receiver = actor.Username
	}
	if receiver == "" {
		return Income{}, &ValidationError{Field: "receiver", Message: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	day, err := r.mutableDay(date, "add_income")
	if err != nil {
		return Income{}, err
	}

	mv := Income{
		ID:        MovementID(uuid.NewString()),
		Date:      date,
		Time:      r.clock.Now(),
		Customer:  strings.TrimSpace(in.Customer),
		Type:      in.Type,
		Method:    in.Method,
		Value:     in.Value,
		Receiver:  receiver,
		Note:      in.Note,
		CreatedBy: actor.Username,
	}
	day.In = append(day.In, mv)

	if err := r.store.SaveDay(ctx, day); err != nil {
		day.In = day.In[:len(day.In)-1]
		return Income{}, err
	}
	return mv, nil
}

// AddExpense records an outflow on the given date. Symmetric to AddIncome;
// the description is required.
func (r *Register) AddExpense(ctx context.Context, date string, out ExpenseInput, actor Actor) (Expense, error) {
	if !out.Value.IsPositive() {
		return Expense{}, &ValidationError{Field: "value", Message: "must be positive"}
	}
	if strings.TrimSpace(out.Description) == "" {
		return Expense{}, &ValidationError{Field: "description", Message: "must not be empty"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	day, err := r.mutableDay(date, "add_expense")
	if err != nil {
		return Expense{}, err
	}

	mv := Expense{
		ID:          MovementID(uuid.NewString()),
		Date:        date,
		Time:        r.clock.Now(),
		Category:    out.Category,
		Description: strings.TrimSpace(out.Description),
		Method:      out.Method,
		Value:       out.Value,
		CreatedBy:   actor.Username,
	}
	day.Out = append(day.Out, mv)

	if err := r.store.SaveDay(ctx, day); err != nil {
		day.Out = day.Out[:len(day.Out)-1]
		return Expense{}, err
	}
	return mv, nil
}

// DeleteMovement removes the movement with the given id from the named list.
// Fails with ClosedDayError on a closed day; an unknown id reports false,
// not an error.
func (r *Register) DeleteMovement(ctx context.Context, date string, kind Kind, id MovementID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day, err := r.mutableDay(date, "delete_movement")
	if err != nil {
		return false, err
	}

	var (
		removed    bool
		removedAt  int
		removedIn  Income
		removedOut Expense
	)
	switch kind {
	case KindIncome:
		for i, mv := range day.In {
			if mv.ID == id {
				removedAt, removedIn = i, mv
				day.In = append(day.In[:i], day.In[i+1:]...)
				removed = true
				break
			}
		}
	case KindExpense:
		for i, mv := range day.Out {
			if mv.ID == id {
				removedAt, removedOut = i, mv
				day.Out = append(day.Out[:i], day.Out[i+1:]...)
				removed = true
				break
			}
		}
	default:
		return false, &ValidationError{Field: "kind", Message: "must be income or expense"}
	}

	if !removed {
		return false, nil
	}
	if err := r.store.SaveDay(ctx, day); err != nil {
		// Put the movement back at its original position so the live
		// register keeps matching the store.
		switch kind {
		case KindIncome:
			day.In = append(day.In[:removedAt], append([]Income{removedIn}, day.In[removedAt:]...)...)
		case KindExpense:
			day.Out = append(day.Out[:removedAt], append([]Expense{removedOut}, day.Out[removedAt:]...)...)
		}
		return false, err
	}
	return true, nil
}

// =============================================================================
// CONFIG
// =============================================================================

// Config returns the register branding.
func (r *Register) Config() Config {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config
}

// SetConfig normalizes and persists new branding.
func (r *Register) SetConfig(ctx context.Context, c Config) (Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	normalized := c.Normalize()
	if err := r.store.SaveConfig(ctx, normalized); err != nil {
		return Config{}, err
	}
	r.config = normalized
	return normalized, nil
}

// =============================================================================
// COPY HELPERS
// =============================================================================

func copyDay(day *DayLedger) DayLedger {
	out := *day
	out.In = append([]Income(nil), day.In...)
	out.Out = append([]Expense(nil), day.Out...)
	return out
}

func sortedDatesDesc(days map[string]*DayLedger) []string {
	dates := make([]string, 0, len(days))
	for d := range days {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}
