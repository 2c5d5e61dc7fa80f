/*
Package ledger implements the core of a single-register cash tracker.

PURPOSE:
  This package contains the domain types and algorithms for recording daily
  cash movements, aggregating them by payment method, locking a day through
  an irreversible closure, and querying history across dates and customers.

KEY CONCEPTS IN THIS FILE (types.go):
  - Income/Expense: immutable cash movements belonging to one calendar day
  - DayLedger: per-date record of movements plus closure status
  - ClosureRecord: permanent totals snapshot taken when a day is closed
  - User/Config: identity and register branding persisted alongside the ledger

DESIGN PRINCIPLES:
  1. Immutability: movements are never edited, only deleted while a day is open
  2. Precision: decimal.Decimal for every monetary value, no floats
  3. Single choke point: every mutation of a day is gated on its closed flag
  4. Derived totals: aggregates are always recomputed from the movement lists

SEE ALSO:
  - money.go: payment methods and totals aggregation
  - register.go: movement CRUD and day lifecycle
  - closure.go: the open -> closed state machine
  - history.go / customers.go: read-only projections
*/
package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// MovementID uniquely identifies a single movement within its day list.
type MovementID string

// Kind tags a movement as an inflow or an outflow.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// =============================================================================
// MOVEMENTS
// =============================================================================

// Income is one recorded cash inflow. Immutable once created; the only
// allowed change is deletion while the owning day is still open.
type Income struct {
	ID        MovementID
	Date      string // ISO calendar date, matches the owning DayLedger key
	Time      string // time of day, HH:MM
	Customer  string // free text; empty means "no customer"
	Type      string // income category, e.g. "Mensalidade", "Diária"
	Method    PaymentMethod
	Value     decimal.Decimal
	Receiver  string // operator who received the money
	Note      string
	CreatedBy string // actor who recorded the entry
}

// Expense is one recorded cash outflow. Value is stored as a positive
// magnitude; the sign is applied only during aggregation.
type Expense struct {
	ID          MovementID
	Date        string
	Time        string
	Category    string
	Description string
	Method      PaymentMethod
	Value       decimal.Decimal
	CreatedBy   string
}

// =============================================================================
// DAY LEDGER
// =============================================================================

// DayLedger holds everything recorded for one calendar date. Created lazily
// the first time a date is touched; never deleted.
//
// INVARIANT: Closed == true implies no movement may be added to or removed
// from either list. Closed == false implies ClosedAt and ClosedBy are empty.
type DayLedger struct {
	Date     string
	In       []Income  // insertion order
	Out      []Expense // insertion order
	Closed   bool
	ClosedAt string // HH:MM, empty while open
	ClosedBy string // actor identifier, empty while open
}

// ClosureRecord is the permanent snapshot written when a day transitions to
// closed. One record per date; the DayLedger's Closed flag is the single
// source of truth preventing a second write.
type ClosureRecord struct {
	Date     string
	Totals   Totals
	ClosedAt string
	ClosedBy string
}

// =============================================================================
// IDENTITY & CONFIG (persisted alongside the ledger)
// =============================================================================

// Role gates privileged operations such as account management.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleOperator Role = "Operador"
)

// User is a register account. CredentialHash is opaque to this package;
// the session collaborator owns its format.
type User struct {
	Username       string
	CredentialHash string
	Role           Role
}

// Actor identifies who is performing an operation.
type Actor struct {
	Username string
	Role     Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Config is the register branding shown on screens and report headers.
type Config struct {
	Name string
	Logo string // two-letter initials
}

// Normalize applies the same cleanup the original register performs when
// saving settings: trimmed name with a fallback, logo cut to two upper-case
// characters.
func (c Config) Normalize() Config {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "Caixa Academia"
	}
	logo := strings.ToUpper(strings.TrimSpace(c.Logo))
	if logo == "" {
		logo = "CA"
	}
	if r := []rune(logo); len(r) > 2 {
		logo = string(r[:2])
	}
	return Config{Name: name, Logo: logo}
}
