/*
store.go - Persistence interface for the register state

PURPOSE:
  Defines the boundary between the register core and durable storage. The
  store holds the entire persisted state: branding config, user accounts,
  the date -> DayLedger map, and the closure log.

CONTRACT:
  Load returns the full snapshot once, at register construction; afterwards
  the Register owns the authoritative in-memory state and writes the touched
  aggregate back after every mutation. Each call is atomic on its own; there
  is no cross-call transaction and no concurrent-writer guarantee (the
  register is single-actor by design).

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - ledger/store: in-memory store for tests and dev
*/
package ledger

import "context"

// Snapshot is the entire persisted state of one register.
type Snapshot struct {
	Config   Config
	Users    []User
	Days     map[string]*DayLedger // keyed by ISO date
	Closures []ClosureRecord       // append/update-by-date log
}

// NewSnapshot returns an empty snapshot with initialized containers.
func NewSnapshot() *Snapshot {
	return &Snapshot{Days: make(map[string]*DayLedger)}
}

// Store persists register state. Writes cover one aggregate at a time;
// SaveDay and SaveClosure replace the record for their date.
type Store interface {
	// Load returns the full persisted snapshot. A fresh store returns an
	// empty snapshot, not an error.
	Load(ctx context.Context) (*Snapshot, error)

	// SaveDay persists the full DayLedger for one date.
	SaveDay(ctx context.Context, day *DayLedger) error

	// SaveClosure persists one closure record, replacing any prior record
	// for the same date.
	SaveClosure(ctx context.Context, rec ClosureRecord) error

	// SaveUser inserts or replaces one account.
	SaveUser(ctx context.Context, u User) error

	// DeleteUser removes one account. Deleting an unknown user is not an
	// error at this layer; the caller decides whether absence matters.
	DeleteUser(ctx context.Context, username string) error

	// SaveConfig persists the register branding.
	SaveConfig(ctx context.Context, c Config) error
}
