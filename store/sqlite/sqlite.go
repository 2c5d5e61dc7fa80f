/*
Package sqlite provides the SQLite-backed implementation of ledger.Store.

PURPOSE:
  Durable storage for the whole register state: branding config, user
  accounts, day ledgers with their movements, and the closure log.

PERSISTENCE MODEL:
  The register loads the full snapshot once at startup and writes back the
  touched aggregate after every mutation. SaveDay rewrites one day's row and
  its movement rows inside a single database transaction; that transaction is
  the only atomicity guarantee, matching the register's single-call contract.

KEY TABLES:
  config:    single-row register branding
  users:     accounts with credential hashes
  days:      per-date closure status
  movements: income and expense rows, ordered by (date, kind, position)
  closures:  one totals snapshot per closed date

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better crash recovery.

USAGE:
  st, err := sqlite.New("./data/caixa.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()
  reg, err := ledger.NewRegister(ctx, st, ledger.SystemClock{})

SEE ALSO:
  - ledger/store.go: interface definition
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/academia/caixa/ledger"
)

// Store implements ledger.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS config (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT NOT NULL,
		logo TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS users (
		username TEXT PRIMARY KEY,
		credential_hash TEXT NOT NULL,
		role TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS days (
		date TEXT PRIMARY KEY,
		closed BOOLEAN NOT NULL DEFAULT FALSE,
		closed_at TEXT,
		closed_by TEXT
	);

	CREATE TABLE IF NOT EXISTS movements (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL REFERENCES days(date),
		kind TEXT NOT NULL,
		position INTEGER NOT NULL,
		time TEXT NOT NULL,
		customer TEXT,
		category TEXT,
		description TEXT,
		method TEXT NOT NULL,
		value TEXT NOT NULL,
		receiver TEXT,
		note TEXT,
		created_by TEXT NOT NULL
	);

	-- Snapshot load and per-day rewrites both walk this index.
	CREATE INDEX IF NOT EXISTS idx_movements_date_kind
		ON movements(date, kind, position);

	CREATE TABLE IF NOT EXISTS closures (
		date TEXT PRIMARY KEY,
		in_total TEXT NOT NULL,
		out_total TEXT NOT NULL,
		balance TEXT NOT NULL,
		in_cash TEXT NOT NULL,
		in_pix TEXT NOT NULL,
		in_card TEXT NOT NULL,
		out_cash TEXT NOT NULL,
		out_pix TEXT NOT NULL,
		out_card TEXT NOT NULL,
		closed_at TEXT NOT NULL,
		closed_by TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SNAPSHOT LOAD
// =============================================================================

// Load reads the entire persisted state.
func (s *Store) Load(ctx context.Context) (*ledger.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := ledger.NewSnapshot()

	if err := s.loadConfig(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadUsers(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadDays(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadMovements(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadClosures(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadConfig(ctx context.Context, snap *ledger.Snapshot) error {
	err := s.db.QueryRowContext(ctx, "SELECT name, logo FROM config WHERE id = 1").
		Scan(&snap.Config.Name, &snap.Config.Logo)
	if err == sql.ErrNoRows {
		return nil
	}
	return err
}

func (s *Store) loadUsers(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT username, credential_hash, role FROM users ORDER BY username")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u ledger.User
		if err := rows.Scan(&u.Username, &u.CredentialHash, &u.Role); err != nil {
			return err
		}
		snap.Users = append(snap.Users, u)
	}
	return rows.Err()
}

func (s *Store) loadDays(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date, closed, closed_at, closed_by FROM days ORDER BY date")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date               string
			closed             bool
			closedAt, closedBy sql.NullString
		)
		if err := rows.Scan(&date, &closed, &closedAt, &closedBy); err != nil {
			return err
		}
		snap.Days[date] = &ledger.DayLedger{
			Date:     date,
			Closed:   closed,
			ClosedAt: closedAt.String,
			ClosedBy: closedBy.String,
		}
	}
	return rows.Err()
}

func (s *Store) loadMovements(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, kind, id, time, customer, category, description,
		       method, value, receiver, note, created_by
		FROM movements
		ORDER BY date, kind, position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			date, kind, id, timeOfDay, method, value, createdBy string
			customer, category, description, receiver, note     sql.NullString
		)
		if err := rows.Scan(&date, &kind, &id, &timeOfDay, &customer, &category,
			&description, &method, &value, &receiver, &note, &createdBy); err != nil {
			return err
		}

		day, ok := snap.Days[date]
		if !ok {
			day = &ledger.DayLedger{Date: date}
			snap.Days[date] = day
		}

		amount, err := parseDecimal(value)
		if err != nil {
			return fmt.Errorf("movement %s: %w", id, err)
		}
		switch ledger.Kind(kind) {
		case ledger.KindIncome:
			day.In = append(day.In, ledger.Income{
				ID:        ledger.MovementID(id),
				Date:      date,
				Time:      timeOfDay,
				Customer:  customer.String,
				Type:      category.String,
				Method:    ledger.PaymentMethod(method),
				Value:     amount,
				Receiver:  receiver.String,
				Note:      note.String,
				CreatedBy: createdBy,
			})
		case ledger.KindExpense:
			day.Out = append(day.Out, ledger.Expense{
				ID:          ledger.MovementID(id),
				Date:        date,
				Time:        timeOfDay,
				Category:    category.String,
				Description: description.String,
				Method:      ledger.PaymentMethod(method),
				Value:       amount,
				CreatedBy:   createdBy,
			})
		}
	}
	return rows.Err()
}

func (s *Store) loadClosures(ctx context.Context, snap *ledger.Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, in_total, out_total, balance,
		       in_cash, in_pix, in_card, out_cash, out_pix, out_card,
		       closed_at, closed_by
		FROM closures
		ORDER BY date
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec                                             ledger.ClosureRecord
			inTotal, outTotal, balance                      string
			inCash, inPix, inCard, outCash, outPix, outCard string
		)
		if err := rows.Scan(&rec.Date, &inTotal, &outTotal, &balance,
			&inCash, &inPix, &inCard, &outCash, &outPix, &outCard,
			&rec.ClosedAt, &rec.ClosedBy); err != nil {
			return err
		}
		cells := []struct {
			raw string
			dst *decimal.Decimal
		}{
			{inTotal, &rec.Totals.InTotal},
			{outTotal, &rec.Totals.OutTotal},
			{balance, &rec.Totals.Balance},
			{inCash, &rec.Totals.InBy.Cash},
			{inPix, &rec.Totals.InBy.Pix},
			{inCard, &rec.Totals.InBy.Card},
			{outCash, &rec.Totals.OutBy.Cash},
			{outPix, &rec.Totals.OutBy.Pix},
			{outCard, &rec.Totals.OutBy.Card},
		}
		for _, c := range cells {
			d, err := parseDecimal(c.raw)
			if err != nil {
				return fmt.Errorf("closure %s: %w", rec.Date, err)
			}
			*c.dst = d
		}
		snap.Closures = append(snap.Closures, rec)
	}
	return rows.Err()
}

// =============================================================================
// WRITES
// =============================================================================

// SaveDay rewrites one day and its movement rows atomically.
func (s *Store) SaveDay(ctx context.Context, day *ledger.DayLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO days (date, closed, closed_at, closed_by)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			closed = excluded.closed,
			closed_at = excluded.closed_at,
			closed_by = excluded.closed_by
	`, day.Date, day.Closed, nullString(day.ClosedAt), nullString(day.ClosedBy))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM movements WHERE date = ?", day.Date); err != nil {
		return err
	}

	const insert = `
		INSERT INTO movements
		(id, date, kind, position, time, customer, category, description,
		 method, value, receiver, note, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, in := range day.In {
		_, err := tx.ExecContext(ctx, insert,
			string(in.ID), day.Date, string(ledger.KindIncome), i, in.Time,
			nullString(in.Customer), nullString(in.Type), nil,
			string(in.Method), in.Value.String(),
			nullString(in.Receiver), nullString(in.Note), in.CreatedBy,
		)
		if err != nil {
			return err
		}
	}
	for i, out := range day.Out {
		_, err := tx.ExecContext(ctx, insert,
			string(out.ID), day.Date, string(ledger.KindExpense), i, out.Time,
			nil, nullString(out.Category), nullString(out.Description),
			string(out.Method), out.Value.String(),
			nil, nil, out.CreatedBy,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SaveClosure writes or replaces the closure record for a date.
func (s *Store) SaveClosure(ctx context.Context, rec ledger.ClosureRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO closures
		(date, in_total, out_total, balance,
		 in_cash, in_pix, in_card, out_cash, out_pix, out_card,
		 closed_at, closed_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			in_total = excluded.in_total,
			out_total = excluded.out_total,
			balance = excluded.balance,
			in_cash = excluded.in_cash,
			in_pix = excluded.in_pix,
			in_card = excluded.in_card,
			out_cash = excluded.out_cash,
			out_pix = excluded.out_pix,
			out_card = excluded.out_card,
			closed_at = excluded.closed_at,
			closed_by = excluded.closed_by
	`,
		rec.Date,
		rec.Totals.InTotal.String(), rec.Totals.OutTotal.String(), rec.Totals.Balance.String(),
		rec.Totals.InBy.Cash.String(), rec.Totals.InBy.Pix.String(), rec.Totals.InBy.Card.String(),
		rec.Totals.OutBy.Cash.String(), rec.Totals.OutBy.Pix.String(), rec.Totals.OutBy.Card.String(),
		rec.ClosedAt, rec.ClosedBy,
	)
	return err
}

// SaveUser inserts or replaces one account.
func (s *Store) SaveUser(ctx context.Context, u ledger.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, credential_hash, role)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			credential_hash = excluded.credential_hash,
			role = excluded.role
	`, u.Username, u.CredentialHash, string(u.Role))
	return err
}

// DeleteUser removes one account.
func (s *Store) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE username = ?", username)
	return err
}

// SaveConfig persists the register branding.
func (s *Store) SaveConfig(ctx context.Context, c ledger.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (id, name, logo)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			logo = excluded.logo
	`, c.Name, c.Logo)
	return err
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func parseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("corrupt monetary value %q: %w", s, err)
	}
	return d, nil
}
