// Package store provides Store implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/academia/caixa/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	config   ledger.Config
	users    map[string]ledger.User
	days     map[string]*ledger.DayLedger
	closures map[string]ledger.ClosureRecord
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]ledger.User),
		days:     make(map[string]*ledger.DayLedger),
		closures: make(map[string]ledger.ClosureRecord),
	}
}

// Load returns a deep copy of everything persisted so far.
func (m *Memory) Load(_ context.Context) (*ledger.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := ledger.NewSnapshot()
	snap.Config = m.config
	for _, u := range m.users {
		snap.Users = append(snap.Users, u)
	}
	sort.Slice(snap.Users, func(i, j int) bool { return snap.Users[i].Username < snap.Users[j].Username })

	for date, day := range m.days {
		copied := *day
		copied.In = append([]ledger.Income(nil), day.In...)
		copied.Out = append([]ledger.Expense(nil), day.Out...)
		snap.Days[date] = &copied
	}
	for _, rec := range m.closures {
		snap.Closures = append(snap.Closures, rec)
	}
	sort.Slice(snap.Closures, func(i, j int) bool { return snap.Closures[i].Date < snap.Closures[j].Date })
	return snap, nil
}

func (m *Memory) SaveDay(_ context.Context, day *ledger.DayLedger) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *day
	copied.In = append([]ledger.Income(nil), day.In...)
	copied.Out = append([]ledger.Expense(nil), day.Out...)
	m.days[day.Date] = &copied
	return nil
}

func (m *Memory) SaveClosure(_ context.Context, rec ledger.ClosureRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closures[rec.Date] = rec
	return nil
}

func (m *Memory) SaveUser(_ context.Context, u ledger.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Username] = u
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
	return nil
}

func (m *Memory) SaveConfig(_ context.Context, c ledger.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = c
	return nil
}
