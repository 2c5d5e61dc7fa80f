/*
closure.go - The open -> closed state machine

PURPOSE:
  A day is born Open (implicitly, on first touch) and may transition to
  Closed exactly once. Closed is terminal: no operation reopens a day, and
  every mutation of a closed day is rejected at the register's choke point.

CLOSURE RECORD:
  Closing snapshots the day's totals into a permanent log entry, keyed by
  date. Re-closing is rejected before anything is touched, so the log is
  written at most once per date under correct operation.
*/
package ledger

import (
	"context"
	"sort"
)

// CloseDay transitions a date from Open to Closed, snapshotting the
// pre-closure totals into the closure log. Fails with AlreadyClosedError if
// the day is already closed; nothing is mutated on rejection.
func (r *Register) CloseDay(ctx context.Context, date string, actor Actor) (ClosureRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := r.ensureDay(date)
	if day.Closed {
		return ClosureRecord{}, &AlreadyClosedError{
			Date:     date,
			ClosedAt: day.ClosedAt,
			ClosedBy: day.ClosedBy,
		}
	}

	rec := ClosureRecord{
		Date:     date,
		Totals:   TotalsForDay(day),
		ClosedAt: r.clock.Now(),
		ClosedBy: actor.Username,
	}

	day.Closed = true
	day.ClosedAt = rec.ClosedAt
	day.ClosedBy = rec.ClosedBy

	if err := r.store.SaveDay(ctx, day); err != nil {
		day.Closed = false
		day.ClosedAt = ""
		day.ClosedBy = ""
		return ClosureRecord{}, err
	}
	if err := r.store.SaveClosure(ctx, rec); err != nil {
		// A closed day must never exist without its closure record; reopen
		// the day in memory and in the store so the closure can be retried.
		day.Closed = false
		day.ClosedAt = ""
		day.ClosedBy = ""
		r.store.SaveDay(ctx, day)
		return ClosureRecord{}, err
	}

	r.closures[date] = rec
	return rec, nil
}

// Closure returns the closure record for a date, if the date was closed.
func (r *Register) Closure(date string) (ClosureRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.closures[date]
	return rec, ok
}

// Closures returns the full closure log, newest date first.
func (r *Register) Closures() []ClosureRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ClosureRecord, 0, len(r.closures))
	for _, rec := range r.closures {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}
