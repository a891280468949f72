package tracker

import (
	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
)

// Snapshot is an immutable copy of the store's observable state, published
// to subscribers on every change.
type Snapshot struct {
	Expenses []expense.Record
	Budgets  []budget.Record
	Loading  bool
	Err      string
}

// Subscribe registers an observer. The channel holds only the latest
// snapshot: a slow consumer sees intermediate states dropped, never a
// blocked store. The returned function cancels the subscription.
func (t *Tracker) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	t.mu.Lock()
	t.subs = append(t.subs, ch)
	t.mu.Unlock()

	cancel := func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, sub := range t.subs {
			if sub == ch {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

func (t *Tracker) publish() {
	t.mu.Lock()
	snap := t.snapshotLocked()
	subs := make([]chan Snapshot, len(t.subs))
	copy(subs, t.subs)
	t.mu.Unlock()

	for _, ch := range subs {
		// drop the stale snapshot if the subscriber hasn't drained it
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (t *Tracker) snapshotLocked() Snapshot {
	return Snapshot{
		Expenses: copyExpenses(t.expenses),
		Budgets:  copyBudgets(t.budgets),
		Loading:  t.loading,
		Err:      t.lastErr,
	}
}

// Expenses returns a copy of the current collection; during an error state
// this is whatever snapshot was last successfully loaded.
func (t *Tracker) Expenses() []expense.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyExpenses(t.expenses)
}

func (t *Tracker) Budgets() []budget.Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	return copyBudgets(t.budgets)
}

func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading
}

func (t *Tracker) LastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

func copyExpenses(in []expense.Record) []expense.Record {
	out := make([]expense.Record, len(in))
	copy(out, in)
	return out
}

func copyBudgets(in []budget.Record) []budget.Record {
	out := make([]budget.Record, len(in))
	copy(out, in)
	return out
}
