package tracker

import (
	"context"
	"sync"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
	"github.com/Ethan-Chiu/EaseABill/internal/logger"
	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
)

type apiClient interface {
	ListExpenses(ctx context.Context, f expense.Filter) ([]expense.Record, error)
	CreateExpense(ctx context.Context, rec expense.Record) (expense.Record, error)
	UpdateExpense(ctx context.Context, id string, rec expense.Record) (expense.Record, error)
	DeleteExpense(ctx context.Context, id string) error
	ListBudgets(ctx context.Context) ([]budget.Record, error)
	CreateBudget(ctx context.Context, rec budget.Record) (budget.Record, error)
	UpdateBudget(ctx context.Context, id string, rec budget.Record) (budget.Record, error)
	DeleteBudget(ctx context.Context, id string) error
}

type snapshotCache interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
}

// Tracker owns the in-memory expense and budget collections for the
// lifetime of an authenticated session. Collections are mutated only here;
// callers read copies and invoke operations. Discard the whole Tracker on
// logout so no data leaks across accounts.
type Tracker struct {
	client apiClient
	cache  snapshotCache // nil disables offline caching

	mu       sync.Mutex
	expenses []expense.Record
	budgets  []budget.Record
	loading  bool
	lastErr  string
	subs     []chan Snapshot
}

func New(client apiClient, cache snapshotCache) *Tracker {
	return &Tracker{client: client, cache: cache}
}

// Outcome reports the two steps of an expense write: the write itself and
// the budget refresh that follows it. The refresh is not transactional with
// the write; a committed write is reported as Written even when the refresh
// fails, with the refresh error kept observable.
type Outcome struct {
	Written    bool
	RefreshErr error
}

// LoadExpenses and LoadBudgets offer no coalescing of overlapping calls:
// two concurrent loads race and the last response to arrive wins. This
// mirrors the single-UI-consumer execution model the store is written for.

// AddExpense/UpdateExpense/DeleteExpense follow the same boundary pattern:
// set loading, call the client, update the collection only on confirmed
// success, record the message of any failure, clear loading. Nothing
// propagates to the caller as an error value; failed refreshes leave the
// previous snapshot in place.
func (t *Tracker) AddExpense(ctx context.Context, rec expense.Record) (expense.Record, Outcome) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "addExpense")
	defer span.Finish()

	if err := validateExpense(rec); err != nil {
		t.recordError(err)
		return expense.Record{}, Outcome{}
	}

	t.setLoading(true)
	defer t.setLoading(false)

	created, err := t.client.CreateExpense(ctx, rec)
	if err != nil {
		ext.Error.Set(span, true)
		t.recordError(err)
		return expense.Record{}, Outcome{}
	}

	t.mu.Lock()
	t.expenses = append([]expense.Record{created}, t.expenses...)
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistExpenseCache()

	return created, Outcome{Written: true, RefreshErr: t.reloadBudgets(ctx)}
}

// UpdateExpense replaces the matching element in place. An id no longer
// present locally is not an error; the server accepted the write and the
// collection is simply left as is.
func (t *Tracker) UpdateExpense(ctx context.Context, id string, rec expense.Record) (expense.Record, Outcome) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateExpense")
	defer span.Finish()

	if id == "" {
		t.recordError(&apperr.ValidationError{Field: "id", Reason: "missing expense identity"})
		return expense.Record{}, Outcome{}
	}
	if err := validateExpense(rec); err != nil {
		t.recordError(err)
		return expense.Record{}, Outcome{}
	}

	t.setLoading(true)
	defer t.setLoading(false)

	updated, err := t.client.UpdateExpense(ctx, id, rec)
	if err != nil {
		ext.Error.Set(span, true)
		t.recordError(err)
		return expense.Record{}, Outcome{}
	}

	t.mu.Lock()
	for i := range t.expenses {
		if t.expenses[i].ID == id {
			t.expenses[i] = updated
			break
		}
	}
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistExpenseCache()

	return updated, Outcome{Written: true, RefreshErr: t.reloadBudgets(ctx)}
}

func (t *Tracker) DeleteExpense(ctx context.Context, id string) Outcome {
	span, ctx := opentracing.StartSpanFromContext(ctx, "deleteExpense")
	defer span.Finish()

	if id == "" {
		t.recordError(&apperr.ValidationError{Field: "id", Reason: "missing expense identity"})
		return Outcome{}
	}

	t.setLoading(true)
	defer t.setLoading(false)

	if err := t.client.DeleteExpense(ctx, id); err != nil {
		ext.Error.Set(span, true)
		t.recordError(err)
		return Outcome{}
	}

	t.mu.Lock()
	kept := t.expenses[:0]
	for _, e := range t.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	t.expenses = kept
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistExpenseCache()

	return Outcome{Written: true, RefreshErr: t.reloadBudgets(ctx)}
}

// LoadExpenses replaces the whole collection with the server's result for
// the given filter; it never merges.
func (t *Tracker) LoadExpenses(ctx context.Context, f expense.Filter) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "loadExpenses")
	defer span.Finish()

	t.setLoading(true)
	defer t.setLoading(false)

	records, err := t.client.ListExpenses(ctx, f)
	if err != nil {
		ext.Error.Set(span, true)
		t.recordError(err)
		return err
	}
	if records == nil {
		records = []expense.Record{}
	}

	t.mu.Lock()
	t.expenses = records
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistExpenseCache()
	return nil
}

// Refresh reloads both collections concurrently. It is per-leg, not
// all-or-nothing: a leg that succeeds replaces its collection even when the
// other leg fails and Refresh returns that error.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.setLoading(true)
	defer t.setLoading(false)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, err := t.client.ListExpenses(ctx, expense.Filter{})
		if err != nil {
			return err
		}
		t.mu.Lock()
		t.expenses = records
		t.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		records, err := t.client.ListBudgets(ctx)
		if err != nil {
			return err
		}
		t.mu.Lock()
		t.budgets = records
		t.mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		t.recordError(err)
		return err
	}

	t.mu.Lock()
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistExpenseCache()
	t.persistBudgetCache()
	return nil
}

func validateExpense(rec expense.Record) error {
	if rec.Title == "" {
		return &apperr.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if rec.Amount <= 0 {
		return &apperr.ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if rec.Category == "" {
		return &apperr.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	return nil
}

func (t *Tracker) recordError(err error) {
	t.mu.Lock()
	t.lastErr = apperr.Message(err)
	t.mu.Unlock()
	t.publish()
	logger.Warn("tracker operation failed", zap.Error(err))
}

func (t *Tracker) setLoading(v bool) {
	t.mu.Lock()
	t.loading = v
	t.mu.Unlock()
	t.publish()
}
