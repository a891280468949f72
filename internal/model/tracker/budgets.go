package tracker

import (
	"context"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
)

// LoadBudgets replaces the whole budget collection. Spent figures are
// server-authoritative and are only ever refreshed this way.
func (t *Tracker) LoadBudgets(ctx context.Context) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "loadBudgets")
	defer span.Finish()

	t.setLoading(true)
	defer t.setLoading(false)

	err := t.reloadBudgets(ctx)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return err
}

// reloadBudgets is the refresh leg of the expense-write saga. On failure the
// previous budget snapshot stays in place and the error is recorded.
func (t *Tracker) reloadBudgets(ctx context.Context) error {
	records, err := t.client.ListBudgets(ctx)
	if err != nil {
		t.recordError(err)
		return err
	}
	if records == nil {
		records = []budget.Record{}
	}

	t.mu.Lock()
	t.budgets = records
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistBudgetCache()
	return nil
}

// Budget writes do not touch expense data, so no expense reload follows.
func (t *Tracker) AddBudget(ctx context.Context, rec budget.Record) (budget.Record, bool) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "addBudget")
	defer span.Finish()

	if err := validateBudget(rec); err != nil {
		t.recordError(err)
		return budget.Record{}, false
	}

	t.setLoading(true)
	defer t.setLoading(false)

	created, err := t.client.CreateBudget(ctx, rec)
	if err != nil {
		ext.Error.Set(span, true)
		t.recordError(err)
		return budget.Record{}, false
	}

	t.mu.Lock()
	t.budgets = append([]budget.Record{created}, t.budgets...)
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistBudgetCache()
	return created, true
}

func (t *Tracker) UpdateBudget(ctx context.Context, id string, rec budget.Record) (budget.Record, bool) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "updateBudget")
	defer span.Finish()

	if id == "" {
		t.recordError(&apperr.ValidationError{Field: "id", Reason: "missing budget identity"})
		return budget.Record{}, false
	}
	if err := validateBudget(rec); err != nil {
		t.recordError(err)
		return budget.Record{}, false
	}

	t.setLoading(true)
	defer t.setLoading(false)

	updated, err := t.client.UpdateBudget(ctx, id, rec)
	if err != nil {
		ext.Error.Set(span, true)
		t.recordError(err)
		return budget.Record{}, false
	}

	t.mu.Lock()
	for i := range t.budgets {
		if t.budgets[i].ID == id {
			t.budgets[i] = updated
			break
		}
	}
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistBudgetCache()
	return updated, true
}

func (t *Tracker) DeleteBudget(ctx context.Context, id string) bool {
	span, ctx := opentracing.StartSpanFromContext(ctx, "deleteBudget")
	defer span.Finish()

	if id == "" {
		t.recordError(&apperr.ValidationError{Field: "id", Reason: "missing budget identity"})
		return false
	}

	t.setLoading(true)
	defer t.setLoading(false)

	if err := t.client.DeleteBudget(ctx, id); err != nil {
		ext.Error.Set(span, true)
		t.recordError(err)
		return false
	}

	t.mu.Lock()
	kept := t.budgets[:0]
	for _, b := range t.budgets {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	t.budgets = kept
	t.lastErr = ""
	t.mu.Unlock()
	t.publish()
	t.persistBudgetCache()
	return true
}

func validateBudget(rec budget.Record) error {
	if rec.Category == "" {
		return &apperr.ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if rec.Limit <= 0 {
		return &apperr.ValidationError{Field: "limit", Reason: "must be positive"}
	}
	if !rec.Period.Valid() {
		return &apperr.ValidationError{Field: "period", Reason: "must be weekly, monthly or yearly"}
	}
	return nil
}
