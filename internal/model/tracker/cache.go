package tracker

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
	"github.com/Ethan-Chiu/EaseABill/internal/logger"
	"github.com/Ethan-Chiu/EaseABill/internal/model/storage"
)

// The offline cache is best effort: write failures are logged and the
// operation that triggered them still succeeds.

func (t *Tracker) persistExpenseCache() {
	if t.cache == nil {
		return
	}
	t.mu.Lock()
	records := copyExpenses(t.expenses)
	t.mu.Unlock()

	raw, err := json.Marshal(records)
	if err != nil {
		logger.Warn("cannot marshal expense cache", zap.Error(err))
		return
	}
	if err = t.cache.Set(storage.KeyExpenseCache, raw); err != nil {
		logger.Warn("cannot persist expense cache", zap.Error(err))
	}
}

func (t *Tracker) persistBudgetCache() {
	if t.cache == nil {
		return
	}
	t.mu.Lock()
	records := copyBudgets(t.budgets)
	t.mu.Unlock()

	raw, err := json.Marshal(records)
	if err != nil {
		logger.Warn("cannot marshal budget cache", zap.Error(err))
		return
	}
	if err = t.cache.Set(storage.KeyBudgetCache, raw); err != nil {
		logger.Warn("cannot persist budget cache", zap.Error(err))
	}
}

// RestoreFromCache seeds the collections with the last persisted snapshots
// so the UI has data before the first network round trip. Missing or
// corrupt cache entries are ignored.
func (t *Tracker) RestoreFromCache() {
	if t.cache == nil {
		return
	}

	if raw, ok, err := t.cache.Get(storage.KeyExpenseCache); err == nil && ok {
		var records []expense.Record
		if err = json.Unmarshal(raw, &records); err == nil {
			t.mu.Lock()
			t.expenses = records
			t.mu.Unlock()
		} else {
			logger.Warn("corrupt expense cache", zap.Error(err))
		}
	}
	if raw, ok, err := t.cache.Get(storage.KeyBudgetCache); err == nil && ok {
		var records []budget.Record
		if err = json.Unmarshal(raw, &records); err == nil {
			t.mu.Lock()
			t.budgets = records
			t.mu.Unlock()
		} else {
			logger.Warn("corrupt budget cache", zap.Error(err))
		}
	}
	t.publish()
}
