package tracker

// Derived statistics are pure functions of the cached expense collection.
// They never issue network I/O and return zero/empty for empty input.

func (t *Tracker) TotalSpending() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := 0.0
	for _, e := range t.expenses {
		total += e.Amount
	}
	return total
}

func (t *Tracker) SpendingByCategory() map[string]float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := make(map[string]float64)
	for _, e := range t.expenses {
		m[e.Category] += e.Amount
	}
	return m
}
