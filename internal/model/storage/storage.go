package storage

// Fixed keys for the durable key-value store. Session entries are written on
// every successful auth mutation and erased on logout; cache entries hold the
// last-known collection snapshots for offline reads.
const (
	KeyToken   = "session.token"
	KeyProfile = "session.profile"

	KeyExpenseCache = "cache.expenses"
	KeyBudgetCache  = "cache.budgets"
)
