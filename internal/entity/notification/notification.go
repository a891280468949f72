package notification

import "time"

type Status string

const (
	StatusOnTrack   Status = "ON_TRACK"
	StatusWarning   Status = "WARNING"
	StatusOverspent Status = "OVERSPENT"
)

// BudgetStatus is a server-owned evaluation of one budget goal. The client
// only ever reads these.
type BudgetStatus struct {
	ID           string     `json:"id"`
	GoalType     string     `json:"goalType"`
	Status       Status     `json:"status"`
	ShouldNotify bool       `json:"shouldNotify"`
	Message      string     `json:"message"`
	Data         StatusData `json:"data"`
	Timestamp    time.Time  `json:"timestamp"`
}

// StatusData is the structured payload attached to a BudgetStatus.
type StatusData struct {
	BudgetID    string  `json:"budgetId,omitempty"`
	Category    string  `json:"category,omitempty"`
	Period      string  `json:"period,omitempty"`
	Spent       float64 `json:"spent"`
	Limit       float64 `json:"limit"`
	Remaining   float64 `json:"remaining"`
	PercentUsed float64 `json:"percentUsed"`
}

type Streak struct {
	CurrentStreak int `json:"currentStreak"`
}

// DailyStatus classifies one calendar day as budget-compliant or not,
// for calendar-style reporting.
type DailyStatus struct {
	Date      string `json:"date"`
	Status    Status `json:"status"`
	Compliant bool   `json:"compliant"`
}
