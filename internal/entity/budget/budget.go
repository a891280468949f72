package budget

import (
	"time"

	"github.com/jinzhu/now"
)

type Period string

const (
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

var Periods = []Period{PeriodWeekly, PeriodMonthly, PeriodYearly}

func (p Period) Valid() bool {
	return p == PeriodWeekly || p == PeriodMonthly || p == PeriodYearly
}

// Record is a budget as the server serializes it. Spent is computed by the
// server over the budget window and is never mutated locally.
type Record struct {
	ID        string    `json:"id,omitempty"`
	Category  string    `json:"category"`
	Limit     float64   `json:"limit"`
	Spent     float64   `json:"spent"`
	Period    Period    `json:"period"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	UserID    string    `json:"userId,omitempty"`
}

func (r Record) Remaining() float64 {
	return r.Limit - r.Spent
}

// Percentage is spent over limit as a percent, clamped to [0, 100].
// A non-positive limit yields 0.
func (r Record) Percentage() float64 {
	if r.Limit <= 0 {
		return 0
	}
	pct := r.Spent / r.Limit * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func (r Record) IsExceeded() bool {
	return r.Spent > r.Limit
}

// ISO weeks start on Monday; windows are computed in UTC to match the server.
var windowConf = &now.Config{
	WeekStartDay: time.Monday,
	TimeLocation: time.UTC,
}

// Window returns the current [start, end) range containing at for the
// given period: Monday-to-Monday, 1st-to-1st, or Jan 1-to-Jan 1.
func Window(p Period, at time.Time) (start, end time.Time) {
	n := windowConf.With(at.UTC())

	switch p {
	case PeriodWeekly:
		start = n.BeginningOfWeek()
		end = start.AddDate(0, 0, 7)
	case PeriodMonthly:
		start = n.BeginningOfMonth()
		end = start.AddDate(0, 1, 0)
	case PeriodYearly:
		start = n.BeginningOfYear()
		end = start.AddDate(1, 0, 0)
	}
	return start, end
}
