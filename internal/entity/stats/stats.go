package stats

import "time"

type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type PieSlice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PieChart is the server's per-category roll-up for a window; small
// categories beyond topN arrive folded into an "Other" slice.
type PieChart struct {
	Window Window     `json:"window"`
	Total  float64    `json:"total"`
	Slices []PieSlice `json:"slices"`
}

type WeeklyPoint struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// WeeklySeries is the last N week totals, oldest first. Category is nil
// for overall spend.
type WeeklySeries struct {
	Category *string       `json:"category"`
	Points   []WeeklyPoint `json:"points"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type MonthlyTotal struct {
	Month string  `json:"month"`
	Total float64 `json:"total"`
}
