package expense

import (
	"time"

	"github.com/Ethan-Chiu/EaseABill/internal/utils"
)

// Categories is the fixed catalog free-form category strings are matched
// against. Receipt and voice extraction results use the same labels.
var Categories = []string{
	"Food & Dining",
	"Grocery",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Health & Fitness",
	"Lifestyle",
	"Other",
}

func IsKnownCategory(category string) bool {
	return utils.Contains(Categories, category)
}

// Record is an expense as the server serializes it. ID is empty until the
// server has persisted the record.
type Record struct {
	ID          string    `json:"id,omitempty"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"userId,omitempty"`
}

// Filter narrows a list query. Zero fields are omitted from the request.
type Filter struct {
	From     time.Time
	To       time.Time
	Category string
}

func (f Filter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && f.Category == ""
}
