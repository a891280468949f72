package user

// Profile mirrors the server's user serialization. Optional numeric fields
// stay nil until the user has filled them in during onboarding.
type Profile struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Location      string   `json:"location,omitempty"`
	MonthlyIncome *float64 `json:"monthlyIncome,omitempty"`
	BudgetGoal    *float64 `json:"budgetGoal,omitempty"`
	IsOnboarded   bool     `json:"isOnboarded"`
	CurrentStreak int      `json:"currentStreak,omitempty"`
}

// Session pairs the opaque bearer token with the profile it authenticates.
type Session struct {
	Token   string  `json:"token"`
	Profile Profile `json:"user"`
}

// ProfileUpdate is a partial profile mutation; only non-nil fields are
// included in the outgoing payload.
type ProfileUpdate struct {
	Location      *string  `json:"location,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	MonthlyIncome *float64 `json:"monthlyIncome,omitempty"`
	BudgetGoal    *float64 `json:"budgetGoal,omitempty"`
	IsOnboarded   *bool    `json:"isOnboarded,omitempty"`
}

func (u ProfileUpdate) IsZero() bool {
	return u.Location == nil && u.Latitude == nil && u.Longitude == nil &&
		u.MonthlyIncome == nil && u.BudgetGoal == nil && u.IsOnboarded == nil
}
