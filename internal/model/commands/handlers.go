package commands

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/user"
)

func userProfileUpdate(income, goal float64, onboarded bool) user.ProfileUpdate {
	return user.ProfileUpdate{
		MonthlyIncome: &income,
		BudgetGoal:    &goal,
		IsOnboarded:   &onboarded,
	}
}

func (s *Service) handleLogin(ctx context.Context, arg string) (string, error) {
	args := strings.Fields(arg)
	if len(args) != 2 {
		return incorrectUsageMessage, nil
	}
	if !s.session.Login(ctx, args[0], args[1]) {
		return "Login failed: " + s.session.LastError(), nil
	}
	profile, _ := s.session.Profile()
	return fmt.Sprintf("Welcome back, %s!", profile.Username), nil
}

func (s *Service) handleRegister(ctx context.Context, arg string) (string, error) {
	args := strings.Fields(arg)
	if len(args) != 2 {
		return incorrectUsageMessage, nil
	}
	if !s.session.Register(ctx, args[0], args[1]) {
		return "Registration failed: " + s.session.LastError(), nil
	}
	profile, _ := s.session.Profile()
	return fmt.Sprintf("Welcome, %s!", profile.Username), nil
}

func (s *Service) handleLogout(_ context.Context, _ string) (string, error) {
	s.session.Logout()
	return "Logged out", nil
}

func (s *Service) handleWhoami(_ context.Context, _ string) (string, error) {
	profile, ok := s.session.Profile()
	if !ok {
		return notLoggedInMessage, nil
	}
	lines := []string{"Username: " + profile.Username}
	if profile.Location != "" {
		lines = append(lines, "Location: "+profile.Location)
	}
	if profile.MonthlyIncome != nil {
		lines = append(lines, fmt.Sprintf("Monthly income: %.2f", *profile.MonthlyIncome))
	}
	if profile.BudgetGoal != nil {
		lines = append(lines, fmt.Sprintf("Budget goal: %.2f", *profile.BudgetGoal))
	}
	return strings.Join(lines, "\n"), nil
}

// /onboard <monthlyIncome> <budgetGoal> completes onboarding; the server
// flag makes subsequent app entry skip the onboarding flow.
func (s *Service) handleOnboard(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	args := strings.Fields(arg)
	if len(args) != 2 {
		return incorrectUsageMessage, nil
	}
	income, err := strconv.ParseFloat(args[0], 64)
	if err != nil || income < 0 {
		return incorrectAmountMessage, nil
	}
	goal, err := strconv.ParseFloat(args[1], 64)
	if err != nil || goal < 0 {
		return incorrectAmountMessage, nil
	}

	onboarded := true
	ok := s.session.UpdateProfile(ctx, userProfileUpdate(income, goal, onboarded))
	if !ok {
		return "Could not update profile: " + s.session.LastError(), nil
	}
	return okMessage, nil
}

// /expense <title> <amount> <category> [dd.mm.yyyy]
func (s *Service) handleExpense(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	args := strings.Fields(arg)
	if len(args) < 3 {
		return incorrectUsageMessage, nil
	}

	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil || amount <= 0 {
		return incorrectAmountMessage, nil
	}

	date := time.Now().UTC()
	if len(args) > 3 {
		date, err = time.ParseInLocation(dateLayout, args[3], time.UTC)
		if err != nil {
			return incorrectDateMessage, nil
		}
	}

	rec := expense.Record{
		Title:    args[0],
		Amount:   amount,
		Category: args[2],
		Date:     date,
	}
	created, outcome := s.tracker.AddExpense(ctx, rec)
	if !outcome.Written {
		return "Could not save your expense: " + s.tracker.LastError(), nil
	}
	if outcome.RefreshErr != nil {
		return budgetsStaleMessage, nil
	}
	return fmt.Sprintf("%s Saved %s (%s)", okMessage, created.Title, created.ID), nil
}

// /expenses [category]
func (s *Service) handleExpenses(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	if err := s.tracker.LoadExpenses(ctx, expense.Filter{Category: arg}); err != nil {
		return "Can't get your expenses atm: " + s.tracker.LastError(), nil
	}

	records := s.tracker.Expenses()
	if len(records) == 0 {
		return noExpensesMessage, nil
	}
	lines := make([]string, 0, len(records))
	for _, e := range records {
		lines = append(lines, fmt.Sprintf("%s  %-24s %8.2f  %s", e.Date.Format("2006-01-02"), e.Title, e.Amount, e.Category))
	}
	return strings.Join(lines, "\n"), nil
}

// /delete <expenseID>
func (s *Service) handleDelete(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	if arg == "" {
		return incorrectUsageMessage, nil
	}
	outcome := s.tracker.DeleteExpense(ctx, arg)
	if !outcome.Written {
		return "Could not delete: " + s.tracker.LastError(), nil
	}
	if outcome.RefreshErr != nil {
		return budgetsStaleMessage, nil
	}
	return okMessage, nil
}

// /budget <category> <limit> <period>
func (s *Service) handleBudget(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	args := strings.Fields(arg)
	if len(args) != 3 {
		return incorrectUsageMessage, nil
	}
	limit, err := strconv.ParseFloat(args[1], 64)
	if err != nil || limit <= 0 {
		return incorrectAmountMessage, nil
	}
	period := budget.Period(args[2])
	if !period.Valid() {
		return incorrectPeriodMessage, nil
	}

	start, end := budget.Window(period, time.Now())
	rec := budget.Record{
		Category:  args[0],
		Limit:     limit,
		Period:    period,
		StartDate: start,
		EndDate:   end,
	}
	if _, ok := s.tracker.AddBudget(ctx, rec); !ok {
		return "Could not save your budget: " + s.tracker.LastError(), nil
	}
	return okMessage, nil
}

func (s *Service) handleBudgets(ctx context.Context, _ string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	if err := s.tracker.LoadBudgets(ctx); err != nil {
		return "Can't get your budgets atm: " + s.tracker.LastError(), nil
	}

	records := s.tracker.Budgets()
	if len(records) == 0 {
		return noBudgetsMessage, nil
	}
	lines := make([]string, 0, len(records))
	for _, b := range records {
		marker := ""
		if b.IsExceeded() {
			marker = "  (!)"
		}
		lines = append(lines, fmt.Sprintf("%-24s %8.2f / %8.2f  %3.0f%% %s%s",
			b.Category, b.Spent, b.Limit, b.Percentage(), b.Period, marker))
	}
	return strings.Join(lines, "\n"), nil
}

// /report groups whatever is loaded locally; it issues no network I/O.
func (s *Service) handleReport(_ context.Context, _ string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	byCategory := s.tracker.SpendingByCategory()
	if len(byCategory) == 0 {
		return noExpensesMessage, nil
	}

	type row struct {
		category string
		amount   float64
	}
	rows := make([]row, 0, len(byCategory))
	for cat, am := range byCategory {
		rows = append(rows, row{cat, am})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].amount > rows[j].amount
	})

	lines := make([]string, 0, len(rows)+2)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s: %.2f", r.category, r.amount))
	}
	lines = append(lines, "", fmt.Sprintf("Total: %.2f", s.tracker.TotalSpending()))
	return strings.Join(lines, "\n"), nil
}

// /receipt <path> [expenseID] — extracted fields are shown for the user to
// confirm; nothing is saved automatically.
func (s *Service) handleReceipt(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	args := strings.Fields(arg)
	if len(args) < 1 {
		return incorrectUsageMessage, nil
	}
	expenseID := ""
	if len(args) > 1 {
		expenseID = args[1]
	}

	res, ok := s.uploads.ScanReceipt(ctx, args[0], expenseID)
	if !ok {
		return "Upload failed: " + s.uploads.LastError(), nil
	}
	if len(res.Items) == 0 {
		return nothingExtractedMessage, nil
	}
	lines := make([]string, 0, len(res.Items)+1)
	lines = append(lines, uploadReceivedMessage)
	for _, item := range res.Items {
		line := fmt.Sprintf("%s: %.2f", item.Product, item.Price)
		if item.Category != "" {
			line += " (" + item.Category + ")"
		}
		lines = append(lines, line)
	}
	lines = append(lines, "Use /expense to save any of these.")
	return strings.Join(lines, "\n"), nil
}

// /voice <path>
func (s *Service) handleVoice(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	if arg == "" {
		return incorrectUsageMessage, nil
	}
	if !s.uploads.TranscribeRecording(ctx, arg) {
		return "Upload failed: " + s.uploads.LastError(), nil
	}
	return uploadReceivedMessage, nil
}

// /status [dd.mm.yyyy]
func (s *Service) handleStatus(ctx context.Context, arg string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	date := time.Now().UTC()
	if arg != "" {
		var err error
		date, err = time.ParseInLocation(dateLayout, arg, time.UTC)
		if err != nil {
			return incorrectDateMessage, nil
		}
	}

	statuses, err := s.insights.ForDate(ctx, date)
	if err != nil {
		return "Can't get your budget statuses atm", nil
	}
	if len(statuses) == 0 {
		return "No budget statuses for that day", nil
	}
	lines := make([]string, 0, len(statuses))
	for _, st := range statuses {
		lines = append(lines, fmt.Sprintf("[%s] %s", st.Status, st.Message))
	}
	return strings.Join(lines, "\n"), nil
}

func (s *Service) handleStreak(ctx context.Context, _ string) (string, error) {
	if msg, ok := s.requireAuth(); !ok {
		return msg, nil
	}
	streak, err := s.insights.Streak(ctx)
	if err != nil {
		return "Can't get your streak atm", nil
	}
	return fmt.Sprintf("Current streak: %d day(s)", streak.CurrentStreak), nil
}

func (s *Service) handleHelp(_ context.Context, _ string) (string, error) {
	return strings.Join([]string{
		"/login <username> <password>",
		"/register <username> <password>",
		"/logout",
		"/whoami",
		"/onboard <monthlyIncome> <budgetGoal>",
		"/expense <title> <amount> <category> [dd.mm.yyyy]",
		"/expenses [category]",
		"/delete <expenseID>",
		"/budget <category> <limit> <weekly|monthly|yearly>",
		"/budgets",
		"/report",
		"/receipt <path> [expenseID]",
		"/voice <path>",
		"/status [dd.mm.yyyy]",
		"/streak",
	}, "\n"), nil
}
