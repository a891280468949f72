package commands

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ethan-Chiu/EaseABill/internal/clients/api"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/notification"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/user"
	"github.com/Ethan-Chiu/EaseABill/internal/model/session"
	"github.com/Ethan-Chiu/EaseABill/internal/model/tracker"
)

type fakeSession struct {
	state    session.State
	profile  user.Profile
	lastErr  string
	loginOK  bool
	loggedIn string

	loggedOut bool
	updated   *user.ProfileUpdate
}

func (f *fakeSession) Login(ctx context.Context, username, password string) bool {
	if f.loginOK {
		f.state = session.StateAuthenticated
		f.profile = user.Profile{ID: "u1", Username: username}
		f.loggedIn = username
	}
	return f.loginOK
}

func (f *fakeSession) Register(ctx context.Context, username, password string) bool {
	return f.Login(ctx, username, password)
}

func (f *fakeSession) UpdateProfile(ctx context.Context, upd user.ProfileUpdate) bool {
	f.updated = &upd
	return true
}

func (f *fakeSession) Logout() {
	f.loggedOut = true
	f.state = session.StateUnauthenticated
}

func (f *fakeSession) State() session.State { return f.state }

func (f *fakeSession) Profile() (user.Profile, bool) {
	return f.profile, f.state == session.StateAuthenticated
}

func (f *fakeSession) LastError() string { return f.lastErr }

type fakeTracker struct {
	addExpenseOutcome tracker.Outcome
	addedExpense      *expense.Record
	addedBudget       *budget.Record
	deletedID         string
	expenses          []expense.Record
	budgets           []budget.Record
	byCategory        map[string]float64
	total             float64
	lastErr           string
}

func (f *fakeTracker) AddExpense(ctx context.Context, rec expense.Record) (expense.Record, tracker.Outcome) {
	f.addedExpense = &rec
	rec.ID = "e1"
	return rec, f.addExpenseOutcome
}

func (f *fakeTracker) DeleteExpense(ctx context.Context, id string) tracker.Outcome {
	f.deletedID = id
	return tracker.Outcome{Written: true}
}

func (f *fakeTracker) LoadExpenses(ctx context.Context, flt expense.Filter) error { return nil }

func (f *fakeTracker) Expenses() []expense.Record { return f.expenses }

func (f *fakeTracker) AddBudget(ctx context.Context, rec budget.Record) (budget.Record, bool) {
	f.addedBudget = &rec
	rec.ID = "b1"
	return rec, true
}

func (f *fakeTracker) LoadBudgets(ctx context.Context) error { return nil }

func (f *fakeTracker) Budgets() []budget.Record { return f.budgets }

func (f *fakeTracker) TotalSpending() float64 { return f.total }

func (f *fakeTracker) SpendingByCategory() map[string]float64 { return f.byCategory }

func (f *fakeTracker) LastError() string { return f.lastErr }

type fakeUploads struct {
	scanResult api.ExtractionResult
	scanOK     bool
	lastErr    string
}

func (f *fakeUploads) ScanReceipt(ctx context.Context, filePath, expenseID string) (api.ExtractionResult, bool) {
	return f.scanResult, f.scanOK
}

func (f *fakeUploads) TranscribeRecording(ctx context.Context, filePath string) bool {
	return f.scanOK
}

func (f *fakeUploads) LastError() string { return f.lastErr }

type fakeInsights struct {
	statuses  []notification.BudgetStatus
	statusErr error
	streak    notification.Streak
}

func (f *fakeInsights) ForDate(ctx context.Context, date time.Time) ([]notification.BudgetStatus, error) {
	return f.statuses, f.statusErr
}

func (f *fakeInsights) Streak(ctx context.Context) (notification.Streak, error) {
	return f.streak, nil
}

func authedService(trk *fakeTracker) (*Service, *fakeSession) {
	sess := &fakeSession{state: session.StateAuthenticated, profile: user.Profile{ID: "u1", Username: "ethan"}}
	return New(sess, trk, &fakeUploads{}, &fakeInsights{}), sess
}

func Test_OnParseCommand_ShouldSplitCommandAndArgument(t *testing.T) {
	cmd, arg := parseCommand("/expense Coffee 4.50 Food")
	assert.Equal(t, "/expense", cmd)
	assert.Equal(t, "Coffee 4.50 Food", arg)

	cmd, arg = parseCommand("/budgets")
	assert.Equal(t, "/budgets", cmd)
	assert.Empty(t, arg)

	cmd, arg = parseCommand("hello there")
	assert.Equal(t, "hello", cmd)
	assert.Equal(t, "there", arg)
}

func Test_OnUnknownCommand_ShouldAnswerDontUnderstand(t *testing.T) {
	svc, _ := authedService(&fakeTracker{})

	resp, err := svc.Handle(context.Background(), "/frobnicate")

	require.NoError(t, err)
	assert.Equal(t, dontUnderstandMessage, resp)
}

func Test_OnExpense_WithoutSession_ShouldAskToLogin(t *testing.T) {
	svc := New(&fakeSession{state: session.StateUnauthenticated}, &fakeTracker{}, &fakeUploads{}, &fakeInsights{})

	resp, err := svc.Handle(context.Background(), "/expense Coffee 4.50 Food")

	require.NoError(t, err)
	assert.Equal(t, notLoggedInMessage, resp)
}

func Test_OnLogin_ShouldGreetUser(t *testing.T) {
	svc := New(&fakeSession{state: session.StateUnauthenticated, loginOK: true}, &fakeTracker{}, &fakeUploads{}, &fakeInsights{})

	resp, err := svc.Handle(context.Background(), "/login ethan password")

	require.NoError(t, err)
	assert.Equal(t, "Welcome back, ethan!", resp)
}

func Test_OnLoginFailure_ShouldShowReason(t *testing.T) {
	sess := &fakeSession{state: session.StateUnauthenticated, lastErr: "invalid credentials"}
	svc := New(sess, &fakeTracker{}, &fakeUploads{}, &fakeInsights{})

	resp, err := svc.Handle(context.Background(), "/login ethan wrong")

	require.NoError(t, err)
	assert.Equal(t, "Login failed: invalid credentials", resp)
}

func Test_OnExpense_ShouldParseFieldsAndDate(t *testing.T) {
	trk := &fakeTracker{addExpenseOutcome: tracker.Outcome{Written: true}}
	svc, _ := authedService(trk)

	resp, err := svc.Handle(context.Background(), "/expense Coffee 4.50 Food 26.08.2026")

	require.NoError(t, err)
	assert.Contains(t, resp, okMessage)
	require.NotNil(t, trk.addedExpense)
	assert.Equal(t, "Coffee", trk.addedExpense.Title)
	assert.InDelta(t, 4.5, trk.addedExpense.Amount, 0.001)
	assert.Equal(t, "Food", trk.addedExpense.Category)
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), trk.addedExpense.Date)
}

func Test_OnExpense_WithBadAmount_ShouldReject(t *testing.T) {
	svc, _ := authedService(&fakeTracker{})

	resp, err := svc.Handle(context.Background(), "/expense Coffee free Food")

	require.NoError(t, err)
	assert.Equal(t, incorrectAmountMessage, resp)
}

func Test_OnExpense_WithBadDate_ShouldReject(t *testing.T) {
	svc, _ := authedService(&fakeTracker{})

	resp, err := svc.Handle(context.Background(), "/expense Coffee 4.50 Food 2026-08-26")

	require.NoError(t, err)
	assert.Equal(t, incorrectDateMessage, resp)
}

func Test_OnExpense_WithStaleBudgets_ShouldWarnAboutRefresh(t *testing.T) {
	trk := &fakeTracker{addExpenseOutcome: tracker.Outcome{
		Written:    true,
		RefreshErr: errors.New("budgets unavailable"),
	}}
	svc, _ := authedService(trk)

	resp, err := svc.Handle(context.Background(), "/expense Coffee 4.50 Food")

	require.NoError(t, err)
	assert.Equal(t, budgetsStaleMessage, resp)
}

func Test_OnBudget_ShouldComputePeriodWindow(t *testing.T) {
	trk := &fakeTracker{}
	svc, _ := authedService(trk)

	resp, err := svc.Handle(context.Background(), "/budget Food 300 monthly")

	require.NoError(t, err)
	assert.Equal(t, okMessage, resp)
	require.NotNil(t, trk.addedBudget)
	assert.Equal(t, budget.PeriodMonthly, trk.addedBudget.Period)
	assert.False(t, trk.addedBudget.StartDate.IsZero())
	assert.True(t, trk.addedBudget.EndDate.After(trk.addedBudget.StartDate))
}

func Test_OnBudget_WithUnknownPeriod_ShouldReject(t *testing.T) {
	svc, _ := authedService(&fakeTracker{})

	resp, err := svc.Handle(context.Background(), "/budget Food 300 fortnightly")

	require.NoError(t, err)
	assert.Equal(t, incorrectPeriodMessage, resp)
}

func Test_OnReport_ShouldSortCategoriesByAmountDesc(t *testing.T) {
	trk := &fakeTracker{
		byCategory: map[string]float64{"Transportation": 2.5, "Food & Dining": 15},
		total:      17.5,
	}
	svc, _ := authedService(trk)

	resp, err := svc.Handle(context.Background(), "/report")

	require.NoError(t, err)
	foodIdx := strings.Index(resp, "Food & Dining")
	transportIdx := strings.Index(resp, "Transportation")
	assert.Less(t, foodIdx, transportIdx)
	assert.Contains(t, resp, "Total: 17.50")
}

func Test_OnReceipt_ShouldListExtractedItems(t *testing.T) {
	up := &fakeUploads{
		scanOK: true,
		scanResult: api.ExtractionResult{Items: []api.ExtractionItem{
			{Product: "Latte", Price: 4.5, Category: "Food & Dining"},
		}},
	}
	sess := &fakeSession{state: session.StateAuthenticated}
	svc := New(sess, &fakeTracker{}, up, &fakeInsights{})

	resp, err := svc.Handle(context.Background(), "/receipt /tmp/receipt.jpg")

	require.NoError(t, err)
	assert.Contains(t, resp, uploadReceivedMessage)
	assert.Contains(t, resp, "Latte: 4.50 (Food & Dining)")
}

func Test_OnStatus_ShouldListBudgetStatuses(t *testing.T) {
	ins := &fakeInsights{statuses: []notification.BudgetStatus{
		{Status: notification.StatusWarning, Message: "Food budget at 85%"},
	}}
	sess := &fakeSession{state: session.StateAuthenticated}
	svc := New(sess, &fakeTracker{}, &fakeUploads{}, ins)

	resp, err := svc.Handle(context.Background(), "/status")

	require.NoError(t, err)
	assert.Contains(t, resp, "Food budget at 85%")
}

func Test_OnLogout_ShouldAlwaysSucceed(t *testing.T) {
	sess := &fakeSession{state: session.StateAuthenticated}
	svc := New(sess, &fakeTracker{}, &fakeUploads{}, &fakeInsights{})

	resp, err := svc.Handle(context.Background(), "/logout")

	require.NoError(t, err)
	assert.Equal(t, "Logged out", resp)
	assert.True(t, sess.loggedOut)
}
