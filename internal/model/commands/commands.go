package commands

import (
	"context"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/Ethan-Chiu/EaseABill/internal/clients/api"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/notification"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/user"
	"github.com/Ethan-Chiu/EaseABill/internal/model/session"
	"github.com/Ethan-Chiu/EaseABill/internal/model/tracker"
)

const dateLayout = "02.01.2006"

const (
	dontUnderstandMessage = "I don't understand that command. Try /help"
	notLoggedInMessage    = "You are not logged in. Try /login <username> <password>"
	okMessage             = "Gotcha!"
	noExpensesMessage     = "You have no expenses yet"
	noBudgetsMessage      = "You have no budgets yet"

	incorrectUsageMessage   = "That is an incorrect command usage"
	incorrectAmountMessage  = "The amount is incorrect"
	incorrectDateMessage    = "The date is incorrect. Should be dd.mm.yyyy"
	incorrectPeriodMessage  = "The period must be weekly, monthly or yearly"
	budgetsStaleMessage     = "Saved, but budgets could not be refreshed. Try /budgets later"
	uploadReceivedMessage   = "Upload received"
	nothingExtractedMessage = "Nothing could be extracted from that file"
)

type sessionService interface {
	Login(ctx context.Context, username, password string) bool
	Register(ctx context.Context, username, password string) bool
	UpdateProfile(ctx context.Context, upd user.ProfileUpdate) bool
	Logout()
	State() session.State
	Profile() (user.Profile, bool)
	LastError() string
}

type expenseTracker interface {
	AddExpense(ctx context.Context, rec expense.Record) (expense.Record, tracker.Outcome)
	DeleteExpense(ctx context.Context, id string) tracker.Outcome
	LoadExpenses(ctx context.Context, f expense.Filter) error
	Expenses() []expense.Record
	AddBudget(ctx context.Context, rec budget.Record) (budget.Record, bool)
	LoadBudgets(ctx context.Context) error
	Budgets() []budget.Record
	TotalSpending() float64
	SpendingByCategory() map[string]float64
	LastError() string
}

type uploadService interface {
	ScanReceipt(ctx context.Context, filePath, expenseID string) (api.ExtractionResult, bool)
	TranscribeRecording(ctx context.Context, filePath string) bool
	LastError() string
}

type insightsService interface {
	ForDate(ctx context.Context, date time.Time) ([]notification.BudgetStatus, error)
	Streak(ctx context.Context) (notification.Streak, error)
}

type handler func(ctx context.Context, arg string) (string, error)

type handlerMap map[string]handler

// Service dispatches text commands from the terminal front end to the
// stores. It is the stand-in for the UI layer: it only reads snapshots and
// invokes store operations, never mutates collections directly.
type Service struct {
	handlersMap handlerMap
	session     sessionService
	tracker     expenseTracker
	uploads     uploadService
	insights    insightsService
}

func New(sess sessionService, trk expenseTracker, up uploadService, ins insightsService) *Service {
	res := &Service{
		session:  sess,
		tracker:  trk,
		uploads:  up,
		insights: ins,
	}
	res.handlersMap = newMap(res)
	return res
}

func (s *Service) Handle(ctx context.Context, text string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "handleCommand")
	defer span.Finish()

	resp, err := s.dispatch(ctx, text)
	if err != nil {
		ext.Error.Set(span, true)
	}
	return resp, err
}

func (s *Service) dispatch(ctx context.Context, text string) (string, error) {
	cmd, arg := parseCommand(text)

	h, ok := s.handlersMap[cmd]
	if !ok {
		return dontUnderstandMessage, nil
	}
	return h(ctx, arg)
}

func parseCommand(text string) (cmd, arg string) {
	text = strings.TrimSpace(text)
	split := strings.SplitN(text, " ", 2)

	if len(split) == 2 {
		return split[0], strings.TrimSpace(split[1])
	}
	if strings.HasPrefix(text, "/") {
		return text, ""
	}
	return "", text
}

func newMap(s *Service) handlerMap {
	m := make(handlerMap)
	m["/login"] = s.handleLogin
	m["/register"] = s.handleRegister
	m["/logout"] = s.handleLogout
	m["/whoami"] = s.handleWhoami
	m["/onboard"] = s.handleOnboard

	m["/expense"] = s.handleExpense
	m["/expenses"] = s.handleExpenses
	m["/delete"] = s.handleDelete
	m["/budget"] = s.handleBudget
	m["/budgets"] = s.handleBudgets
	m["/report"] = s.handleReport

	m["/receipt"] = s.handleReceipt
	m["/voice"] = s.handleVoice

	m["/status"] = s.handleStatus
	m["/streak"] = s.handleStreak
	m["/help"] = s.handleHelp

	return m
}

func (s *Service) requireAuth() (string, bool) {
	if s.session.State() != session.StateAuthenticated {
		return notLoggedInMessage, false
	}
	return "", true
}
