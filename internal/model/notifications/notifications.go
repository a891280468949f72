package notifications

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/notification"
	"github.com/Ethan-Chiu/EaseABill/internal/logger"
)

type statusClient interface {
	Notifications(ctx context.Context, date time.Time) ([]notification.BudgetStatus, error)
	DailyStatus(ctx context.Context, date time.Time) (notification.DailyStatus, error)
	Streak(ctx context.Context) (notification.Streak, error)
}

// Service reads server-owned budget statuses. The client never creates or
// mutates these; it only queries them by date.
type Service struct {
	client   statusClient
	schedule *cron.Cron
	alerts   chan notification.BudgetStatus
}

type config interface {
	StatusPollSchedule() string
}

func New(client statusClient) *Service {
	return &Service{
		client: client,
		alerts: make(chan notification.BudgetStatus, 16),
	}
}

func (s *Service) ForDate(ctx context.Context, date time.Time) ([]notification.BudgetStatus, error) {
	return s.client.Notifications(ctx, date)
}

func (s *Service) DailyStatus(ctx context.Context, date time.Time) (notification.DailyStatus, error) {
	return s.client.DailyStatus(ctx, date)
}

func (s *Service) Streak(ctx context.Context) (notification.Streak, error) {
	return s.client.Streak(ctx)
}

// Alerts delivers statuses the server flagged with shouldNotify, found by
// the scheduled poll.
func (s *Service) Alerts() <-chan notification.BudgetStatus {
	return s.alerts
}

// StartPolling checks today's statuses on the configured cron schedule.
// Poll failures are logged and retried on the next tick.
func (s *Service) StartPolling(cfg config) error {
	c := cron.New()
	_, err := c.AddFunc(cfg.StatusPollSchedule(), s.pollOnce)
	if err != nil {
		return err
	}
	s.schedule = c
	c.Start()
	logger.Info("status polling started", zap.String("schedule", cfg.StatusPollSchedule()))
	return nil
}

func (s *Service) StopPolling() {
	if s.schedule != nil {
		s.schedule.Stop()
		logger.Info("status polling stopped")
	}
}

func (s *Service) pollOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	statuses, err := s.client.Notifications(ctx, time.Now().UTC())
	if err != nil {
		logger.Warn("status poll failed", zap.Error(err))
		return
	}

	for _, st := range statuses {
		if !st.ShouldNotify {
			continue
		}
		select {
		case s.alerts <- st:
		default:
			logger.Warn("alert channel full, dropping status", zap.String("id", st.ID))
		}
	}
}
