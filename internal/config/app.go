package config

type AppConfig struct {
	StatusPollCron string `yaml:"status-poll-cron"`
}

// StatusPollSchedule is the cron spec for the daily budget-status poll.
func (c *AppConfig) StatusPollSchedule() string {
	if c.StatusPollCron == "" {
		return "0 9 * * *"
	}
	return c.StatusPollCron
}
