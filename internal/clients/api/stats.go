package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/notification"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/stats"
)

const dateOnlyLayout = "2006-01-02"

func (c *Client) SpendingByCategory(ctx context.Context) ([]stats.CategoryTotal, error) {
	var out []stats.CategoryTotal
	err := c.do(ctx, "spendingByCategory", http.MethodGet, "/statistics/spending-by-category", nil, nil, &out)
	return out, err
}

func (c *Client) MonthlySpending(ctx context.Context) ([]stats.MonthlyTotal, error) {
	var out []stats.MonthlyTotal
	err := c.do(ctx, "monthlySpending", http.MethodGet, "/statistics/monthly-spending", nil, nil, &out)
	return out, err
}

// PieQuery narrows the pie roll-up; zero values fall back to the server's
// defaults (current month, top 5 plus "Other").
type PieQuery struct {
	Start time.Time
	End   time.Time
	TopN  int
}

func (c *Client) Pie(ctx context.Context, q PieQuery) (stats.PieChart, error) {
	query := url.Values{}
	if !q.Start.IsZero() {
		query.Set("start", q.Start.UTC().Format(time.RFC3339))
	}
	if !q.End.IsZero() {
		query.Set("end", q.End.UTC().Format(time.RFC3339))
	}
	if q.TopN > 0 {
		query.Set("topN", strconv.Itoa(q.TopN))
	}

	var out stats.PieChart
	err := c.do(ctx, "statsPie", http.MethodGet, "/stats/pie", query, nil, &out)
	return out, err
}

func (c *Client) WeeklySeries(ctx context.Context, weeks int, category string) (stats.WeeklySeries, error) {
	query := url.Values{}
	if weeks > 0 {
		query.Set("weeks", strconv.Itoa(weeks))
	}
	if category != "" {
		query.Set("category", category)
	}

	var out stats.WeeklySeries
	err := c.do(ctx, "statsWeekly", http.MethodGet, "/stats/weekly", query, nil, &out)
	return out, err
}

// Notifications returns the budget statuses the server recorded on the
// given calendar day.
func (c *Client) Notifications(ctx context.Context, date time.Time) ([]notification.BudgetStatus, error) {
	query := url.Values{}
	query.Set("date", date.UTC().Format(dateOnlyLayout))

	var out []notification.BudgetStatus
	err := c.do(ctx, "notifications", http.MethodGet, "/notifications", query, nil, &out)
	return out, err
}

func (c *Client) DailyStatus(ctx context.Context, date time.Time) (notification.DailyStatus, error) {
	query := url.Values{}
	query.Set("date", date.UTC().Format(dateOnlyLayout))

	var out notification.DailyStatus
	err := c.do(ctx, "dailyStatus", http.MethodGet, "/stats/daily-status", query, nil, &out)
	return out, err
}
