package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
)

// ListExpenses fetches expenses matching the filter; zero filter fields are
// left out of the query string entirely.
func (c *Client) ListExpenses(ctx context.Context, f expense.Filter) ([]expense.Record, error) {
	query := url.Values{}
	if !f.From.IsZero() {
		query.Set("start", f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		query.Set("end", f.To.UTC().Format(time.RFC3339))
	}
	if f.Category != "" {
		query.Set("category", f.Category)
	}

	var out []expense.Record
	err := c.do(ctx, "listExpenses", http.MethodGet, "/expenses", query, nil, &out)
	return out, err
}

func (c *Client) GetExpense(ctx context.Context, id string) (expense.Record, error) {
	var out expense.Record
	err := c.do(ctx, "getExpense", http.MethodGet, "/expenses/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// CreateExpense sends a locally built record (no ID yet) and returns the
// server's identity-bearing copy.
func (c *Client) CreateExpense(ctx context.Context, rec expense.Record) (expense.Record, error) {
	var out expense.Record
	err := c.do(ctx, "createExpense", http.MethodPost, "/expenses", nil, rec, &out)
	return out, err
}

func (c *Client) UpdateExpense(ctx context.Context, id string, rec expense.Record) (expense.Record, error) {
	var out expense.Record
	err := c.do(ctx, "updateExpense", http.MethodPut, "/expenses/"+url.PathEscape(id), nil, rec, &out)
	return out, err
}

func (c *Client) DeleteExpense(ctx context.Context, id string) error {
	return c.do(ctx, "deleteExpense", http.MethodDelete, "/expenses/"+url.PathEscape(id), nil, nil, nil)
}
