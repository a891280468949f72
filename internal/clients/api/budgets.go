package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/budget"
)

func (c *Client) ListBudgets(ctx context.Context) ([]budget.Record, error) {
	var out []budget.Record
	err := c.do(ctx, "listBudgets", http.MethodGet, "/budgets", nil, nil, &out)
	return out, err
}

func (c *Client) GetBudget(ctx context.Context, id string) (budget.Record, error) {
	var out budget.Record
	err := c.do(ctx, "getBudget", http.MethodGet, "/budgets/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateBudget(ctx context.Context, rec budget.Record) (budget.Record, error) {
	var out budget.Record
	err := c.do(ctx, "createBudget", http.MethodPost, "/budgets", nil, rec, &out)
	return out, err
}

func (c *Client) UpdateBudget(ctx context.Context, id string, rec budget.Record) (budget.Record, error) {
	var out budget.Record
	err := c.do(ctx, "updateBudget", http.MethodPut, "/budgets/"+url.PathEscape(id), nil, rec, &out)
	return out, err
}

func (c *Client) DeleteBudget(ctx context.Context, id string) error {
	return c.do(ctx, "deleteBudget", http.MethodDelete, "/budgets/"+url.PathEscape(id), nil, nil, nil)
}
