package api

import (
	"context"
	"net/http"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/notification"
	"github.com/Ethan-Chiu/EaseABill/internal/entity/user"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates with username/password. The call itself is
// unauthenticated; no bearer header is sent until SetToken installs one.
func (c *Client) Login(ctx context.Context, username, password string) (user.Session, error) {
	var out user.Session
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", nil, credentials{username, password}, &out)
	return out, err
}

func (c *Client) Register(ctx context.Context, username, password string) (user.Session, error) {
	var out user.Session
	err := c.do(ctx, "register", http.MethodPost, "/auth/register", nil, credentials{username, password}, &out)
	return out, err
}

// UpdateProfile sends only the fields set on upd and returns the full
// profile as the server now sees it.
func (c *Client) UpdateProfile(ctx context.Context, upd user.ProfileUpdate) (user.Profile, error) {
	var out user.Profile
	err := c.do(ctx, "updateProfile", http.MethodPut, "/user/profile", nil, upd, &out)
	return out, err
}

func (c *Client) Streak(ctx context.Context) (notification.Streak, error) {
	var out notification.Streak
	err := c.do(ctx, "streak", http.MethodGet, "/user/streak", nil, nil, &out)
	return out, err
}
