package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Ethan-Chiu/EaseABill/internal/logger"
	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
)

type config interface {
	BaseURL() string
	Timeout() time.Duration
}

// Client talks to the remote EaseABill API. A single instance is constructed
// at startup and handed to every store; the bearer token installed by the
// auth store is attached to every subsequent request.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu    sync.RWMutex
	token string
}

func New(cfg config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		baseURL:    cfg.BaseURL(),
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) ClearToken() {
	c.SetToken("")
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do issues a JSON request. A nil body sends no payload; a nil out discards
// the response body. Empty 2xx bodies decode to nothing.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) (err error) {
	start := time.Now()
	defer func() {
		observeRequest(op, time.Since(start), err != nil)
	}()

	var reqBody io.Reader
	if body != nil {
		raw, merr := json.Marshal(body)
		if merr != nil {
			return errors.Wrap(merr, "marshal request body")
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, op)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setCommonHeaders(req)
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, op)
	}
	defer res.Body.Close()

	return decodeResponse(op, res, out)
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeResponse(op string, res *http.Response, out any) error {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return errors.Wrap(err, op)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := errorFromResponse(res.StatusCode, raw)
		logger.Warn("api request failed",
			zap.String("operation", op),
			zap.Int("status", apiErr.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err = json.Unmarshal(raw, out); err != nil {
		return &apperr.DecodeError{Err: err}
	}
	return nil
}

// errorFromResponse extracts the most useful message available: the JSON
// "message" field, else the raw body text, else a generic status line.
func errorFromResponse(status int, body []byte) *apperr.ApiError {
	msg := strings.TrimSpace(string(body))

	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &apperr.ApiError{StatusCode: status, Message: msg}
}
