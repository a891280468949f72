package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/expense"
	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
	}
}

func Test_OnLogin_ShouldOmitAuthHeaderAndDecodeSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"token":"tok-1","user":{"id":"user1","username":"ethan","isOnboarded":true}}`))
	}))
	defer srv.Close()

	sess, err := testClient(srv.URL).Login(context.Background(), "ethan", "password")

	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.Token)
	assert.Equal(t, "ethan", sess.Profile.Username)
	assert.True(t, sess.Profile.IsOnboarded)
}

func Test_OnAuthenticatedCall_ShouldSendBearerAndRequestID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.SetToken("tok-1")

	_, err := client.ListExpenses(context.Background(), expense.Filter{})
	assert.NoError(t, err)
}

func Test_OnListExpenses_ShouldEncodeOnlySuppliedFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Food & Dining", q.Get("category"))
		assert.Equal(t, "2026-08-01T00:00:00Z", q.Get("start"))
		assert.False(t, q.Has("end"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListExpenses(context.Background(), expense.Filter{
		From:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Category: "Food & Dining",
	})
	assert.NoError(t, err)
}

func Test_OnServerError_ShouldExtractJsonMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message": "db down"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).CreateExpense(context.Background(), expense.Record{Title: "x"})

	var apiErr *apperr.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "db down", apiErr.Message)
}

func Test_OnServerError_WithPlainBody_ShouldUseRawText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such expense"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetExpense(context.Background(), "missing")

	var apiErr *apperr.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no such expense", apiErr.Message)
}

func Test_OnServerError_WithEmptyBody_ShouldUseGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := testClient(srv.URL).DeleteExpense(context.Background(), "e1")

	var apiErr *apperr.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502", apiErr.Message)
}

func Test_OnMalformedBody_ShouldFailWithDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "e1", "amount":`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetExpense(context.Background(), "e1")

	var decodeErr *apperr.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func Test_OnEmptySuccessBody_ShouldReturnNoError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, testClient(srv.URL).DeleteExpense(context.Background(), "e1"))
}

func Test_OnUnreachableServer_ShouldSurfaceTransportError(t *testing.T) {
	client := testClient("http://127.0.0.1:1")

	_, err := client.ListExpenses(context.Background(), expense.Filter{})

	require.Error(t, err)
	var apiErr *apperr.ApiError
	assert.False(t, errors.As(err, &apiErr))
}
