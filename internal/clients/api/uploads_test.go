package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_OnUploadReceipt_ShouldStreamMultipartWithResourceField(t *testing.T) {
	path := writeTempFile(t, "receipt.jpg", "fake image bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ocr/upload-image", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "e42", r.FormValue("expenseId"))

		file, header, err := r.FormFile("receipt")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.jpg", header.Filename)

		content, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake image bytes", string(content))

		_, _ = w.Write([]byte(`{"message":"ok","path":"/u/1.jpg","items":[{"product":"Latte","price":4.5,"category":"Food & Dining"}]}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	client.SetToken("tok-1")

	res, err := client.UploadReceiptImage(context.Background(), path, "e42")

	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Latte", res.Items[0].Product)
	assert.InDelta(t, 4.5, res.Items[0].Price, 0.001)
}

func Test_OnUploadReceipt_ShouldKeepUnrecognizedPayloadIntact(t *testing.T) {
	path := writeTempFile(t, "receipt.jpg", "x")
	body := `{"extractedData":{"merchant":"Coffee Shop","amount":4.5}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).UploadReceiptImage(context.Background(), path, "")

	require.NoError(t, err)
	assert.Equal(t, "Coffee Shop", res.ExtractedData["merchant"])
	assert.JSONEq(t, body, string(res.Raw))
}

func Test_OnUploadAudio_ShouldUseAudioField(t *testing.T) {
	path := writeTempFile(t, "note.m4a", "fake audio")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/speech/upload-audio", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("audio")
		assert.NoError(t, err)
		_, _ = w.Write([]byte(`{"message":"transcribed"}`))
	}))
	defer srv.Close()

	res, err := testClient(srv.URL).UploadAudioRecording(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "transcribed", res.Message)
}

func Test_OnUploadFailure_ShouldSurfaceServerMessage(t *testing.T) {
	path := writeTempFile(t, "receipt.jpg", "x")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"ocr backend unavailable"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).UploadReceiptImage(context.Background(), path, "")

	var apiErr *apperr.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "ocr backend unavailable", apiErr.Message)
}

func Test_OnUploadMissingFile_ShouldFailBeforeRequest(t *testing.T) {
	_, err := testClient("http://127.0.0.1:1").UploadReceiptImage(
		context.Background(), filepath.Join(t.TempDir(), "absent.jpg"), "")

	assert.Error(t, err)
}
