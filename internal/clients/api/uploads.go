package api

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
)

// ExtractionItem is one product line the server pulled out of a receipt or
// a voice recording.
type ExtractionItem struct {
	Product  string  `json:"product"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

// ExtractionResult is the structured upload response. Raw keeps the body
// exactly as the server sent it, so callers can pass it through untouched.
type ExtractionResult struct {
	Message       string           `json:"message"`
	Path          string           `json:"path"`
	Items         []ExtractionItem `json:"items"`
	ExtractedData map[string]any   `json:"extractedData"`

	Raw json.RawMessage `json:"-"`
}

// UploadReceiptImage streams the image at filePath as a multipart request.
// expenseID, when non-empty, associates the upload with an existing expense.
func (c *Client) UploadReceiptImage(ctx context.Context, filePath, expenseID string) (ExtractionResult, error) {
	fields := map[string]string{}
	if expenseID != "" {
		fields["expenseId"] = expenseID
	}
	return c.upload(ctx, "uploadReceiptImage", "/ocr/upload-image", "receipt", filePath, fields)
}

// UploadAudioRecording streams the recording at filePath for transcription.
func (c *Client) UploadAudioRecording(ctx context.Context, filePath string) (ExtractionResult, error) {
	return c.upload(ctx, "uploadAudioRecording", "/speech/upload-audio", "audio", filePath, nil)
}

// upload streams the file through an io.Pipe so the request body is never
// buffered in memory. Error mapping matches the JSON operations, applied to
// the aggregated response body.
func (c *Client) upload(ctx context.Context, op, path, fieldName, filePath string, fields map[string]string) (res ExtractionResult, err error) {
	start := time.Now()
	defer func() {
		observeRequest(op, time.Since(start), err != nil)
	}()

	f, err := os.Open(filePath)
	if err != nil {
		return ExtractionResult{}, errors.Wrap(err, op)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer f.Close()

		for name, value := range fields {
			if werr := mw.WriteField(name, value); werr != nil {
				pw.CloseWithError(werr)
				return
			}
		}
		part, werr := mw.CreateFormFile(fieldName, filepath.Base(filePath))
		if werr != nil {
			pw.CloseWithError(werr)
			return
		}
		if _, werr = io.Copy(part, f); werr != nil {
			pw.CloseWithError(werr)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		return ExtractionResult{}, errors.Wrap(err, op)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setCommonHeaders(req)

	httpRes, err := c.httpClient.Do(req)
	if err != nil {
		return ExtractionResult{}, errors.Wrap(err, op)
	}
	defer httpRes.Body.Close()

	raw, err := io.ReadAll(httpRes.Body)
	if err != nil {
		return ExtractionResult{}, errors.Wrap(err, op)
	}
	if httpRes.StatusCode < 200 || httpRes.StatusCode > 299 {
		return ExtractionResult{}, errorFromResponse(httpRes.StatusCode, raw)
	}

	if err = decodeExtraction(raw, &res); err != nil {
		return ExtractionResult{}, err
	}
	return res, nil
}

func decodeExtraction(raw []byte, res *ExtractionResult) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, res); err != nil {
		return &apperr.DecodeError{Err: err}
	}
	res.Raw = append(json.RawMessage(nil), raw...)
	return nil
}
