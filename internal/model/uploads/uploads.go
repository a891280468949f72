package uploads

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Ethan-Chiu/EaseABill/internal/clients/api"
	"github.com/Ethan-Chiu/EaseABill/internal/logger"
	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
)

type uploadClient interface {
	UploadReceiptImage(ctx context.Context, filePath, expenseID string) (api.ExtractionResult, error)
	UploadAudioRecording(ctx context.Context, filePath string) (api.ExtractionResult, error)
}

// Service wraps the two media pipelines with the same loading/error
// bookkeeping the other stores use. File paths come from camera and
// microphone collaborators and are opaque here.
type Service struct {
	client uploadClient

	mu      sync.Mutex
	loading bool
	lastErr string
}

func New(client uploadClient) *Service {
	return &Service{client: client}
}

// ScanReceipt uploads a receipt image and hands the server's extraction
// payload back unchanged. It never creates an expense; the caller decides
// what to do with the extracted fields.
func (s *Service) ScanReceipt(ctx context.Context, filePath, expenseID string) (api.ExtractionResult, bool) {
	if filePath == "" {
		s.recordError(&apperr.ValidationError{Field: "filePath", Reason: "must not be empty"})
		return api.ExtractionResult{}, false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	res, err := s.client.UploadReceiptImage(ctx, filePath, expenseID)
	if err != nil {
		s.recordError(err)
		return api.ExtractionResult{}, false
	}

	s.clearError()
	return res, true
}

// TranscribeRecording uploads an audio recording. The result is opaque to
// the client; the contract is only "upload succeeded or failed".
func (s *Service) TranscribeRecording(ctx context.Context, filePath string) bool {
	if filePath == "" {
		s.recordError(&apperr.ValidationError{Field: "filePath", Reason: "must not be empty"})
		return false
	}

	s.setLoading(true)
	defer s.setLoading(false)

	if _, err := s.client.UploadAudioRecording(ctx, filePath); err != nil {
		s.recordError(err)
		return false
	}

	s.clearError()
	return true
}

func (s *Service) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Service) clearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastErr = apperr.Message(err)
	s.mu.Unlock()
	logger.Warn("upload failed", zap.Error(err))
}
