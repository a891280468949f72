package session

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/Ethan-Chiu/EaseABill/internal/entity/user"
	"github.com/Ethan-Chiu/EaseABill/internal/logger"
	"github.com/Ethan-Chiu/EaseABill/internal/model/apperr"
	"github.com/Ethan-Chiu/EaseABill/internal/model/storage"
)

type State string

const (
	StateLoading         State = "loading"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

type authClient interface {
	Login(ctx context.Context, username, password string) (user.Session, error)
	Register(ctx context.Context, username, password string) (user.Session, error)
	UpdateProfile(ctx context.Context, upd user.ProfileUpdate) (user.Profile, error)
	SetToken(token string)
	ClearToken()
}

type sessionStorage interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}

// Service owns the process-wide session: the bearer token installed on the
// transport client plus the current profile, persisted across restarts.
// Auth operations never return an error to the caller; failures surface as
// a false result with the message held in LastError.
type Service struct {
	client  authClient
	storage sessionStorage

	mu      sync.Mutex
	state   State
	token   string
	profile user.Profile
	lastErr string
}

func New(client authClient, sessionStorage sessionStorage) *Service {
	return &Service{
		client:  client,
		storage: sessionStorage,
		state:   StateLoading,
	}
}

// Initialize restores a persisted session, if any. Storage read failures
// count as "no session", never as a fatal condition.
func (s *Service) Initialize() {
	token, profile, ok := s.readPersisted()
	s.mu.Lock()
	defer s.mu.Unlock()

	if !ok {
		s.state = StateUnauthenticated
		return
	}
	s.client.SetToken(token)
	s.token = token
	s.profile = profile
	s.state = StateAuthenticated
	logger.Info("restored persisted session", zap.String("username", profile.Username))
}

func (s *Service) readPersisted() (string, user.Profile, bool) {
	rawToken, ok, err := s.storage.Get(storage.KeyToken)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("cannot read persisted token", zap.Error(err))
		}
		return "", user.Profile{}, false
	}
	rawProfile, ok, err := s.storage.Get(storage.KeyProfile)
	if err != nil || !ok {
		if err != nil {
			logger.Warn("cannot read persisted profile", zap.Error(err))
		}
		return "", user.Profile{}, false
	}

	var profile user.Profile
	if err = json.Unmarshal(rawProfile, &profile); err != nil {
		logger.Warn("corrupt persisted profile", zap.Error(err))
		return "", user.Profile{}, false
	}
	return string(rawToken), profile, true
}

func (s *Service) Login(ctx context.Context, username, password string) bool {
	return s.authenticate(ctx, username, password, s.client.Login)
}

func (s *Service) Register(ctx context.Context, username, password string) bool {
	return s.authenticate(ctx, username, password, s.client.Register)
}

type authOp func(ctx context.Context, username, password string) (user.Session, error)

func (s *Service) authenticate(ctx context.Context, username, password string, op authOp) bool {
	if username == "" || password == "" {
		s.failAuth(&apperr.ValidationError{Field: "credentials", Reason: "username and password required"})
		return false
	}

	sess, err := op(ctx, username, password)
	if err != nil {
		s.failAuth(err)
		return false
	}

	s.client.SetToken(sess.Token)

	s.mu.Lock()
	s.token = sess.Token
	s.profile = sess.Profile
	s.state = StateAuthenticated
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(sess.Token, sess.Profile)
	return true
}

// UpdateProfile sends a partial update and replaces the in-memory profile
// with the server's full returned copy.
func (s *Service) UpdateProfile(ctx context.Context, upd user.ProfileUpdate) bool {
	if upd.IsZero() {
		s.recordError(&apperr.ValidationError{Field: "profile", Reason: "no fields to update"})
		return false
	}

	profile, err := s.client.UpdateProfile(ctx, upd)
	if err != nil {
		s.recordError(err)
		return false
	}

	s.mu.Lock()
	s.profile = profile
	token := s.token
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(token, profile)
	return true
}

// Logout is purely local: it clears the in-memory session, the client's
// auth header, and the persisted entries. It never touches the network, so
// it succeeds even when the server is unreachable.
func (s *Service) Logout() {
	s.client.ClearToken()

	s.mu.Lock()
	s.token = ""
	s.profile = user.Profile{}
	s.state = StateUnauthenticated
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.storage.Delete(storage.KeyToken); err != nil {
		logger.Warn("cannot erase persisted token", zap.Error(err))
	}
	if err := s.storage.Delete(storage.KeyProfile); err != nil {
		logger.Warn("cannot erase persisted profile", zap.Error(err))
	}
	logger.Info("logged out")
}

// persist failures are logged but never fail the auth operation; the
// in-memory session is already installed.
func (s *Service) persist(token string, profile user.Profile) {
	if err := s.storage.Set(storage.KeyToken, []byte(token)); err != nil {
		logger.Warn("cannot persist token", zap.Error(err))
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		logger.Warn("cannot marshal profile", zap.Error(err))
		return
	}
	if err = s.storage.Set(storage.KeyProfile, raw); err != nil {
		logger.Warn("cannot persist profile", zap.Error(err))
	}
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	s.lastErr = apperr.Message(err)
	s.mu.Unlock()
	logger.Warn("auth operation failed", zap.Error(err))
}

// failAuth records the error and leaves the service without a session: a
// failed login or registration never keeps an earlier state.
func (s *Service) failAuth(err error) {
	s.mu.Lock()
	s.lastErr = apperr.Message(err)
	s.state = StateUnauthenticated
	s.mu.Unlock()
	logger.Warn("auth operation failed", zap.Error(err))
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Profile returns the current profile; ok is false unless authenticated.
func (s *Service) Profile() (user.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, s.state == StateAuthenticated
}

func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
