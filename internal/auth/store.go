// Package auth manages the registered-account collection and the single
// active session, both persisted as JSON blobs.
//
// Passwords are accepted but never stored or verified. That mirrors the
// product's demo-grade login flow and is kept deliberately; see DESIGN.md.
package auth

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/imrajeevnayan/GeminiClone/internal/blob"
	"github.com/imrajeevnayan/GeminiClone/internal/common"
)

const (
	sessionKey = "gemini-clone-auth"
	usersKey   = "gemini-clone-users"
)

const minPasswordLen = 6

type Store struct {
	blobs   blob.Store
	logger  zerolog.Logger
	latency time.Duration

	mu       sync.Mutex
	accounts []Account
	current  *Account
	loading  bool
}

type Option func(*Store)

// WithLatency makes login and signup sleep for d before completing, emulating
// a remote auth backend.
func WithLatency(d time.Duration) Option {
	return func(s *Store) { s.latency = d }
}

// NewStore restores the account collection and any previously active session
// from storage. Corrupt stored data is logged and treated as absent.
func NewStore(ctx context.Context, blobs blob.Store, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		blobs:   blobs,
		logger:  logger,
		loading: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if data, err := blobs.Load(ctx, usersKey); err == nil {
		if err := json.Unmarshal(data, &s.accounts); err != nil {
			logger.Warn().Err(err).Str("key", usersKey).Msg("discarding corrupt account data")
			s.accounts = nil
		}
	} else if err != blob.ErrNoBlob {
		logger.Warn().Err(err).Str("key", usersKey).Msg("failed to load accounts")
	}

	if data, err := blobs.Load(ctx, sessionKey); err == nil {
		var user Account
		if err := json.Unmarshal(data, &user); err != nil {
			logger.Warn().Err(err).Str("key", sessionKey).Msg("discarding corrupt session data")
		} else {
			s.current = &user
		}
	} else if err != blob.ErrNoBlob {
		logger.Warn().Err(err).Str("key", sessionKey).Msg("failed to load session")
	}

	s.loading = false
	return s
}

// Signup validates the request, registers a new account and establishes it as
// the active session.
func (s *Store) Signup(ctx context.Context, req SignupRequest) (Account, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.delay(ctx); err != nil {
		return Account{}, err
	}

	if req.Password != req.ConfirmPassword {
		return Account{}, common.Validationf("Passwords do not match.")
	}
	if len(req.Password) < minPasswordLen {
		return Account{}, common.Validationf("Password must be at least %d characters long.", minPasswordLen)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Email == req.Email {
			return Account{}, common.Conflictf("An account with this email already exists.")
		}
	}

	account := Account{
		ID:        strconv.FormatInt(time.Now().UnixMilli(), 10),
		Email:     req.Email,
		Name:      req.Name,
		CreatedAt: time.Now(),
	}
	s.accounts = append(s.accounts, account)
	s.current = &account

	s.persistAccounts(ctx)
	s.persistSession(ctx)
	return account, nil
}

// Login establishes the account matching the email as the active session. The
// password is only checked for presence, never verified against a secret.
func (s *Store) Login(ctx context.Context, req LoginRequest) (Account, error) {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.delay(ctx); err != nil {
		return Account{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var found *Account
	for i := range s.accounts {
		if s.accounts[i].Email == req.Email {
			found = &s.accounts[i]
			break
		}
	}
	if found == nil {
		return Account{}, common.NotFoundf("User not found. Please check your email or sign up.")
	}
	if req.Password == "" {
		return Account{}, common.Validationf("Please enter your password.")
	}

	account := *found
	s.current = &account
	s.persistSession(ctx)
	return account, nil
}

// Logout clears the active session. It is idempotent.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
	if err := s.blobs.Delete(ctx, sessionKey); err != nil {
		s.logger.Error().Err(err).Str("key", sessionKey).Msg("failed to clear session")
	}
}

// Current returns the active session account, if any.
func (s *Store) Current() (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Account{}, false
	}
	return *s.current, true
}

// Account looks up a registered account by id.
func (s *Store) Account(id string) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// Loading reports whether a login/signup transition is in progress.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) delay(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) persistAccounts(ctx context.Context) {
	data, err := json.Marshal(s.accounts)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode accounts")
		return
	}
	if err := s.blobs.Save(ctx, usersKey, data); err != nil {
		s.logger.Error().Err(err).Str("key", usersKey).Msg("failed to persist accounts")
	}
}

func (s *Store) persistSession(ctx context.Context) {
	data, err := json.Marshal(s.current)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode session")
		return
	}
	if err := s.blobs.Save(ctx, sessionKey, data); err != nil {
		s.logger.Error().Err(err).Str("key", sessionKey).Msg("failed to persist session")
	}
}
