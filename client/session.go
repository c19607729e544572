package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"bookswap/internal/shared/apperr"
)

// Phase of the session lifecycle. Dependent code must not make
// authorization decisions while the session is still loading.
type Phase int

const (
	// PhaseLoading means credential validation is still in flight.
	PhaseLoading Phase = iota
	// PhaseReady means the session settled: either anonymous or
	// authenticated.
	PhaseReady
)

type (
	User struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}

	// Session holds the bearer credential and the authenticated identity.
	// It is the only writer of the credential; the transport reads it on
	// every outgoing call.
	Session struct {
		api   *Client
		store CredentialStore

		mu    sync.RWMutex
		phase Phase
		token string
		user  *User
	}

	loginResponse struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
)

func NewSession(baseURL string, store CredentialStore, opts ...Option) *Session {
	s := &Session{store: store, phase: PhaseLoading}
	s.api = New(baseURL, s, opts...)
	return s
}

// API returns the transport bound to this session's credential, for use by
// Catalog and RequestManager.
func (s *Session) API() *Client { return s.api }

// Token implements tokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// User returns the authenticated identity, or nil when anonymous.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Authenticated() bool { return s.User() != nil }

// Restore validates a persisted credential at process start. A stored
// credential is never trusted without a successful profile fetch; any
// failure silently degrades to anonymous. The session is in PhaseReady when
// Restore returns.
func (s *Session) Restore(ctx context.Context) {
	defer s.setPhase(PhaseReady)

	token, err := s.store.Load()
	if err != nil || token == "" {
		if err != nil {
			s.api.logger.Debug().Err(err).Msg("Could not load stored credential")
		}
		return
	}

	s.setCredential(token, nil)

	var user User
	if err := s.api.get(ctx, "/auth/profile", &user); err != nil {
		s.api.logger.Debug().Err(err).Msg("Stored credential rejected, starting anonymous")
		s.setCredential("", nil)
		_ = s.store.Clear()
		return
	}

	s.setCredential(token, &user)
}

// Login authenticates and persists the bearer credential. The server may
// respond with {token, user}, {token} alone, or neither; the last form is
// an invalid response and fails without persisting anything. When the user
// payload is absent it is recovered with a profile fetch.
func (s *Session) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}

	var resp loginResponse
	if err := s.api.postJSON(ctx, "/auth/login", body, &resp); err != nil {
		return err
	}

	switch {
	case resp.Token != "" && resp.User != nil:
		s.setCredential(resp.Token, resp.User)

	case resp.Token != "":
		s.setCredential(resp.Token, nil)
		var user User
		if err := s.api.get(ctx, "/auth/profile", &user); err != nil {
			s.setCredential("", nil)
			return err
		}
		s.setCredential(resp.Token, &user)

	default:
		return apperr.Auth("login response carried neither token nor user")
	}

	if err := s.store.Save(resp.Token); err != nil {
		s.api.logger.Warn().Err(err).Msg("Could not persist credential; session is memory-only")
	}
	return nil
}

// Signup creates an account. It does not log the new user in.
func (s *Session) Signup(ctx context.Context, name, email, password string) error {
	body := map[string]string{"name": name, "email": email, "password": password}

	err := s.api.postJSON(ctx, "/auth/signup", body, nil)
	if err == nil {
		return nil
	}
	switch apperr.KindOf(err) {
	case apperr.KindConflict, apperr.KindValidation:
		// Duplicate email and validation failures surface as auth errors
		message := err.Error()
		var e *apperr.Error
		if errors.As(err, &e) {
			message = e.Message
		}
		return apperr.Wrap(apperr.KindAuth, message, err)
	}
	return err
}

// Logout notifies the server best-effort, then unconditionally clears the
// local credential and identity. It never leaves stale session state
// behind, even when the server call fails.
func (s *Session) Logout(ctx context.Context) {
	if err := s.api.postJSON(ctx, "/auth/logout", nil, nil); err != nil {
		s.api.logger.Debug().Err(err).Msg("Logout notification failed")
	}

	s.setCredential("", nil)
	if err := s.store.Clear(); err != nil {
		s.api.logger.Warn().Err(err).Msg("Could not clear stored credential")
	}
}

func (s *Session) setCredential(token string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

func (s *Session) setPhase(phase Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
}
