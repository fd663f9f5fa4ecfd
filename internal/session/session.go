// Package session holds the single authenticated identity of this process
// and keeps it in step with durable storage.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"procure/internal/apiclient"
	"procure/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Store persists the identity between runs. LoadSession returns nil, nil
// when nothing is stored.
type Store interface {
	SaveSession(ctx context.Context, id models.Identity) error
	LoadSession(ctx context.Context) (*models.Identity, error)
	ClearSession(ctx context.Context) error
}

// Authenticator is the unauthenticated part of the API.
type Authenticator interface {
	Login(ctx context.Context, creds apiclient.Credentials) (*apiclient.AuthResponse, error)
	Register(ctx context.Context, in apiclient.RegisterInput) (*apiclient.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) (*apiclient.MessageResponse, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*apiclient.MessageResponse, error)
}

// Holder is the process-wide session. Reads are cheap and synchronous;
// writes happen only on login, register, logout and expiry.
type Holder struct {
	store     Store
	auth      Authenticator
	logger    *zap.Logger
	now       func() time.Time
	onExpired func()

	mu      sync.RWMutex
	current *models.Identity
}

type Option func(*Holder)

func WithLogger(l *zap.Logger) Option {
	return func(h *Holder) {
		if l != nil {
			h.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Holder) { h.now = now }
}

// OnExpired registers the callback run once per session teardown caused by
// a 401 or an expired token.
func OnExpired(fn func()) Option {
	return func(h *Holder) { h.onExpired = fn }
}

// New returns a Holder. With a nil store the holder never reports a token.
func New(store Store, auth Authenticator, opts ...Option) *Holder {
	h := &Holder{
		store:  store,
		auth:   auth,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Holder) Token() string {
	if h == nil || h.store == nil {
		return ""
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return ""
	}
	return h.current.Token
}

func (h *Holder) CurrentUser() *models.User {
	if h == nil || h.store == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return nil
	}
	u := h.current.User
	return &u
}

func (h *Holder) IsAuthenticated() bool {
	return h.Token() != ""
}

func (h *Holder) Login(ctx context.Context, email, password string) (*models.Identity, error) {
	resp, err := h.auth.Login(ctx, apiclient.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	return h.establish(ctx, resp)
}

// Register validates the business fields before any network call.
func (h *Holder) Register(ctx context.Context, in apiclient.RegisterInput) (*models.Identity, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	resp, err := h.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return h.establish(ctx, resp)
}

func (h *Holder) establish(ctx context.Context, resp *apiclient.AuthResponse) (*models.Identity, error) {
	if resp.Token == "" {
		return nil, errors.New("session: auth response carried no token")
	}
	id := models.Identity{User: resp.User, Token: resp.Token}
	if h.store == nil {
		h.logger.Warn("no session storage, identity not persisted", zap.Int("user_id", id.User.ID))
		return &id, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.store.SaveSession(ctx, id); err != nil {
		return nil, fmt.Errorf("session: persist: %w", err)
	}
	h.current = &id
	h.logger.Info("session established", zap.Int("user_id", id.User.ID), zap.String("role", string(id.User.Role)))
	return &id, nil
}

// Logout clears persisted and in-memory state. Calling it while logged out
// is a no-op.
func (h *Holder) Logout(ctx context.Context) error {
	if h == nil || h.store == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.current = nil
	if err := h.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("session: clear: %w", err)
	}
	return nil
}

// Expire tears the session down after the API rejected token. Concurrent
// calls for the same token clear storage once; a token that is no longer
// current is ignored.
func (h *Holder) Expire(token string) {
	if h == nil || h.store == nil || token == "" {
		return
	}
	h.mu.Lock()
	if h.current == nil || h.current.Token != token {
		h.mu.Unlock()
		return
	}
	userID := h.current.User.ID
	h.current = nil
	err := h.store.ClearSession(context.Background())
	h.mu.Unlock()

	if err != nil {
		h.logger.Error("clear expired session", zap.Error(err))
	}
	h.logger.Info("session expired", zap.Int("user_id", userID))
	if h.onExpired != nil {
		h.onExpired()
	}
}

// Restore loads the persisted identity at startup and drops it when the
// token is no longer valid.
func (h *Holder) Restore(ctx context.Context) error {
	if h == nil || h.store == nil {
		return nil
	}
	id, err := h.store.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("session: restore: %w", err)
	}
	if id == nil || id.Token == "" {
		return nil
	}
	h.mu.Lock()
	h.current = id
	h.mu.Unlock()

	if !h.ValidateToken(ctx) {
		h.logger.Info("restored session is no longer valid")
	}
	return nil
}

// ValidateToken reports whether a usable token is held. JWTs are checked
// for expiry locally; opaque tokens are trusted until the API says 401.
func (h *Holder) ValidateToken(ctx context.Context) bool {
	token := h.Token()
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	if h.now().Before(exp.Time) {
		return true
	}
	h.Expire(token)
	return false
}

// TokenUserID reads the user id a JWT was issued for, without verifying
// the signature. Callers must let the API accept the token before trusting
// the id.
func TokenUserID(token string) (int, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, false
	}
	for _, key := range []string{"userId", "user_id", "id", "sub"} {
		switch v := claims[key].(type) {
		case float64:
			if v > 0 && v == float64(int(v)) {
				return int(v), true
			}
		case string:
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n, true
			}
		}
	}
	return 0, false
}

// SetUser replaces the stored user after a profile change, keeping the
// current token.
func (h *Holder) SetUser(ctx context.Context, user models.User) error {
	if h == nil || h.store == nil {
		return apiclient.ErrAuthRequired
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return apiclient.ErrAuthRequired
	}
	id := models.Identity{User: user, Token: h.current.Token}
	if err := h.store.SaveSession(ctx, id); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	h.current = &id
	return nil
}

func (h *Holder) ForgotPassword(ctx context.Context, email string) (string, error) {
	resp, err := h.auth.ForgotPassword(ctx, email)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (h *Holder) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	resp, err := h.auth.ResetPassword(ctx, token, newPassword)
	if err != nil {
		return "", err
	}
	return resp.Message, nil
}
