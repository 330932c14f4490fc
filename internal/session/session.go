// Package session owns the lifecycle of the ephemeral Notion access token,
// derived each run from the stored long-lived integration ID. The token is
// never persisted.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/user/notionclip/internal/notion"
)

var (
	// ErrMissingCredential means the integration ID is absent or malformed.
	ErrMissingCredential = errors.New("notion integration ID is not configured or invalid (must be 36 characters)")
	// ErrUnauthorized means the identity endpoint rejected the credential.
	ErrUnauthorized = errors.New("not logged in to notion.so; log in and retry")
	// ErrTokenTimeout means the bounded wait for a token was exhausted.
	ErrTokenTimeout = errors.New("timed out waiting for a notion token")
)

// The integration ID is always exactly this long.
const botIDLen = 36

const (
	DefaultAwaitAttempts = 5
	DefaultAwaitInterval = 300 * time.Millisecond
)

type State int

const (
	Unauthenticated State = iota
	Active
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unauthenticated"
	}
}

// Token is the in-memory session token. Value is empty unless State is
// Active.
type Token struct {
	BotID string
	Value string
	State State
}

// TokenExchanger exchanges an integration ID for a short-lived token.
type TokenExchanger interface {
	RequestToken(ctx context.Context, botID string) (*notion.TokenResponse, error)
}

// Manager performs the exchange once per session and keeps the result in
// memory. It is the sole writer of the token; later pipeline steps only
// read it.
type Manager struct {
	exchanger TokenExchanger

	mu    sync.RWMutex
	token *Token
}

func NewManager(exchanger TokenExchanger) *Manager {
	return &Manager{exchanger: exchanger}
}

// EnsureToken validates the integration ID, exchanges it for a token and
// stores the result. It does not retry: an unauthorized exchange is surfaced
// immediately so the user can log in.
func (m *Manager) EnsureToken(ctx context.Context, botID string) (*Token, error) {
	if len(botID) != botIDLen {
		return nil, ErrMissingCredential
	}

	if t := m.Token(); t != nil && t.State == Active && t.BotID == botID {
		return t, nil
	}

	resp, err := m.exchanger.RequestToken(ctx, botID)
	if err != nil {
		return nil, err
	}

	// The endpoint reports authorization failures by error name in the
	// body, not by HTTP status.
	if resp.Name == "UnauthorizedError" {
		m.setToken(&Token{BotID: botID, State: Unauthorized})
		return nil, ErrUnauthorized
	}

	token := &Token{BotID: botID, Value: resp.Token, State: Active}
	m.setToken(token)
	return token, nil
}

// AwaitToken polls the in-memory token up to maxAttempts times, interval
// apart. Used when session acquisition was started by a separate trigger
// than the caller.
func (m *Manager) AwaitToken(ctx context.Context, maxAttempts int, interval time.Duration) (*Token, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultAwaitAttempts
	}
	if interval <= 0 {
		interval = DefaultAwaitInterval
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if t := m.Token(); t != nil && t.State == Active {
			return t, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
	if t := m.Token(); t != nil && t.State == Active {
		return t, nil
	}
	return nil, ErrTokenTimeout
}

// Token returns the current in-memory token, or nil before any exchange.
func (m *Manager) Token() *Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) setToken(t *Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = t
}
