// Package session owns "who is logged in": the persisted profile fields, the bearer
// token attached to every remote call, and the forced-logout transition on
// authorization failure.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/internal/metrics"
	"github.com/SERHANISalaheddine/Project-Manager-Modile-App-sub000/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
)

// Persisted keys. Session keys are removed on logout and expiry, preference keys are not.
const (
	keyLoggedIn      = "session.logged_in"
	keyUserID        = "session.user_id"
	keyEmail         = "session.email"
	keyFirstName     = "session.first_name"
	keyLastName      = "session.last_name"
	keyToken         = "session.token"
	keyRememberMe    = "session.remember_me"
	keyLastProjectID = "session.last_project_id"

	keyDarkMode      = "pref.dark_mode"
	keyNotifications = "pref.notifications_enabled"
)

var sessionKeys = []string{
	keyLoggedIn, keyUserID, keyEmail, keyFirstName, keyLastName,
	keyToken, keyRememberMe, keyLastProjectID,
}

var (
	ErrNotAuthenticated  = errors.New("not signed in")
	ErrInvalidCredential = errors.New("sign-in requires a user id and token")
)

// Event is a session transition delivered to subscribers.
type Event int

const (
	EventSignedIn Event = iota + 1
	EventSignedOut
	EventExpired
)

func (e Event) String() string {
	switch e {
	case EventSignedIn:
		return "signed_in"
	case EventSignedOut:
		return "signed_out"
	case EventExpired:
		return "expired"
	}
	return "unknown"
}

// State is a snapshot of the session fields. It is a value; holding one never
// keeps a token alive past logout.
type State struct {
	LoggedIn      bool
	UserID        int64
	Email         string
	FirstName     string
	LastName      string
	Token         string
	RememberMe    bool
	LastProjectID int64
}

// Credentials are the fields persisted by a successful login or registration.
type Credentials struct {
	UserID     int64
	Email      string
	FirstName  string
	LastName   string
	Token      string
	RememberMe bool
}

type Profile struct {
	Email     string
	FirstName string
	LastName  string
}

type Manager struct {
	backend Backend
	now     func() time.Time

	mu            sync.RWMutex
	state         State
	darkMode      bool
	notifications bool

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

type Option func(*Manager)

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager restores the persisted snapshot. A stored session whose owner did not
// ask to be remembered is discarded and the manager starts Anonymous.
func NewManager(ctx context.Context, backend Backend, opts ...Option) (*Manager, error) {
	m := &Manager{
		backend:       backend,
		now:           time.Now,
		notifications: true,
		subs:          make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(m)
	}

	values, err := backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	m.darkMode = parseBool(values[keyDarkMode], false)
	m.notifications = parseBool(values[keyNotifications], true)

	state := State{
		LoggedIn:      parseBool(values[keyLoggedIn], false),
		UserID:        parseInt(values[keyUserID]),
		Email:         values[keyEmail],
		FirstName:     values[keyFirstName],
		LastName:      values[keyLastName],
		Token:         values[keyToken],
		RememberMe:    parseBool(values[keyRememberMe], false),
		LastProjectID: parseInt(values[keyLastProjectID]),
	}

	if state.LoggedIn && (!state.RememberMe || state.Token == "") {
		logger.Info().Int64("user_id", state.UserID).Msg("stored session not remembered, starting signed out")
		if err := backend.Delete(ctx, sessionKeys); err != nil {
			return nil, fmt.Errorf("clear session: %w", err)
		}
		state = State{}
	}
	if !state.LoggedIn {
		state = State{}
	}
	m.state = state
	return m, nil
}

// SignIn persists the credentials as one batch. The in-memory state only changes
// after the batch is stored, so a failed write leaves the previous state intact.
func (m *Manager) SignIn(ctx context.Context, c Credentials) error {
	if c.UserID <= 0 || c.Token == "" {
		return ErrInvalidCredential
	}

	m.mu.Lock()
	last := m.state.LastProjectID
	if m.state.UserID != c.UserID {
		last = 0
	}
	values := map[string]string{
		keyLoggedIn:      "true",
		keyUserID:        strconv.FormatInt(c.UserID, 10),
		keyEmail:         c.Email,
		keyFirstName:     c.FirstName,
		keyLastName:      c.LastName,
		keyToken:         c.Token,
		keyRememberMe:    strconv.FormatBool(c.RememberMe),
		keyLastProjectID: strconv.FormatInt(last, 10),
	}
	if err := m.backend.Save(ctx, values); err != nil {
		m.mu.Unlock()
		logger.Error().Err(err).Msg("failed to persist session")
		return fmt.Errorf("persist session: %w", err)
	}
	m.state = State{
		LoggedIn:      true,
		UserID:        c.UserID,
		Email:         c.Email,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Token:         c.Token,
		RememberMe:    c.RememberMe,
		LastProjectID: last,
	}
	m.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(EventSignedIn.String()).Inc()
	logger.Info().Int64("user_id", c.UserID).Msg("signed in")
	m.emit(EventSignedIn)
	return nil
}

// UpdateProfile replaces the stored email and names of the signed-in user.
func (m *Manager) UpdateProfile(ctx context.Context, p Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.LoggedIn {
		return ErrNotAuthenticated
	}
	err := m.backend.Save(ctx, map[string]string{
		keyEmail:     p.Email,
		keyFirstName: p.FirstName,
		keyLastName:  p.LastName,
	})
	if err != nil {
		return fmt.Errorf("persist profile: %w", err)
	}
	m.state.Email = p.Email
	m.state.FirstName = p.FirstName
	m.state.LastName = p.LastName
	return nil
}

// Token returns a copy of the bearer token, or "" when signed out. A JWT whose exp
// claim has passed ends the session before anything is returned.
func (m *Manager) Token() string {
	m.mu.RLock()
	token := m.state.Token
	m.mu.RUnlock()

	if token == "" {
		return ""
	}
	if tokenExpired(token, m.now()) {
		m.ExpireToken(context.Background(), token)
		return ""
	}
	return token
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Manager) IsLoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LoggedIn
}

func (m *Manager) UserID() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.UserID
}

// Logout ends the session at the user's request.
func (m *Manager) Logout(ctx context.Context) error {
	wasLoggedIn, err := m.clear(ctx, "")
	if wasLoggedIn {
		metrics.SessionTransitionsTotal.WithLabelValues(EventSignedOut.String()).Inc()
		logger.Info().Msg("signed out")
		m.emit(EventSignedOut)
	}
	return err
}

// ExpireToken ends the session after the remote service rejected token. It does
// nothing unless token is the one the session currently holds, so a late answer
// to a request signed before a re-login leaves the new session alone. Only the
// first call for a token clears state and notifies subscribers.
func (m *Manager) ExpireToken(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	cleared, err := m.clear(ctx, token)
	if err != nil {
		logger.Error().Err(err).Msg("failed to clear expired session")
	}
	if !cleared {
		return false
	}
	metrics.SessionTransitionsTotal.WithLabelValues(EventExpired.String()).Inc()
	logger.Warn().Msg("session expired, sign-in required")
	m.emit(EventExpired)
	return true
}

// clear drops every session field. A non-empty token restricts it to the session
// holding that token. The in-memory state is cleared even when the backend
// delete fails so a rejected token is never sent again.
func (m *Manager) clear(ctx context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.state.LoggedIn {
		return false, nil
	}
	if token != "" && m.state.Token != token {
		return false, nil
	}
	m.state = State{}
	if err := m.backend.Delete(ctx, sessionKeys); err != nil {
		return true, fmt.Errorf("clear session: %w", err)
	}
	return true, nil
}

// Subscribe registers fn for session transitions. The returned func unregisters it.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) emit(e Event) {
	m.subMu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// --- preferences ---

func (m *Manager) DarkMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.darkMode
}

func (m *Manager) SetDarkMode(ctx context.Context, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.backend.Save(ctx, map[string]string{keyDarkMode: strconv.FormatBool(on)}); err != nil {
		return fmt.Errorf("persist dark mode: %w", err)
	}
	m.darkMode = on
	return nil
}

func (m *Manager) NotificationsEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notifications
}

func (m *Manager) SetNotificationsEnabled(ctx context.Context, on bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.backend.Save(ctx, map[string]string{keyNotifications: strconv.FormatBool(on)}); err != nil {
		return fmt.Errorf("persist notifications: %w", err)
	}
	m.notifications = on
	return nil
}

func (m *Manager) LastProjectID() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.LastProjectID
}

// SetLastProjectID records the project the user last opened. It is part of the
// session and is cleared on logout.
func (m *Manager) SetLastProjectID(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.state.LoggedIn {
		return ErrNotAuthenticated
	}
	if err := m.backend.Save(ctx, map[string]string{keyLastProjectID: strconv.FormatInt(id, 10)}); err != nil {
		return fmt.Errorf("persist last project: %w", err)
	}
	m.state.LastProjectID = id
	return nil
}

// tokenExpired reads the exp claim without verifying the signature; the server
// remains the authority. Opaque tokens never expire client-side.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !now.Before(exp.Time)
}

func parseBool(raw string, fallback bool) bool {
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}

func parseInt(raw string) int64 {
	v, _ := strconv.ParseInt(raw, 10, 64)
	return v
}
