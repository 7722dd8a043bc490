// Package session owns the notion of "current user" for one client profile.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"food-marketplace-client/api"
	"food-marketplace-client/broadcast"
	"food-marketplace-client/models"
	"food-marketplace-client/storage"

	"go.uber.org/zap"
)

// ErrNotAuthenticated is returned by operations that need a signed-in user.
var ErrNotAuthenticated = errors.New("not signed in")

// Authenticator is the part of the marketplace API the session needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (api.AuthResult, error)
	Register(ctx context.Context, reg api.Registration) (api.AuthResult, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (models.User, error)
}

// Holder is either anonymous or authenticated(user, token). Reads are served
// from memory; durable storage mirrors every change.
type Holder struct {
	store  storage.Store
	auth   Authenticator
	hub    *broadcast.Hub
	logger *zap.SugaredLogger

	mu    sync.RWMutex
	user  *models.User
	token string

	unsubscribe func()
}

// New restores the persisted session and follows auth changes made by other
// clients sharing the store.
func New(store storage.Store, auth Authenticator, hub *broadcast.Hub, logger *zap.SugaredLogger) (*Holder, error) {
	h := &Holder{store: store, auth: auth, hub: hub, logger: logger}
	if err := h.Reload(); err != nil {
		return nil, err
	}
	h.unsubscribe = hub.Subscribe(func(ev broadcast.Event) {
		if ev.Origin == hub.Origin() {
			return
		}
		if err := h.Reload(); err != nil {
			h.logger.Warnw("reload session after remote change", "error", err)
		}
	}, broadcast.TopicAuth)
	return h, nil
}

// Close stops following remote changes.
func (h *Holder) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
	}
}

// User returns a copy of the cached user, or nil when anonymous. It never
// touches the network.
func (h *Holder) User() *models.User {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.user == nil {
		return nil
	}
	u := *h.user
	return &u
}

// Token returns the bearer token, or "" when anonymous.
func (h *Holder) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *Holder) Authenticated() bool {
	return h.User() != nil
}

// Require returns the current user or ErrNotAuthenticated.
func (h *Holder) Require() (models.User, error) {
	u := h.User()
	if u == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *u, nil
}

func (h *Holder) Login(ctx context.Context, email, password string) (models.User, error) {
	res, err := h.auth.Login(ctx, email, password)
	if err != nil {
		return models.User{}, err
	}
	if err := h.establish(res); err != nil {
		return models.User{}, err
	}
	h.logger.Infow("signed in", "user_id", res.User.ID, "role", res.User.Role)
	return res.User, nil
}

func (h *Holder) Register(ctx context.Context, reg api.Registration) (models.User, error) {
	res, err := h.auth.Register(ctx, reg)
	if err != nil {
		return models.User{}, err
	}
	if err := h.establish(res); err != nil {
		return models.User{}, err
	}
	h.logger.Infow("registered", "user_id", res.User.ID, "role", res.User.Role)
	return res.User, nil
}

func (h *Holder) establish(res api.AuthResult) error {
	h.mu.Lock()
	err := h.persistLocked(&res.User, res.Token)
	h.mu.Unlock()
	if err != nil {
		return err
	}
	h.hub.Publish(broadcast.TopicAuth)
	return nil
}

// Logout tells the server, but local state is cleared whatever it answers.
// The returned error only reports a failure to clear durable storage.
func (h *Holder) Logout(ctx context.Context) error {
	if err := h.auth.Logout(ctx); err != nil {
		h.logger.Warnw("remote logout failed", "error", err)
	}
	return h.demote("", "logout")
}

// Refresh re-validates the token against the server. Any failure demotes the
// session to anonymous without surfacing an error; an expired token is
// routine. A valid token replaces the cached user only when it changed.
// The answer is dropped if the token changed while the request was in flight.
func (h *Holder) Refresh(ctx context.Context) {
	token := h.Token()
	if token == "" {
		if h.User() != nil {
			if err := h.demote("", "missing token"); err != nil {
				h.logger.Warnw("clear session", "error", err)
			}
		}
		return
	}

	fresh, err := h.auth.CurrentUser(ctx)
	if err != nil {
		h.logger.Infow("session no longer valid", "error", err)
		if err := h.demote(token, "revalidation failed"); err != nil {
			h.logger.Warnw("clear session", "error", err)
		}
		return
	}

	if changed, err := h.replace(token, fresh); err != nil {
		h.logger.Warnw("store refreshed user", "error", err)
	} else if changed {
		h.hub.Publish(broadcast.TopicAuth)
	}
}

// Replace swaps the cached snapshot, e.g. after a profile update.
func (h *Holder) Replace(user models.User) error {
	if h.User() == nil {
		return ErrNotAuthenticated
	}
	changed, err := h.replace(h.Token(), user)
	if err != nil {
		return err
	}
	if changed {
		h.hub.Publish(broadcast.TopicAuth)
	}
	return nil
}

// replace stores user as the snapshot of the session holding token.
func (h *Holder) replace(token string, user models.User) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.token == "" || h.token != token {
		return false, nil
	}
	if h.user != nil {
		// the role of a session view never changes
		if h.user.ID == user.ID {
			user.Role = h.user.Role
		}
		if reflect.DeepEqual(*h.user, user) {
			return false, nil
		}
	}
	if err := h.persistLocked(&user, h.token); err != nil {
		return false, err
	}
	return true, nil
}

// demote clears the session. A non-empty token limits it to the session
// holding that token.
func (h *Holder) demote(token, reason string) error {
	h.mu.Lock()
	if token != "" && h.token != token {
		h.mu.Unlock()
		h.logger.Infow("kept newer session", "reason", reason)
		return nil
	}
	wasAuthenticated := h.user != nil || h.token != ""
	h.user = nil
	h.token = ""
	errToken := h.store.Remove(storage.KeyToken)
	errUser := h.store.Remove(storage.KeyCurrentUser)
	h.mu.Unlock()

	if wasAuthenticated {
		h.logger.Infow("signed out", "reason", reason)
		h.hub.Publish(broadcast.TopicAuth)
	}
	return errors.Join(errToken, errUser)
}

func (h *Holder) persistLocked(user *models.User, token string) error {
	snapshot, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user snapshot: %w", err)
	}
	if err := h.store.Set(storage.KeyToken, token); err != nil {
		return err
	}
	if err := h.store.Set(storage.KeyCurrentUser, string(snapshot)); err != nil {
		return err
	}
	h.user = user
	h.token = token
	return nil
}

// Reload re-reads the persisted snapshot. A snapshot that cannot be decoded
// is discarded.
func (h *Holder) Reload() error {
	token, _, err := h.store.Get(storage.KeyToken)
	if err != nil {
		return err
	}
	raw, ok, err := h.store.Get(storage.KeyCurrentUser)
	if err != nil {
		return err
	}

	var user *models.User
	if ok && raw != "" {
		var u models.User
		if err := json.Unmarshal([]byte(raw), &u); err != nil || u.ID.IsZero() {
			h.logger.Warnw("discarding unreadable user snapshot", "error", err)
		} else {
			user = &u
		}
	}

	h.mu.Lock()
	h.user = user
	h.token = token
	h.mu.Unlock()
	return nil
}
