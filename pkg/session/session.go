package session

import (
	"errors"
	"time"
)

// flashKey is the session value holding pending flash messages.
const flashKey = "_flash"

// Session is a server-side session. Values must be JSON encodable when
// a RedisStore is used.
type Session struct {
	CreatedAt time.Time      `json:"created_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	Values    map[string]any `json:"values"`
	ID        string         `json:"id"`

	dirty bool
	isNew bool
}

// New creates a new session with the given ID.
func New(id string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		Values:    make(map[string]any),
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		isNew:     true,
		dirty:     true,
	}
}

// SetValue stores a value and marks the session dirty.
func (s *Session) SetValue(key string, val any) {
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	s.Values[key] = val
	s.dirty = true
}

func (s *Session) GetValue(key string) (any, bool) {
	if s.Values == nil {
		return nil, false
	}
	val, ok := s.Values[key]
	return val, ok
}

// DeleteValue removes a value. The session is marked dirty only if the key existed.
func (s *Session) DeleteValue(key string) {
	if s.Values == nil {
		return
	}
	if _, exists := s.Values[key]; exists {
		delete(s.Values, key)
		s.dirty = true
	}
}

// SetFlash stores a message that survives until it is read once.
func (s *Session) SetFlash(key string, val any) {
	flashes := s.flashes()
	if flashes == nil {
		flashes = make(map[string]any)
	}
	flashes[key] = val
	s.SetValue(flashKey, flashes)
}

// Flash returns and removes the flash message under key.
func (s *Session) Flash(key string) (any, bool) {
	flashes := s.flashes()
	val, ok := flashes[key]
	if !ok {
		return nil, false
	}
	delete(flashes, key)
	if len(flashes) == 0 {
		s.DeleteValue(flashKey)
	} else {
		s.SetValue(flashKey, flashes)
	}
	return val, true
}

// HasFlash reports whether a flash message is pending under key.
func (s *Session) HasFlash(key string) bool {
	_, ok := s.flashes()[key]
	return ok
}

// flashes returns the pending flash map. After a JSON round trip the
// stored value is a map[string]any as well.
func (s *Session) flashes() map[string]any {
	v, ok := s.GetValue(flashKey)
	if !ok {
		return nil
	}
	m, _ := v.(map[string]any)
	return m
}

func (s *Session) IsDirty() bool { return s.dirty }
func (s *Session) MarkDirty()    { s.dirty = true }

// ClearDirty marks the session as saved.
func (s *Session) ClearDirty() { s.dirty = false }

func (s *Session) IsNew() bool { return s.isNew }

// ClearNew marks the session as persisted at least once.
func (s *Session) ClearNew() { s.isNew = false }

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Value retrieves a typed session value.
func Value[T any](s *Session, key string) (T, error) {
	var zero T
	if s == nil {
		return zero, ErrNotFound
	}

	val, ok := s.GetValue(key)
	if !ok {
		return zero, ErrNotFound
	}

	typed, ok := val.(T)
	if !ok {
		return zero, errors.New("session: type mismatch for key: " + key)
	}

	return typed, nil
}

// ValueOr returns the typed value of key or defaultVal.
func ValueOr[T any](s *Session, key string, defaultVal T) T {
	val, err := Value[T](s, key)
	if err != nil {
		return defaultVal
	}
	return val
}
