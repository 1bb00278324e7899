// Package selection remembers which species each browser session last
// picked, so the detail view can be opened without a key in the URL.
package selection

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie set on first selection.
const CookieName = "dex_session"

// ErrNoSelection is returned when a session has not selected anything.
var ErrNoSelection = errors.New("no species selected")

// Selection is the last species a session picked.
type Selection struct {
	Game       string    `json:"game"`
	Key        string    `json:"key"`
	SelectedAt time.Time `json:"selectedAt"`
}

// Store is an in-memory map of session id to selection. Entries idle for
// longer than the TTL are dropped by Sweep.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Selection
	ttl     time.Duration
	now     func() time.Time
}

// NewStore creates a store. A zero ttl keeps entries forever.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]Selection),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewSessionID returns a fresh random session id.
func NewSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like an id from NewSessionID.
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Set records a selection for the session, replacing any previous one.
func (s *Store) Set(session, game, key string) Selection {
	sel := Selection{Game: game, Key: key, SelectedAt: s.now()}

	s.mu.Lock()
	s.entries[session] = sel
	s.mu.Unlock()
	return sel
}

// Get returns the session's selection.
func (s *Store) Get(session string) (Selection, error) {
	s.mu.RLock()
	sel, ok := s.entries[session]
	s.mu.RUnlock()

	if !ok || s.expired(sel) {
		return Selection{}, ErrNoSelection
	}
	return sel, nil
}

// Clear forgets the session's selection.
func (s *Store) Clear(session string) {
	s.mu.Lock()
	delete(s.entries, session)
	s.mu.Unlock()
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sel := range s.entries {
		if s.expired(sel) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored selections.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) expired(sel Selection) bool {
	return s.ttl > 0 && s.now().Sub(sel.SelectedAt) > s.ttl
}

// SessionFromRequest returns the session id carried by the request cookie.
func SessionFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || !ValidSessionID(c.Value) {
		return "", false
	}
	return c.Value, true
}

// EnsureSession returns the request's session id, issuing a new cookie when
// the request has none.
func EnsureSession(w http.ResponseWriter, r *http.Request) string {
	if id, ok := SessionFromRequest(r); ok {
		return id
	}
	id := NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
