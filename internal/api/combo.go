package api

import (
	"net/http"
	"sync"

	"github.com/asukabase7/ip-skill-quiz/internal/id"
)

const comboCookieName = "quiz_session"

// comboTrackerMaxEntries caps the counter map. Every fresh cookie adds an
// entry, so an uncapped map grows with cookie churn; at the cap all counters
// are evicted wholesale. Combos are display-only, so losing them is fine.
const comboTrackerMaxEntries = 10000

// comboTracker keeps the per-browser run of consecutive correct answers,
// keyed by an opaque session cookie. Counters live only in memory; a restart
// (or eviction) resets every combo, which is acceptable for a display-only
// streak.
type comboTracker struct {
	mu       sync.Mutex
	counters map[string]int
}

func newComboTracker() *comboTracker {
	return &comboTracker{counters: make(map[string]int)}
}

// evictIfFull drops all counters before a new key would exceed the cap.
// Callers must hold t.mu.
func (t *comboTracker) evictIfFull(key string) {
	if _, ok := t.counters[key]; !ok && len(t.counters) >= comboTrackerMaxEntries {
		t.counters = make(map[string]int)
	}
}

// Bump advances the combo for one answer: +1 when correct, back to zero when
// not. Returns the new value.
func (t *comboTracker) Bump(key string, correct bool) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictIfFull(key)
	if !correct {
		t.counters[key] = 0
		return 0
	}
	t.counters[key]++
	return t.counters[key]
}

// Reset zeroes the combo, e.g. at quiz start.
func (t *comboTracker) Reset(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.evictIfFull(key)
	t.counters[key] = 0
}

// comboKey returns the caller's combo-session key, minting the cookie on
// first contact.
func (h *Handler) comboKey(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(comboCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	key := id.GenerateID()
	http.SetCookie(w, &http.Cookie{
		Name:     comboCookieName,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}
