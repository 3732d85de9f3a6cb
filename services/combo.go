// services/combo.go
package services

import (
	"sync"
	"time"
)

// ComboWindow is how long a combo survives between qualifying actions.
const ComboWindow = 5 * time.Minute

// comboBonusTiers maps a minimum combo count to the XP bonus fired at that
// count. Tunable table, checked highest-first.
var comboBonusTiers = []struct {
	MinCount int
	Bonus    int64
}{
	{10, 50},
	{5, 25},
	{3, 10},
}

// ComboBonus returns the XP bonus for a combo count: a non-decreasing step
// function, 0 below the lowest tier.
func ComboBonus(count int) int64 {
	for _, tier := range comboBonusTiers {
		if count >= tier.MinCount {
			return tier.Bonus
		}
	}
	return 0
}

type comboState struct {
	Count        int
	LastActionAt time.Time
}

// ComboTracker keeps per-user session combos in memory only. A process
// restart resets every combo to 0 on purpose: combos reward session
// engagement, not calendar persistence, so this state is never written to
// the database.
type ComboTracker struct {
	mu     sync.Mutex
	states map[string]comboState
	now    func() time.Time
}

// NewComboTracker builds an empty tracker. now is the clock used for window
// checks; pass nil for time.Now.
func NewComboTracker(now func() time.Time) *ComboTracker {
	if now == nil {
		now = time.Now
	}
	return &ComboTracker{
		states: make(map[string]comboState),
		now:    now,
	}
}

// RegisterAction counts a qualifying action and returns the new combo count.
// Inside the window the combo grows by 1; past it the combo restarts at 1.
func (t *ComboTracker) RegisterAction(userKey string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	state := t.states[userKey]
	if state.Count > 0 && now.Sub(state.LastActionAt) <= ComboWindow {
		state.Count++
	} else {
		state.Count = 1
	}
	state.LastActionAt = now
	t.states[userKey] = state
	return state.Count
}

// CurrentCombo returns the live combo count, 0 once the window has lapsed.
func (t *ComboTracker) CurrentCombo(userKey string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userKey]
	if !ok || t.now().Sub(state.LastActionAt) > ComboWindow {
		return 0
	}
	return state.Count
}

// Reset clears one user's combo (logout / user switch).
func (t *ComboTracker) Reset(userKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, userKey)
}
