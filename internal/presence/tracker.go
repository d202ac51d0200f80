// Package presence tracks who is connected, what they are editing and the
// user directory shown next to tasks and comments.
package presence

import (
	"maps"
	"time"

	"taskboard/internal/model"
)

// Tracker counts connected users and holds their current activity. A user
// with several open connections counts once and goes offline when the last
// one closes. Callers serialize access.
type Tracker struct {
	conns  map[string]int
	active map[string]model.ActiveUser
	now    func() time.Time
}

func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Tracker{
		conns:  make(map[string]int),
		active: make(map[string]model.ActiveUser),
		now:    now,
	}
}

// Join registers one more connection for the user and returns the online
// count afterwards.
func (t *Tracker) Join(userID string) int {
	t.conns[userID]++
	return len(t.conns)
}

// Leave drops one connection. When it was the user's last one the user goes
// offline, loses any activity entry and gone is true.
func (t *Tracker) Leave(userID string) (count int, gone bool) {
	n, ok := t.conns[userID]
	if !ok {
		return len(t.conns), false
	}
	if n > 1 {
		t.conns[userID] = n - 1
		return len(t.conns), false
	}
	delete(t.conns, userID)
	delete(t.active, userID)
	return len(t.conns), true
}

// SetActivity overwrites the user's entry. Viewing is not an activity: it
// deletes the entry and stored is false.
func (t *Tracker) SetActivity(userID string, action model.Activity, itemID *string) (entry model.ActiveUser, stored bool) {
	if action == model.ActivityViewing {
		delete(t.active, userID)
		return model.ActiveUser{}, false
	}
	var item *string
	if itemID != nil {
		v := *itemID
		item = &v
	}
	entry = model.ActiveUser{UserID: userID, Action: action, ItemID: item, Timestamp: t.now()}
	t.active[userID] = entry
	return entry, true
}

func (t *Tracker) Count() int {
	return len(t.conns)
}

// Active returns a copy of the activity map.
func (t *Tracker) Active() map[string]model.ActiveUser {
	return maps.Clone(t.active)
}
