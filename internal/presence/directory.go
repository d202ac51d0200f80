package presence

import (
	"maps"

	"taskboard/internal/model"
)

// Directory holds every user seen during the session. Entries are never
// removed, so a user who disconnected still resolves by id.
type Directory struct {
	users map[string]model.User
}

func NewDirectory(seed map[string]model.User) *Directory {
	users := maps.Clone(seed)
	if users == nil {
		users = make(map[string]model.User)
	}
	return &Directory{users: users}
}

// Ensure returns the user's entry, creating a guest entry when the id is new.
func (d *Directory) Ensure(userID string) (user model.User, added bool) {
	if u, ok := d.users[userID]; ok {
		return u, false
	}
	u := model.GuestUser(userID)
	d.users[userID] = u
	return u, true
}

func (d *Directory) All() map[string]model.User {
	return maps.Clone(d.users)
}
