package presence_test

import (
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/presence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTracker() *presence.Tracker {
	return presence.NewTracker(func() time.Time { return fixedNow })
}

func TestTracker_JoinLeaveCountsUsers(t *testing.T) {
	tr := newTracker()

	assert.Equal(t, 1, tr.Join("alice"))
	assert.Equal(t, 2, tr.Join("bob"))
	assert.Equal(t, 2, tr.Join("alice"))

	count, gone := tr.Leave("alice")
	assert.Equal(t, 2, count)
	assert.False(t, gone)
	assert.Equal(t, 2, tr.Count())

	count, gone = tr.Leave("alice")
	assert.Equal(t, 1, count)
	assert.True(t, gone)
	assert.Equal(t, 1, tr.Count())
}

func TestTracker_LeaveUnknownUser(t *testing.T) {
	tr := newTracker()
	tr.Join("alice")

	count, gone := tr.Leave("ghost")

	assert.Equal(t, 1, count)
	assert.False(t, gone)
}

func TestTracker_SetActivity(t *testing.T) {
	tr := newTracker()
	tr.Join("alice")
	item := "task-1"

	entry, stored := tr.SetActivity("alice", model.ActivityEditingTask, &item)

	require.True(t, stored)
	assert.Equal(t, model.ActiveUser{UserID: "alice", Action: model.ActivityEditingTask, ItemID: &item, Timestamp: fixedNow}, entry)
	assert.Contains(t, tr.Active(), "alice")

	item = "mutated"
	assert.Equal(t, "task-1", *tr.Active()["alice"].ItemID)
}

func TestTracker_ViewingClearsActivity(t *testing.T) {
	tr := newTracker()
	tr.SetActivity("alice", model.ActivityEditingColumn, nil)

	_, stored := tr.SetActivity("alice", model.ActivityViewing, nil)

	assert.False(t, stored)
	assert.Empty(t, tr.Active())
}

func TestTracker_LastLeaveClearsActivity(t *testing.T) {
	tr := newTracker()
	tr.Join("alice")
	tr.SetActivity("alice", model.ActivityEditingColumn, nil)

	tr.Leave("alice")

	assert.Empty(t, tr.Active())
}

func TestTracker_ActiveIsACopy(t *testing.T) {
	tr := newTracker()
	tr.SetActivity("alice", model.ActivityEditingColumn, nil)

	snap := tr.Active()
	delete(snap, "alice")

	assert.Len(t, tr.Active(), 1)
}

func TestDirectory_EnsureAddsGuestOnce(t *testing.T) {
	d := presence.NewDirectory(map[string]model.User{
		"user-john": {ID: "user-john", Name: "John Smith"},
	})

	u, added := d.Ensure("user-john")
	assert.False(t, added)
	assert.Equal(t, "John Smith", u.Name)

	u, added = d.Ensure("9f3ab2c1")
	assert.True(t, added)
	assert.Equal(t, "User-9f3a", u.Name)
	assert.Contains(t, u.Avatar, "name=User-9f3a")

	_, added = d.Ensure("9f3ab2c1")
	assert.False(t, added)
	assert.Len(t, d.All(), 2)
}
