package model_test

import (
	"encoding/json"
	"testing"
	"time"
	"unicode/utf8"

	"taskboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueStatusAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	tests := []struct {
		name string
		due  *time.Time
		want model.DueStatus
	}{
		{name: "no due date", due: nil, want: model.DueNone},
		{name: "an hour ago", due: at(-time.Hour), want: model.DueOverdue},
		{name: "right now", due: at(0), want: model.DueSoon},
		{name: "in twelve hours", due: at(12 * time.Hour), want: model.DueSoon},
		{name: "in exactly a day", due: at(24 * time.Hour), want: model.DueSoon},
		{name: "a day and a minute", due: at(24*time.Hour + time.Minute), want: model.DueOnTrack},
		{name: "next week", due: at(7 * 24 * time.Hour), want: model.DueOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := model.Task{ID: "task-1", DueDate: tt.due}
			assert.Equal(t, tt.want, task.DueStatusAt(now))
		})
	}
}

func TestOptional_JSON(t *testing.T) {
	type payload struct {
		Who model.Optional[string] `json:"who"`
	}

	tests := []struct {
		name      string
		input     string
		wantSet   bool
		wantValue *string
	}{
		{name: "absent", input: `{}`, wantSet: false},
		{name: "null", input: `{"who":null}`, wantSet: true},
		{name: "value", input: `{"who":"user-john"}`, wantSet: true, wantValue: ptr("user-john")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.input), &p))
			assert.Equal(t, tt.wantSet, p.Who.Set)
			assert.Equal(t, tt.wantValue, p.Who.Value)
		})
	}
}

func TestOptional_Or(t *testing.T) {
	prev := ptr("user-john")

	assert.Equal(t, prev, model.Optional[string]{}.Or(prev))
	assert.Nil(t, model.Null[string]().Or(prev))
	assert.Equal(t, "user-sarah", *model.Some("user-sarah").Or(prev))
}

func TestOptional_Marshal(t *testing.T) {
	out, err := json.Marshal(model.Some(3))
	require.NoError(t, err)
	assert.Equal(t, "3", string(out))

	out, err = json.Marshal(model.Null[int]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}

func TestGuestUser(t *testing.T) {
	u := model.GuestUser("a1b2c3d4-0000")

	assert.Equal(t, "a1b2c3d4-0000", u.ID)
	assert.Equal(t, "User-a1b2", u.Name)
	assert.Equal(t, "https://ui-avatars.com/api/?name=User-a1b2&background=random", u.Avatar)
	assert.Equal(t, "User-ab", model.GuestUser("ab").Name)
}

func TestGuestUser_MultiByteID(t *testing.T) {
	u := model.GuestUser("日本語ユーザー")

	assert.Equal(t, "User-日本語ユ", u.Name)
	assert.True(t, utf8.ValidString(u.Name))
	assert.Equal(t, "User-é", model.GuestUser("é").Name)
}

func TestAvatarURL(t *testing.T) {
	assert.Equal(t, "https://ui-avatars.com/api/?name=John+Smith&background=random", model.AvatarURL("John Smith"))
}

func TestBoard_CloneIsolation(t *testing.T) {
	// Arrange
	due := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	b := model.NewBoard()
	b.Columns = append(b.Columns, model.Column{ID: "column-1", Title: "To Do", TaskIDs: []string{"task-1"}})
	b.ColumnOrder = append(b.ColumnOrder, "column-1")
	b.Tasks["task-1"] = model.Task{
		ID:         "task-1",
		Comments:   []model.Comment{{ID: "comment-1", Text: "hi"}},
		DueDate:    &due,
		AssignedTo: ptr("user-john"),
	}

	// Act
	c := b.Clone()
	c.Columns[0].TaskIDs[0] = "changed"
	c.ColumnOrder[0] = "changed"
	task := c.Tasks["task-1"]
	task.Comments[0].Text = "changed"
	*task.DueDate = due.Add(time.Hour)
	*task.AssignedTo = "changed"
	delete(c.Tasks, "task-1")

	// Assert
	orig := b.Tasks["task-1"]
	assert.Equal(t, "task-1", b.Columns[0].TaskIDs[0])
	assert.Equal(t, "column-1", b.ColumnOrder[0])
	assert.Equal(t, "hi", orig.Comments[0].Text)
	assert.True(t, due.Equal(*orig.DueDate))
	assert.Equal(t, "user-john", *orig.AssignedTo)
}

func TestBoard_Lookups(t *testing.T) {
	b := model.Board{
		Columns: []model.Column{
			{ID: "column-2", TaskIDs: []string{"task-2"}},
			{ID: "column-1", TaskIDs: []string{"task-1", "task-3"}},
		},
		ColumnOrder: []string{"column-1", "column-2"},
	}

	assert.Equal(t, 1, b.ColumnIndex("column-1"))
	assert.Equal(t, -1, b.ColumnIndex("column-9"))

	col, idx := b.ColumnOf("task-3")
	assert.Equal(t, "column-1", col)
	assert.Equal(t, 1, idx)
	col, idx = b.ColumnOf("task-9")
	assert.Empty(t, col)
	assert.Equal(t, -1, idx)

	ordered := b.OrderedColumns()
	require.Len(t, ordered, 2)
	assert.Equal(t, "column-1", ordered[0].ID)
}

func ptr[T any](v T) *T { return &v }
