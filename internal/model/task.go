package model

import (
	"math"
	"slices"
	"time"
)

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Comments    []Comment  `json:"comments"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *string    `json:"assignedTo"`
}

func (t Task) Clone() Task {
	t.Comments = slices.Clone(t.Comments)
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.AssignedTo != nil {
		who := *t.AssignedTo
		t.AssignedTo = &who
	}
	return t
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (t Task) CommentIndex(id string) int {
	for i := range t.Comments {
		if t.Comments[i].ID == id {
			return i
		}
	}
	return -1
}

type DueStatus string

const (
	DueNone    DueStatus = ""
	DueOverdue DueStatus = "overdue"
	DueSoon    DueStatus = "due-soon"
	DueOnTrack DueStatus = "on-track"
)

// DueStatusAt classifies the task's due date relative to now. Anything due
// within the next (rounded up) day counts as due soon.
func (t Task) DueStatusAt(now time.Time) DueStatus {
	if t.DueDate == nil {
		return DueNone
	}
	diff := t.DueDate.Sub(now)
	if diff < 0 {
		return DueOverdue
	}
	if days := math.Ceil(diff.Hours() / 24); days <= 1 {
		return DueSoon
	}
	return DueOnTrack
}
