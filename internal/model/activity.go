package model

import "time"

type Activity string

const (
	ActivityEditingColumn Activity = "editing-column"
	ActivityEditingTask   Activity = "editing-task"
	ActivityViewing       Activity = "viewing"
)

// ActiveUser records what a user is currently editing. Viewing is never stored.
type ActiveUser struct {
	UserID    string    `json:"userId"`
	Action    Activity  `json:"action"`
	ItemID    *string   `json:"itemId"`
	Timestamp time.Time `json:"timestamp"`
}
