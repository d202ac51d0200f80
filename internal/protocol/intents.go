package protocol

import (
	"time"

	"taskboard/internal/model"

	"github.com/bytedance/sonic"
)

// Intent event names, as sent by clients.
const (
	EventAddColumn      = "addColumn"
	EventUpdateColumn   = "updateColumn"
	EventDeleteColumn   = "deleteColumn"
	EventAddTask        = "addTask"
	EventUpdateTask     = "updateTask"
	EventDeleteTask     = "deleteTask"
	EventMoveTask       = "moveTask"
	EventMoveColumn     = "moveColumn"
	EventAddComment     = "addComment"
	EventDeleteComment  = "deleteComment"
	EventUpdateDueDate  = "updateDueDate"
	EventAssignTask     = "assignTask"
	EventUndo           = "undo"
	EventRedo           = "redo"
	EventSetActivity    = "setActivity"
	EventGetInitialData = "getInitialData"
)

// Intent is a request to change the board that has not been applied yet.
// The concrete types below are the only implementations.
type Intent interface {
	Event() string
	intent()
}

type AddColumn struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title" validate:"notblank"`
}

type UpdateColumn struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title" validate:"notblank"`
}

type DeleteColumn struct {
	ID string `json:"id" validate:"required"`
}

type AddTask struct {
	ID          string     `json:"id,omitempty"`
	ColumnID    string     `json:"columnId" validate:"required"`
	Title       string     `json:"title" validate:"notblank"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	AssignedTo  *string    `json:"assignedTo"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// UpdateTask leaves DueDate and AssignedTo untouched when their keys are
// absent and clears them on an explicit null.
type UpdateTask struct {
	ID          string                    `json:"id" validate:"required"`
	Title       string                    `json:"title" validate:"notblank"`
	Description string                    `json:"description"`
	DueDate     model.Optional[time.Time] `json:"dueDate"`
	AssignedTo  model.Optional[string]    `json:"assignedTo"`
}

// MarshalJSON drops unset optionals so that a round trip keeps "absent"
// distinct from null.
func (u UpdateTask) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"id":          u.ID,
		"title":       u.Title,
		"description": u.Description,
	}
	if u.DueDate.Set {
		out["dueDate"] = u.DueDate
	}
	if u.AssignedTo.Set {
		out["assignedTo"] = u.AssignedTo
	}
	return sonic.Marshal(out)
}

// UnmarshalJSON decides Set from key presence alone.
func (u *UpdateTask) UnmarshalJSON(data []byte) error {
	var raw map[string]sonic.NoCopyRawMessage
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UpdateTask{}
	for key, dst := range map[string]*string{"id": &u.ID, "title": &u.Title, "description": &u.Description} {
		if v, ok := raw[key]; ok && string(v) != "null" {
			if err := sonic.Unmarshal(v, dst); err != nil {
				return err
			}
		}
	}
	if v, ok := raw["dueDate"]; ok {
		if err := u.DueDate.UnmarshalJSON(v); err != nil {
			return err
		}
	}
	if v, ok := raw["assignedTo"]; ok {
		if err := u.AssignedTo.UnmarshalJSON(v); err != nil {
			return err
		}
	}
	return nil
}

type DeleteTask struct {
	ID string `json:"id" validate:"required"`
}

// MoveTask mirrors a drag-and-drop result; a nil destination is a drop
// outside any column.
type MoveTask struct {
	Source      model.Location  `json:"source"`
	Destination *model.Location `json:"destination"`
}

type MoveColumn struct {
	SourceIndex      int `json:"sourceIndex" validate:"min=0"`
	DestinationIndex int `json:"destinationIndex" validate:"min=0"`
}

type AddComment struct {
	TaskID  string        `json:"taskId" validate:"required"`
	Comment model.Comment `json:"comment"`
}

// IdempotencyKey identifies a comment submission across retries.
func (a AddComment) IdempotencyKey() string {
	return a.TaskID + "-" + a.Comment.ID
}

type DeleteComment struct {
	TaskID    string `json:"taskId" validate:"required"`
	CommentID string `json:"commentId" validate:"required"`
}

type UpdateDueDate struct {
	TaskID  string     `json:"taskId" validate:"required"`
	DueDate *time.Time `json:"dueDate"`
}

type AssignTask struct {
	TaskID string  `json:"taskId" validate:"required"`
	UserID *string `json:"userId"`
}

type Undo struct{}

type Redo struct{}

type SetActivity struct {
	Action model.Activity `json:"action" validate:"oneof=editing-column editing-task viewing"`
	ItemID *string        `json:"itemId"`
}

type GetInitialData struct{}

func (AddColumn) Event() string      { return EventAddColumn }
func (UpdateColumn) Event() string   { return EventUpdateColumn }
func (DeleteColumn) Event() string   { return EventDeleteColumn }
func (AddTask) Event() string        { return EventAddTask }
func (UpdateTask) Event() string     { return EventUpdateTask }
func (DeleteTask) Event() string     { return EventDeleteTask }
func (MoveTask) Event() string       { return EventMoveTask }
func (MoveColumn) Event() string     { return EventMoveColumn }
func (AddComment) Event() string     { return EventAddComment }
func (DeleteComment) Event() string  { return EventDeleteComment }
func (UpdateDueDate) Event() string  { return EventUpdateDueDate }
func (AssignTask) Event() string     { return EventAssignTask }
func (Undo) Event() string           { return EventUndo }
func (Redo) Event() string           { return EventRedo }
func (SetActivity) Event() string    { return EventSetActivity }
func (GetInitialData) Event() string { return EventGetInitialData }

func (AddColumn) intent()      {}
func (UpdateColumn) intent()   {}
func (DeleteColumn) intent()   {}
func (AddTask) intent()        {}
func (UpdateTask) intent()     {}
func (DeleteTask) intent()     {}
func (MoveTask) intent()       {}
func (MoveColumn) intent()     {}
func (AddComment) intent()     {}
func (DeleteComment) intent()  {}
func (UpdateDueDate) intent()  {}
func (AssignTask) intent()     {}
func (Undo) intent()           {}
func (Redo) intent()           {}
func (SetActivity) intent()    {}
func (GetInitialData) intent() {}
