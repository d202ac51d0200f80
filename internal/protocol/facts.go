package protocol

import (
	"time"

	"taskboard/internal/model"
)

// Fact event names, as sent to clients.
const (
	EventInitialData    = "initialData"
	EventColumnAdded    = "columnAdded"
	EventColumnUpdated  = "columnUpdated"
	EventColumnDeleted  = "columnDeleted"
	EventColumnMoved    = "columnMoved"
	EventTaskAdded      = "taskAdded"
	EventTaskUpdated    = "taskUpdated"
	EventTaskDeleted    = "taskDeleted"
	EventTaskMoved      = "taskMoved"
	EventCommentAdded   = "commentAdded"
	EventCommentDeleted = "commentDeleted"
	EventDueDateUpdated = "dueDateUpdated"
	EventTaskAssigned   = "taskAssigned"
	EventOnlineUsers    = "onlineUsers"
	EventUserActive     = "userActive"
	EventUserInactive   = "userInactive"
	EventUserJoined     = "userJoined"
	EventHistoryChanged = "historyChanged"
	EventIntentRejected = "intentRejected"
)

// Fact is a state change that has already been applied to the board. Each
// fact carries only what an observer needs to replay it.
type Fact interface {
	Event() string
	fact()
}

// InitialData is the full snapshot handed to a client that just joined.
type InitialData struct {
	Columns             []model.Column              `json:"columns"`
	ColumnOrder         []string                    `json:"columnOrder"`
	Tasks               map[string]model.Task       `json:"tasks"`
	Users               map[string]model.User       `json:"users"`
	OnlineUsers         int                         `json:"onlineUsers"`
	ActiveUsers         map[string]model.ActiveUser `json:"activeUsers"`
	CurrentHistoryIndex int                         `json:"currentHistoryIndex"`
	HistoryLength       int                         `json:"historyLength"`
	CanUndo             bool                        `json:"canUndo"`
	CanRedo             bool                        `json:"canRedo"`
}

// Board returns the board part of the snapshot.
func (d InitialData) Board() model.Board {
	return model.Board{Columns: d.Columns, ColumnOrder: d.ColumnOrder, Tasks: d.Tasks}
}

// ColumnAdded optionally carries the positions and tasks of a column being
// restored; without them the column is appended empty.
type ColumnAdded struct {
	Column     model.Column `json:"column"`
	Index      *int         `json:"index,omitempty"`
	OrderIndex *int         `json:"orderIndex,omitempty"`
	Tasks      []model.Task `json:"tasks,omitempty"`
}

type ColumnUpdated struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ColumnDeleted struct {
	ID string `json:"id"`
}

type ColumnMoved struct {
	SourceIndex      int `json:"sourceIndex"`
	DestinationIndex int `json:"destinationIndex"`
}

type TaskAdded struct {
	Task     model.Task `json:"task"`
	ColumnID string     `json:"columnId"`
	Index    *int       `json:"index,omitempty"`
}

type TaskUpdated struct {
	Task model.Task `json:"task"`
}

type TaskDeleted struct {
	ID string `json:"id"`
}

type TaskMoved struct {
	Source      model.Location `json:"source"`
	Destination model.Location `json:"destination"`
}

type CommentAdded struct {
	TaskID  string        `json:"taskId"`
	Comment model.Comment `json:"comment"`
	Index   *int          `json:"index,omitempty"`
}

type CommentDeleted struct {
	TaskID    string `json:"taskId"`
	CommentID string `json:"commentId"`
}

type DueDateUpdated struct {
	TaskID  string     `json:"taskId"`
	DueDate *time.Time `json:"dueDate"`
}

type TaskAssigned struct {
	TaskID string  `json:"taskId"`
	UserID *string `json:"userId"`
}

type OnlineUsers struct {
	Count int `json:"count"`
}

type UserActive struct {
	UserID string         `json:"userId"`
	Action model.Activity `json:"action"`
	ItemID *string        `json:"itemId"`
}

type UserInactive struct {
	UserID string `json:"userId"`
}

type UserJoined struct {
	User model.User `json:"user"`
}

type HistoryChanged struct {
	CurrentIndex int  `json:"currentIndex"`
	CanUndo      bool `json:"canUndo"`
	CanRedo      bool `json:"canRedo"`
}

// IntentRejected is sent only to the client whose intent failed validation.
type IntentRejected struct {
	Intent string `json:"event"`
	Error  string `json:"error"`
}

func (InitialData) Event() string    { return EventInitialData }
func (ColumnAdded) Event() string    { return EventColumnAdded }
func (ColumnUpdated) Event() string  { return EventColumnUpdated }
func (ColumnDeleted) Event() string  { return EventColumnDeleted }
func (ColumnMoved) Event() string    { return EventColumnMoved }
func (TaskAdded) Event() string      { return EventTaskAdded }
func (TaskUpdated) Event() string    { return EventTaskUpdated }
func (TaskDeleted) Event() string    { return EventTaskDeleted }
func (TaskMoved) Event() string      { return EventTaskMoved }
func (CommentAdded) Event() string   { return EventCommentAdded }
func (CommentDeleted) Event() string { return EventCommentDeleted }
func (DueDateUpdated) Event() string { return EventDueDateUpdated }
func (TaskAssigned) Event() string   { return EventTaskAssigned }
func (OnlineUsers) Event() string    { return EventOnlineUsers }
func (UserActive) Event() string     { return EventUserActive }
func (UserInactive) Event() string   { return EventUserInactive }
func (UserJoined) Event() string     { return EventUserJoined }
func (HistoryChanged) Event() string { return EventHistoryChanged }
func (IntentRejected) Event() string { return EventIntentRejected }

func (InitialData) fact()    {}
func (ColumnAdded) fact()    {}
func (ColumnUpdated) fact()  {}
func (ColumnDeleted) fact()  {}
func (ColumnMoved) fact()    {}
func (TaskAdded) fact()      {}
func (TaskUpdated) fact()    {}
func (TaskDeleted) fact()    {}
func (TaskMoved) fact()      {}
func (CommentAdded) fact()   {}
func (CommentDeleted) fact() {}
func (DueDateUpdated) fact() {}
func (TaskAssigned) fact()   {}
func (OnlineUsers) fact()    {}
func (UserActive) fact()     {}
func (UserInactive) fact()   {}
func (UserJoined) fact()     {}
func (HistoryChanged) fact() {}
func (IntentRejected) fact() {}
