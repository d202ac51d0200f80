// Package projection is the client-side read model. It folds server facts
// into a local copy of the board using the same rules as the server store,
// so replicas that see the same facts end up with the same board.
package projection

import (
	"maps"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/protocol"
)

// State is everything a client renders. Values are never modified in place;
// Apply returns a new State.
type State struct {
	Board         model.Board
	Users         map[string]model.User
	OnlineUsers   int
	ActiveUsers   map[string]model.ActiveUser
	History       protocol.HistoryChanged
	HistoryLength int
	LastRejection *protocol.IntentRejected
}

func Empty() State {
	return State{
		Board:       model.NewBoard(),
		Users:       map[string]model.User{},
		ActiveUsers: map[string]model.ActiveUser{},
		History:     protocol.HistoryChanged{CurrentIndex: -1},
	}
}

func FromInitialData(d protocol.InitialData) State {
	users := maps.Clone(d.Users)
	if users == nil {
		users = map[string]model.User{}
	}
	active := maps.Clone(d.ActiveUsers)
	if active == nil {
		active = map[string]model.ActiveUser{}
	}
	return State{
		Board:         board.NewStore(d.Board()).Snapshot(),
		Users:         users,
		OnlineUsers:   d.OnlineUsers,
		ActiveUsers:   active,
		History:       protocol.HistoryChanged{CurrentIndex: d.CurrentHistoryIndex, CanUndo: d.CanUndo, CanRedo: d.CanRedo},
		HistoryLength: d.HistoryLength,
	}
}

// Apply folds one fact into the state. Facts about unknown columns, tasks or
// comments leave the board as it is.
func Apply(s State, f protocol.Fact) State {
	switch f := f.(type) {
	case protocol.InitialData:
		return FromInitialData(f)

	case protocol.ColumnAdded:
		return s.mutate(func(st *board.Store) {
			st.InsertColumn(f.Column, deref(f.Index, -1), deref(f.OrderIndex, -1), f.Tasks)
		})
	case protocol.ColumnUpdated:
		return s.mutate(func(st *board.Store) { st.UpdateColumn(f.ID, f.Title) })
	case protocol.ColumnDeleted:
		return s.mutate(func(st *board.Store) { st.DeleteColumn(f.ID) })
	case protocol.ColumnMoved:
		return s.mutate(func(st *board.Store) { st.MoveColumn(f.SourceIndex, f.DestinationIndex) })

	case protocol.TaskAdded:
		return s.mutate(func(st *board.Store) {
			if !st.InsertTask(f.Task, f.ColumnID, deref(f.Index, -1)) {
				st.ReplaceTask(f.Task)
			}
		})
	case protocol.TaskUpdated:
		return s.mutate(func(st *board.Store) { st.ReplaceTask(f.Task) })
	case protocol.TaskDeleted:
		return s.mutate(func(st *board.Store) { st.DeleteTask(f.ID) })
	case protocol.TaskMoved:
		return s.mutate(func(st *board.Store) { st.MoveTask(f.Source, &f.Destination) })

	case protocol.CommentAdded:
		return s.mutate(func(st *board.Store) {
			if !st.InsertComment(f.TaskID, f.Comment, deref(f.Index, -1)) {
				replaceComment(st, f.TaskID, f.Comment)
			}
		})
	case protocol.CommentDeleted:
		return s.mutate(func(st *board.Store) { st.DeleteComment(f.TaskID, f.CommentID) })
	case protocol.DueDateUpdated:
		return s.mutate(func(st *board.Store) { st.UpdateDueDate(f.TaskID, f.DueDate) })
	case protocol.TaskAssigned:
		return s.mutate(func(st *board.Store) { st.AssignTask(f.TaskID, f.UserID) })

	case protocol.OnlineUsers:
		s.OnlineUsers = f.Count
	case protocol.UserActive:
		s.ActiveUsers = maps.Clone(s.ActiveUsers)
		if f.Action == model.ActivityViewing {
			delete(s.ActiveUsers, f.UserID)
		} else {
			s.ActiveUsers[f.UserID] = model.ActiveUser{UserID: f.UserID, Action: f.Action, ItemID: f.ItemID}
		}
	case protocol.UserInactive:
		s.ActiveUsers = maps.Clone(s.ActiveUsers)
		delete(s.ActiveUsers, f.UserID)
	case protocol.UserJoined:
		s.Users = maps.Clone(s.Users)
		s.Users[f.User.ID] = f.User
	case protocol.HistoryChanged:
		s.History = f
		if f.CurrentIndex+1 > s.HistoryLength {
			s.HistoryLength = f.CurrentIndex + 1
		}
	case protocol.IntentRejected:
		s.LastRejection = &f
	}
	return s
}

// ApplyIntent applies the client's own intent ahead of the server. Creations
// without a client-chosen id are left to the server's echo, and intents the
// server would reject leave the state as it is. Where the server echoes a
// fact back, its timestamps win over the ones stamped here.
func ApplyIntent(s State, in protocol.Intent, userID string, now time.Time) State {
	if protocol.Validate(in) != nil {
		return s
	}
	return s.mutateAt(now, func(st *board.Store) {
		switch in := in.(type) {
		case protocol.AddColumn:
			if in.ID != "" {
				st.AddColumn(in.ID, in.Title)
			}
		case protocol.UpdateColumn:
			st.UpdateColumn(in.ID, in.Title)
		case protocol.DeleteColumn:
			st.DeleteColumn(in.ID)
		case protocol.AddTask:
			if in.ID != "" {
				st.AddTask(board.NewTask{
					ID: in.ID, ColumnID: in.ColumnID, Title: in.Title, Description: in.Description,
					DueDate: in.DueDate, AssignedTo: in.AssignedTo, CreatedAt: in.CreatedAt, UpdatedAt: in.UpdatedAt,
				})
			}
		case protocol.UpdateTask:
			st.UpdateTask(in.ID, in.Title, in.Description, in.DueDate, in.AssignedTo)
		case protocol.DeleteTask:
			st.DeleteTask(in.ID)
		case protocol.MoveTask:
			st.MoveTask(in.Source, in.Destination)
		case protocol.MoveColumn:
			st.MoveColumn(in.SourceIndex, in.DestinationIndex)
		case protocol.AddComment:
			if in.Comment.ID != "" {
				c := in.Comment
				if c.Author == "" {
					c.Author = userID
				}
				st.AddComment(in.TaskID, c)
			}
		case protocol.DeleteComment:
			st.DeleteComment(in.TaskID, in.CommentID)
		case protocol.UpdateDueDate:
			st.UpdateDueDate(in.TaskID, in.DueDate)
		case protocol.AssignTask:
			st.AssignTask(in.TaskID, in.UserID)
		}
	})
}

// replaceComment overwrites an already applied comment with the server's copy.
func replaceComment(st *board.Store, taskID string, c model.Comment) {
	task, ok := st.Task(taskID)
	if !ok {
		return
	}
	idx := task.CommentIndex(c.ID)
	if idx == -1 {
		return
	}
	task.Comments[idx] = c
	st.ReplaceTask(task)
}

func (s State) mutate(fn func(*board.Store)) State {
	return s.mutateAt(time.Time{}, fn)
}

func (s State) mutateAt(now time.Time, fn func(*board.Store)) State {
	st := board.NewStore(s.Board, board.WithClock(func() time.Time { return now }))
	fn(st)
	s.Board = st.Snapshot()
	return s
}

func deref(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
