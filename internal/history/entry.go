package history

import (
	"time"

	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/protocol"
)

type Kind string

const (
	KindAddColumn     Kind = "addColumn"
	KindUpdateColumn  Kind = "updateColumn"
	KindDeleteColumn  Kind = "deleteColumn"
	KindAddTask       Kind = "addTask"
	KindUpdateTask    Kind = "updateTask"
	KindDeleteTask    Kind = "deleteTask"
	KindMoveTask      Kind = "moveTask"
	KindMoveColumn    Kind = "moveColumn"
	KindAddComment    Kind = "addComment"
	KindDeleteComment Kind = "deleteComment"
	KindUpdateDueDate Kind = "updateDueDate"
	KindAssignTask    Kind = "assignTask"
)

// Entry is one applied mutation together with what it takes to invert it.
// Undo and Redo apply their transform to the store and return the facts an
// observer needs to follow along; an empty result means nothing changed.
type Entry interface {
	Kind() Kind
	Undo(s *board.Store) []protocol.Fact
	Redo(s *board.Store) []protocol.Fact
}

type AddColumn struct {
	Column     model.Column
	Index      int
	OrderIndex int
}

type UpdateColumn struct {
	Old model.Column
	New model.Column
}

type DeleteColumn struct {
	board.DeletedColumn
}

type AddTask struct {
	Task     model.Task
	ColumnID string
	Index    int
}

type UpdateTask struct {
	Old model.Task
	New model.Task
}

type DeleteTask struct {
	board.DeletedTask
}

type MoveTask struct {
	TaskID string
	From   model.Location
	To     model.Location
}

type MoveColumn struct {
	ColumnID string
	From     int
	To       int
}

type AddComment struct {
	TaskID  string
	Comment model.Comment
	Index   int
}

type DeleteComment struct {
	TaskID string
	board.DeletedComment
}

type UpdateDueDate struct {
	TaskID string
	Old    *time.Time
	New    *time.Time
}

type AssignTask struct {
	TaskID string
	Old    *string
	New    *string
}

func (AddColumn) Kind() Kind     { return KindAddColumn }
func (UpdateColumn) Kind() Kind  { return KindUpdateColumn }
func (DeleteColumn) Kind() Kind  { return KindDeleteColumn }
func (AddTask) Kind() Kind       { return KindAddTask }
func (UpdateTask) Kind() Kind    { return KindUpdateTask }
func (DeleteTask) Kind() Kind    { return KindDeleteTask }
func (MoveTask) Kind() Kind      { return KindMoveTask }
func (MoveColumn) Kind() Kind    { return KindMoveColumn }
func (AddComment) Kind() Kind    { return KindAddComment }
func (DeleteComment) Kind() Kind { return KindDeleteComment }
func (UpdateDueDate) Kind() Kind { return KindUpdateDueDate }
func (AssignTask) Kind() Kind    { return KindAssignTask }

func (e AddColumn) Undo(s *board.Store) []protocol.Fact {
	return deleteColumn(s, e.Column.ID)
}

func (e AddColumn) Redo(s *board.Store) []protocol.Fact {
	return insertColumn(s, board.DeletedColumn{Column: e.Column, Index: e.Index, OrderIndex: e.OrderIndex})
}

func (e UpdateColumn) Undo(s *board.Store) []protocol.Fact {
	return renameColumn(s, e.Old.ID, e.Old.Title)
}

func (e UpdateColumn) Redo(s *board.Store) []protocol.Fact {
	return renameColumn(s, e.New.ID, e.New.Title)
}

func (e DeleteColumn) Undo(s *board.Store) []protocol.Fact {
	return insertColumn(s, e.DeletedColumn)
}

func (e DeleteColumn) Redo(s *board.Store) []protocol.Fact {
	return deleteColumn(s, e.Column.ID)
}

func (e AddTask) Undo(s *board.Store) []protocol.Fact {
	return deleteTask(s, e.Task.ID)
}

func (e AddTask) Redo(s *board.Store) []protocol.Fact {
	return insertTask(s, e.Task, e.ColumnID, e.Index)
}

func (e UpdateTask) Undo(s *board.Store) []protocol.Fact {
	return replaceTask(s, e.Old)
}

func (e UpdateTask) Redo(s *board.Store) []protocol.Fact {
	return replaceTask(s, e.New)
}

func (e DeleteTask) Undo(s *board.Store) []protocol.Fact {
	if e.ColumnID == "" {
		return nil
	}
	return insertTask(s, e.Task, e.ColumnID, e.Index)
}

func (e DeleteTask) Redo(s *board.Store) []protocol.Fact {
	return deleteTask(s, e.Task.ID)
}

func (e MoveTask) Undo(s *board.Store) []protocol.Fact {
	return relocateTask(s, e.TaskID, e.From)
}

func (e MoveTask) Redo(s *board.Store) []protocol.Fact {
	return relocateTask(s, e.TaskID, e.To)
}

func (e MoveColumn) Undo(s *board.Store) []protocol.Fact {
	return relocateColumn(s, e.ColumnID, e.From)
}

func (e MoveColumn) Redo(s *board.Store) []protocol.Fact {
	return relocateColumn(s, e.ColumnID, e.To)
}

func (e AddComment) Undo(s *board.Store) []protocol.Fact {
	return deleteComment(s, e.TaskID, e.Comment.ID)
}

func (e AddComment) Redo(s *board.Store) []protocol.Fact {
	return insertComment(s, e.TaskID, e.Comment, e.Index)
}

func (e DeleteComment) Undo(s *board.Store) []protocol.Fact {
	return insertComment(s, e.TaskID, e.Comment, e.Index)
}

func (e DeleteComment) Redo(s *board.Store) []protocol.Fact {
	return deleteComment(s, e.TaskID, e.Comment.ID)
}

func (e UpdateDueDate) Undo(s *board.Store) []protocol.Fact {
	return setDueDate(s, e.TaskID, e.Old)
}

func (e UpdateDueDate) Redo(s *board.Store) []protocol.Fact {
	return setDueDate(s, e.TaskID, e.New)
}

func (e AssignTask) Undo(s *board.Store) []protocol.Fact {
	return assign(s, e.TaskID, e.Old)
}

func (e AssignTask) Redo(s *board.Store) []protocol.Fact {
	return assign(s, e.TaskID, e.New)
}

func deleteColumn(s *board.Store, id string) []protocol.Fact {
	if _, ok := s.DeleteColumn(id); !ok {
		return nil
	}
	return []protocol.Fact{protocol.ColumnDeleted{ID: id}}
}

func insertColumn(s *board.Store, d board.DeletedColumn) []protocol.Fact {
	if !s.InsertColumn(d.Column, d.Index, d.OrderIndex, d.Tasks) {
		return nil
	}
	col, _ := s.Column(d.Column.ID)
	tasks := make([]model.Task, 0, len(col.TaskIDs))
	for _, id := range col.TaskIDs {
		if t, ok := s.Task(id); ok {
			tasks = append(tasks, t)
		}
	}
	index, orderIndex := s.ColumnPosition(col.ID)
	return []protocol.Fact{protocol.ColumnAdded{Column: col, Index: &index, OrderIndex: &orderIndex, Tasks: tasks}}
}

func renameColumn(s *board.Store, id, title string) []protocol.Fact {
	if _, _, ok := s.UpdateColumn(id, title); !ok {
		return nil
	}
	return []protocol.Fact{protocol.ColumnUpdated{ID: id, Title: title}}
}

func deleteTask(s *board.Store, id string) []protocol.Fact {
	if _, ok := s.DeleteTask(id); !ok {
		return nil
	}
	return []protocol.Fact{protocol.TaskDeleted{ID: id}}
}

func insertTask(s *board.Store, t model.Task, columnID string, index int) []protocol.Fact {
	if !s.InsertTask(t, columnID, index) {
		return nil
	}
	loc, _ := s.TaskLocation(t.ID)
	stored, _ := s.Task(t.ID)
	return []protocol.Fact{protocol.TaskAdded{Task: stored, ColumnID: columnID, Index: &loc.Index}}
}

func replaceTask(s *board.Store, t model.Task) []protocol.Fact {
	if !s.ReplaceTask(t) {
		return nil
	}
	stored, _ := s.Task(t.ID)
	return []protocol.Fact{protocol.TaskUpdated{Task: stored}}
}

func relocateTask(s *board.Store, id string, to model.Location) []protocol.Fact {
	from, landed, ok := s.RelocateTask(id, to)
	if !ok || from == landed {
		return nil
	}
	return []protocol.Fact{protocol.TaskMoved{Source: from, Destination: landed}}
}

func relocateColumn(s *board.Store, id string, to int) []protocol.Fact {
	from, landed, ok := s.RelocateColumn(id, to)
	if !ok || from == landed {
		return nil
	}
	return []protocol.Fact{protocol.ColumnMoved{SourceIndex: from, DestinationIndex: landed}}
}

func deleteComment(s *board.Store, taskID, commentID string) []protocol.Fact {
	if _, ok := s.DeleteComment(taskID, commentID); !ok {
		return nil
	}
	return []protocol.Fact{protocol.CommentDeleted{TaskID: taskID, CommentID: commentID}}
}

func insertComment(s *board.Store, taskID string, c model.Comment, index int) []protocol.Fact {
	if !s.InsertComment(taskID, c, index) {
		return nil
	}
	t, _ := s.Task(taskID)
	landed := t.CommentIndex(c.ID)
	return []protocol.Fact{protocol.CommentAdded{TaskID: taskID, Comment: c, Index: &landed}}
}

func setDueDate(s *board.Store, taskID string, due *time.Time) []protocol.Fact {
	if _, ok := s.UpdateDueDate(taskID, due); !ok {
		return nil
	}
	return []protocol.Fact{protocol.DueDateUpdated{TaskID: taskID, DueDate: due}}
}

func assign(s *board.Store, taskID string, userID *string) []protocol.Fact {
	if _, ok := s.AssignTask(taskID, userID); !ok {
		return nil
	}
	return []protocol.Fact{protocol.TaskAssigned{TaskID: taskID, UserID: userID}}
}
