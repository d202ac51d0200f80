package model

import "slices"

// Board is the shared document every connected client edits.
type Board struct {
	Columns     []Column        `json:"columns"`
	ColumnOrder []string        `json:"columnOrder"`
	Tasks       map[string]Task `json:"tasks"`
}

func NewBoard() Board {
	return Board{
		Columns:     []Column{},
		ColumnOrder: []string{},
		Tasks:       map[string]Task{},
	}
}

// Clone returns a deep copy that shares no slices or maps with b.
func (b Board) Clone() Board {
	out := Board{
		Columns:     make([]Column, len(b.Columns)),
		ColumnOrder: slices.Clone(b.ColumnOrder),
		Tasks:       make(map[string]Task, len(b.Tasks)),
	}
	for i, col := range b.Columns {
		out.Columns[i] = col.Clone()
	}
	for id, task := range b.Tasks {
		out.Tasks[id] = task.Clone()
	}
	return out
}

// ColumnIndex returns the position of the column in Columns, or -1.
func (b Board) ColumnIndex(id string) int {
	for i := range b.Columns {
		if b.Columns[i].ID == id {
			return i
		}
	}
	return -1
}

// ColumnOf returns the id of the column whose TaskIDs hold taskID and the
// task's index inside it.
func (b Board) ColumnOf(taskID string) (string, int) {
	for _, col := range b.Columns {
		if idx := indexOf(col.TaskIDs, taskID); idx != -1 {
			return col.ID, idx
		}
	}
	return "", -1
}

// OrderedColumns returns the columns in display order.
func (b Board) OrderedColumns() []Column {
	out := make([]Column, 0, len(b.ColumnOrder))
	for _, id := range b.ColumnOrder {
		if idx := b.ColumnIndex(id); idx != -1 {
			out = append(out, b.Columns[idx])
		}
	}
	return out
}

func indexOf(ids []string, id string) int {
	return slices.Index(ids, id)
}

// Location addresses a slot inside a column's task list.
type Location struct {
	ColumnID string `json:"droppableId" validate:"required"`
	Index    int    `json:"index" validate:"min=0"`
}
