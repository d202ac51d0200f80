package projection

import (
	"slices"
	"strings"
	"time"

	"taskboard/internal/model"
)

// Search returns the tasks whose title or description contains query,
// ignoring case, in board display order. Queries of one character or less
// match nothing.
func Search(b model.Board, query string) []model.Task {
	if len(strings.TrimSpace(query)) <= 1 {
		return nil
	}
	needle := strings.ToLower(query)
	var out []model.Task
	for _, t := range tasksInOrder(b) {
		if strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Filters are the board's task toggles. A task is shown when it matches any
// enabled toggle; with no toggle enabled every task is shown.
type Filters struct {
	Overdue    bool `json:"showOverdue"`
	Assigned   bool `json:"showAssigned"`
	Unassigned bool `json:"showUnassigned"`
}

func (f Filters) Active() int {
	n := 0
	for _, on := range []bool{f.Overdue, f.Assigned, f.Unassigned} {
		if on {
			n++
		}
	}
	return n
}

func (f Filters) Match(t model.Task, now time.Time) bool {
	if f.Active() == 0 {
		return true
	}
	switch {
	case f.Overdue && t.DueStatusAt(now) == model.DueOverdue:
		return true
	case f.Assigned && t.AssignedTo != nil:
		return true
	case f.Unassigned && t.AssignedTo == nil:
		return true
	}
	return false
}

// Filter returns, per column id, the ids of the tasks that pass f.
func Filter(b model.Board, f Filters, now time.Time) map[string][]string {
	out := make(map[string][]string, len(b.Columns))
	for _, col := range b.Columns {
		ids := []string{}
		for _, id := range col.TaskIDs {
			if t, ok := b.Tasks[id]; ok && f.Match(t, now) {
				ids = append(ids, id)
			}
		}
		out[col.ID] = ids
	}
	return out
}

// EditorsOf lists the users currently performing action on itemID.
func EditorsOf(active map[string]model.ActiveUser, itemID string, action model.Activity) []string {
	var out []string
	for userID, a := range active {
		if a.Action == action && a.ItemID != nil && *a.ItemID == itemID {
			out = append(out, userID)
		}
	}
	slices.Sort(out)
	return out
}

func tasksInOrder(b model.Board) []model.Task {
	out := make([]model.Task, 0, len(b.Tasks))
	for _, col := range b.OrderedColumns() {
		for _, id := range col.TaskIDs {
			if t, ok := b.Tasks[id]; ok {
				out = append(out, t)
			}
		}
	}
	return out
}
