package board

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"taskboard/internal/model"

	"github.com/google/uuid"
)

// Store holds the canonical board. It is not safe for concurrent use: the
// session serializes every call.
//
// Mutations never fail. A mutation that targets an unknown column, task or
// comment does nothing and reports false, because another actor may have
// deleted the target while the request was in flight.
type Store struct {
	board model.Board
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func NewStore(seed model.Board, opts ...Option) *Store {
	s := &Store{
		board: normalize(seed.Clone()),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current board.
func (s *Store) Snapshot() model.Board {
	return s.board.Clone()
}

func (s *Store) Task(id string) (model.Task, bool) {
	t, ok := s.board.Tasks[id]
	if !ok {
		return model.Task{}, false
	}
	return t.Clone(), true
}

func (s *Store) Column(id string) (model.Column, bool) {
	idx := s.board.ColumnIndex(id)
	if idx == -1 {
		return model.Column{}, false
	}
	return s.board.Columns[idx].Clone(), true
}

// ColumnPosition reports where the column sits in Columns and in the column
// order, or -1 for both.
func (s *Store) ColumnPosition(id string) (index, orderIndex int) {
	return s.board.ColumnIndex(id), slices.Index(s.board.ColumnOrder, id)
}

// TaskLocation reports the column and slot holding the task.
func (s *Store) TaskLocation(taskID string) (model.Location, bool) {
	colID, idx := s.board.ColumnOf(taskID)
	if colID == "" {
		return model.Location{}, false
	}
	return model.Location{ColumnID: colID, Index: idx}, true
}

func (s *Store) AddColumn(id, title string) (model.Column, bool) {
	if id == "" {
		id = s.newID()
	}
	if s.board.ColumnIndex(id) != -1 {
		return model.Column{}, false
	}
	col := model.Column{ID: id, Title: title, TaskIDs: []string{}}
	s.board.Columns = append(s.board.Columns, col)
	s.board.ColumnOrder = append(s.board.ColumnOrder, id)
	return col.Clone(), true
}

// InsertColumn puts a previously removed column back at the given positions
// together with its tasks. A negative index appends.
func (s *Store) InsertColumn(col model.Column, index, orderIndex int, tasks []model.Task) bool {
	if col.ID == "" || s.board.ColumnIndex(col.ID) != -1 {
		return false
	}
	restored := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		restored[t.ID] = normalizeTask(t.Clone())
	}
	ids := make([]string, 0, len(col.TaskIDs))
	for _, id := range col.TaskIDs {
		if other, _ := s.board.ColumnOf(id); other != "" {
			continue
		}
		if _, ok := restored[id]; !ok {
			if _, ok := s.board.Tasks[id]; !ok {
				continue
			}
		}
		ids = append(ids, id)
	}
	col.TaskIDs = ids
	for _, id := range ids {
		if t, ok := restored[id]; ok {
			s.board.Tasks[id] = t
		}
	}
	s.board.Columns = insertAt(s.board.Columns, index, col)
	s.board.ColumnOrder = insertAt(s.board.ColumnOrder, orderIndex, col.ID)
	return true
}

func (s *Store) UpdateColumn(id, title string) (old, updated model.Column, ok bool) {
	idx := s.board.ColumnIndex(id)
	if idx == -1 || s.board.Columns[idx].Title == title {
		return model.Column{}, model.Column{}, false
	}
	old = s.board.Columns[idx].Clone()
	s.board.Columns[idx].Title = title
	return old, s.board.Columns[idx].Clone(), true
}

// DeletedColumn is everything needed to put a deleted column back.
type DeletedColumn struct {
	Column     model.Column
	Index      int
	OrderIndex int
	Tasks      []model.Task
}

// DeleteColumn removes the column and every task it references.
func (s *Store) DeleteColumn(id string) (DeletedColumn, bool) {
	idx := s.board.ColumnIndex(id)
	if idx == -1 {
		return DeletedColumn{}, false
	}
	col := s.board.Columns[idx]
	out := DeletedColumn{
		Column:     col.Clone(),
		Index:      idx,
		OrderIndex: slices.Index(s.board.ColumnOrder, id),
		Tasks:      make([]model.Task, 0, len(col.TaskIDs)),
	}
	for _, taskID := range col.TaskIDs {
		if t, ok := s.board.Tasks[taskID]; ok {
			out.Tasks = append(out.Tasks, t.Clone())
			delete(s.board.Tasks, taskID)
		}
	}
	s.board.Columns = slices.Delete(s.board.Columns, idx, idx+1)
	s.board.ColumnOrder = slices.DeleteFunc(s.board.ColumnOrder, func(v string) bool { return v == id })
	return out, true
}

// NewTask describes a task to create. Zero timestamps default to now.
type NewTask struct {
	ID          string
	ColumnID    string
	Title       string
	Description string
	DueDate     *time.Time
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s *Store) AddTask(in NewTask) (model.Task, bool) {
	idx := s.board.ColumnIndex(in.ColumnID)
	if idx == -1 {
		return model.Task{}, false
	}
	if in.ID == "" {
		in.ID = s.newID()
	}
	if _, exists := s.board.Tasks[in.ID]; exists {
		return model.Task{}, false
	}
	now := s.now()
	task := model.Task{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   in.CreatedAt,
		UpdatedAt:   in.UpdatedAt,
		Comments:    []model.Comment{},
		DueDate:     in.DueDate,
		AssignedTo:  in.AssignedTo,
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	task = task.Clone()
	s.board.Tasks[task.ID] = task
	s.board.Columns[idx].TaskIDs = append(s.board.Columns[idx].TaskIDs, task.ID)
	return task.Clone(), true
}

// InsertTask places an existing task into a column at index; a negative
// index appends.
func (s *Store) InsertTask(task model.Task, columnID string, index int) bool {
	idx := s.board.ColumnIndex(columnID)
	if idx == -1 || task.ID == "" {
		return false
	}
	if _, exists := s.board.Tasks[task.ID]; exists {
		return false
	}
	s.board.Tasks[task.ID] = normalizeTask(task.Clone())
	s.board.Columns[idx].TaskIDs = insertAt(s.board.Columns[idx].TaskIDs, index, task.ID)
	return true
}

// UpdateTask overwrites title and description. Due date and assignee are
// kept when their optional is unset and cleared when it is set to null.
func (s *Store) UpdateTask(id, title, description string, dueDate model.Optional[time.Time], assignedTo model.Optional[string]) (old, updated model.Task, ok bool) {
	task, exists := s.board.Tasks[id]
	if !exists {
		return model.Task{}, model.Task{}, false
	}
	old = task.Clone()
	task.Title = title
	task.Description = description
	task.DueDate = dueDate.Or(task.DueDate)
	task.AssignedTo = assignedTo.Or(task.AssignedTo)
	task.UpdatedAt = s.now()
	task = task.Clone()
	s.board.Tasks[id] = task
	return old, task.Clone(), true
}

// ReplaceTask swaps the stored task for the given one, keeping its column
// placement.
func (s *Store) ReplaceTask(task model.Task) bool {
	if _, exists := s.board.Tasks[task.ID]; !exists {
		return false
	}
	s.board.Tasks[task.ID] = normalizeTask(task.Clone())
	return true
}

type DeletedTask struct {
	Task     model.Task
	ColumnID string
	Index    int
}

// DeleteTask removes the task and strips its id from every column.
func (s *Store) DeleteTask(id string) (DeletedTask, bool) {
	task, exists := s.board.Tasks[id]
	if !exists {
		return DeletedTask{}, false
	}
	colID, idx := s.board.ColumnOf(id)
	delete(s.board.Tasks, id)
	for i := range s.board.Columns {
		s.board.Columns[i].TaskIDs = slices.DeleteFunc(s.board.Columns[i].TaskIDs, func(v string) bool { return v == id })
	}
	return DeletedTask{Task: task.Clone(), ColumnID: colID, Index: idx}, true
}

// MoveTask takes the task at source and inserts it at destination. A nil
// destination means the drop landed outside any column.
func (s *Store) MoveTask(source model.Location, destination *model.Location) (string, bool) {
	if destination == nil || source == *destination || destination.Index < 0 {
		return "", false
	}
	srcIdx := s.board.ColumnIndex(source.ColumnID)
	dstIdx := s.board.ColumnIndex(destination.ColumnID)
	if srcIdx == -1 || dstIdx == -1 {
		return "", false
	}
	src := s.board.Columns[srcIdx].TaskIDs
	if source.Index < 0 || source.Index >= len(src) {
		return "", false
	}
	taskID := src[source.Index]
	s.board.Columns[srcIdx].TaskIDs = slices.Delete(src, source.Index, source.Index+1)
	s.board.Columns[dstIdx].TaskIDs = insertAt(s.board.Columns[dstIdx].TaskIDs, destination.Index, taskID)
	return taskID, true
}

// RelocateTask moves a task, found by id, to the given slot. It returns the
// slot the task left and the slot it landed in after clamping.
func (s *Store) RelocateTask(taskID string, to model.Location) (from, landed model.Location, ok bool) {
	colID, idx := s.board.ColumnOf(taskID)
	dstIdx := s.board.ColumnIndex(to.ColumnID)
	if colID == "" || dstIdx == -1 {
		return model.Location{}, model.Location{}, false
	}
	from = model.Location{ColumnID: colID, Index: idx}
	srcIdx := s.board.ColumnIndex(colID)
	s.board.Columns[srcIdx].TaskIDs = slices.Delete(s.board.Columns[srcIdx].TaskIDs, idx, idx+1)
	target := clamp(to.Index, len(s.board.Columns[dstIdx].TaskIDs))
	s.board.Columns[dstIdx].TaskIDs = slices.Insert(s.board.Columns[dstIdx].TaskIDs, target, taskID)
	return from, model.Location{ColumnID: to.ColumnID, Index: target}, true
}

// MoveColumn relocates one entry of the column order.
func (s *Store) MoveColumn(sourceIndex, destinationIndex int) (string, bool) {
	order := s.board.ColumnOrder
	if sourceIndex == destinationIndex || sourceIndex < 0 || sourceIndex >= len(order) || destinationIndex < 0 {
		return "", false
	}
	id := order[sourceIndex]
	order = slices.Delete(order, sourceIndex, sourceIndex+1)
	s.board.ColumnOrder = insertAt(order, destinationIndex, id)
	return id, true
}

// RelocateColumn moves the column, found by id, to position to of the
// column order and reports the positions actually used.
func (s *Store) RelocateColumn(columnID string, to int) (from, landed int, ok bool) {
	from = slices.Index(s.board.ColumnOrder, columnID)
	if from == -1 {
		return 0, 0, false
	}
	order := slices.Delete(s.board.ColumnOrder, from, from+1)
	landed = clamp(to, len(order))
	s.board.ColumnOrder = slices.Insert(order, landed, columnID)
	return from, landed, true
}

func (s *Store) AddComment(taskID string, c model.Comment) (model.Comment, bool) {
	task, exists := s.board.Tasks[taskID]
	if !exists {
		return model.Comment{}, false
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	if task.CommentIndex(c.ID) != -1 {
		return model.Comment{}, false
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	task.Comments = append(task.Comments, c)
	s.board.Tasks[taskID] = task
	return c, true
}

// InsertComment restores a comment at index; a negative index appends.
func (s *Store) InsertComment(taskID string, c model.Comment, index int) bool {
	task, exists := s.board.Tasks[taskID]
	if !exists || c.ID == "" || task.CommentIndex(c.ID) != -1 {
		return false
	}
	task.Comments = insertAt(task.Comments, index, c)
	s.board.Tasks[taskID] = task
	return true
}

type DeletedComment struct {
	Comment model.Comment
	Index   int
}

func (s *Store) DeleteComment(taskID, commentID string) (DeletedComment, bool) {
	task, exists := s.board.Tasks[taskID]
	if !exists {
		return DeletedComment{}, false
	}
	idx := task.CommentIndex(commentID)
	if idx == -1 {
		return DeletedComment{}, false
	}
	out := DeletedComment{Comment: task.Comments[idx], Index: idx}
	task.Comments = slices.Delete(task.Comments, idx, idx+1)
	s.board.Tasks[taskID] = task
	return out, true
}

// UpdateDueDate replaces the due date; nil clears it. It reports the
// previous value.
func (s *Store) UpdateDueDate(taskID string, dueDate *time.Time) (*time.Time, bool) {
	task, exists := s.board.Tasks[taskID]
	if !exists || sameTime(task.DueDate, dueDate) {
		return nil, false
	}
	old := task.DueDate
	task.DueDate = copyPtr(dueDate)
	s.board.Tasks[taskID] = task
	return old, true
}

// AssignTask replaces the assignee; nil unassigns. It reports the previous
// value.
func (s *Store) AssignTask(taskID string, userID *string) (*string, bool) {
	task, exists := s.board.Tasks[taskID]
	if !exists || sameString(task.AssignedTo, userID) {
		return nil, false
	}
	old := task.AssignedTo
	task.AssignedTo = copyPtr(userID)
	s.board.Tasks[taskID] = task
	return old, true
}

// ErrInvariant is returned by Check.
var ErrInvariant = errors.New("board invariant violated")

// Check verifies that the column order is a permutation of the columns and
// that every task sits in exactly one column.
func (s *Store) Check() error {
	return Check(s.board)
}

func Check(b model.Board) error {
	if len(b.ColumnOrder) != len(b.Columns) {
		return fmt.Errorf("%w: %d columns, %d ordered", ErrInvariant, len(b.Columns), len(b.ColumnOrder))
	}
	seenCols := make(map[string]bool, len(b.Columns))
	for _, col := range b.Columns {
		if seenCols[col.ID] {
			return fmt.Errorf("%w: duplicate column %s", ErrInvariant, col.ID)
		}
		seenCols[col.ID] = true
	}
	seenOrder := make(map[string]bool, len(b.ColumnOrder))
	for _, id := range b.ColumnOrder {
		if !seenCols[id] || seenOrder[id] {
			return fmt.Errorf("%w: column order entry %s", ErrInvariant, id)
		}
		seenOrder[id] = true
	}
	placed := make(map[string]int, len(b.Tasks))
	for _, col := range b.Columns {
		for _, id := range col.TaskIDs {
			if _, ok := b.Tasks[id]; !ok {
				return fmt.Errorf("%w: column %s references missing task %s", ErrInvariant, col.ID, id)
			}
			placed[id]++
		}
	}
	for id := range b.Tasks {
		if placed[id] != 1 {
			return fmt.Errorf("%w: task %s placed %d times", ErrInvariant, id, placed[id])
		}
	}
	return nil
}

func normalize(b model.Board) model.Board {
	if b.Columns == nil {
		b.Columns = []model.Column{}
	}
	if b.ColumnOrder == nil {
		b.ColumnOrder = []string{}
	}
	if b.Tasks == nil {
		b.Tasks = map[string]model.Task{}
	}
	for i := range b.Columns {
		if b.Columns[i].TaskIDs == nil {
			b.Columns[i].TaskIDs = []string{}
		}
	}
	for id, t := range b.Tasks {
		b.Tasks[id] = normalizeTask(t)
	}
	return b
}

func normalizeTask(t model.Task) model.Task {
	if t.Comments == nil {
		t.Comments = []model.Comment{}
	}
	return t
}

func clamp(i, n int) int {
	if i < 0 || i > n {
		return n
	}
	return i
}

// insertAt inserts v at index i, appending when i is negative or past the end.
func insertAt[T any](s []T, i int, v T) []T {
	return slices.Insert(s, clamp(i, len(s)), v)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
