// Package session applies client intents to the shared board one at a time
// and fans the resulting facts out to every connected client.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"taskboard/internal/board"
	"taskboard/internal/history"
	"taskboard/internal/model"
	"taskboard/internal/presence"
	"taskboard/internal/protocol"

	log "github.com/sirupsen/logrus"
)

var ErrClosed = errors.New("session closed")

// Session owns one board and everything attached to it. A single mutex
// serializes every intent, so facts reach each subscriber in the order they
// were applied.
type Session struct {
	mu        sync.Mutex
	closed    bool
	store     *board.Store
	history   *history.Manager
	presence  *presence.Tracker
	directory *presence.Directory
	hub       *Hub
	dedupe    Deduper
	logger    *log.Entry
}

type options struct {
	historyLimit int
	outboxSize   int
	deduper      Deduper
	logger       *log.Entry
	now          func() time.Time
	newID        func() string
}

type Option func(*options)

func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}

func WithOutboxSize(n int) Option {
	return func(o *options) { o.outboxSize = n }
}

func WithDeduper(d Deduper) Option {
	return func(o *options) { o.deduper = d }
}

func WithLogger(l *log.Entry) Option {
	return func(o *options) { o.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(fn func() string) Option {
	return func(o *options) { o.newID = fn }
}

// New starts a session on a copy of seed with the given user directory.
func New(seed model.Board, users map[string]model.User, opts ...Option) *Session {
	o := options{
		historyLimit: history.DefaultLimit,
		outboxSize:   DefaultOutboxSize,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.WithField("component", "session")
	}
	if o.deduper == nil {
		o.deduper = NewMemoryDeduper(DefaultDedupeWindow)
	}
	storeOpts := []board.Option{board.WithClock(o.now)}
	if o.newID != nil {
		storeOpts = append(storeOpts, board.WithIDGenerator(o.newID))
	}
	return &Session{
		store:     board.NewStore(seed, storeOpts...),
		history:   history.NewManager(o.historyLimit),
		presence:  presence.NewTracker(o.now),
		directory: presence.NewDirectory(users),
		hub:       NewHub(o.outboxSize, o.logger.WithField("component", "hub")),
		dedupe:    o.deduper,
		logger:    o.logger,
	}
}

// Connect registers a new client for userID. Unknown users are added to the
// directory and announced to everyone else.
func (s *Session) Connect(userID string) (*Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	sub := s.hub.Add(userID)
	if user, added := s.directory.Ensure(userID); added {
		s.broadcast(protocol.UserJoined{User: user}, sub)
	}
	count := s.presence.Join(userID)
	s.broadcast(protocol.OnlineUsers{Count: count}, nil)
	s.logger.WithFields(log.Fields{"user": userID, "online": count}).Info("client connected")
	return sub, nil
}

// Disconnect removes the client. When it was the user's last connection the
// user's activity is cleared as well.
func (s *Session) Disconnect(sub *Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hub.Remove(sub) {
		return
	}
	count, gone := s.presence.Leave(sub.UserID)
	s.broadcast(protocol.OnlineUsers{Count: count}, nil)
	if gone {
		s.broadcast(protocol.UserInactive{UserID: sub.UserID}, nil)
	}
	s.logger.WithFields(log.Fields{"user": sub.UserID, "online": count}).Info("client disconnected")
}

// Close drops every subscriber. Later calls fail with ErrClosed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.hub.RemoveAll()
}

// HandleFrame decodes one wire frame from sub and handles it. Frames that
// cannot be decoded are answered with intentRejected.
func (s *Session) HandleFrame(ctx context.Context, sub *Subscriber, frame []byte) error {
	in, event, err := protocol.DecodeIntent(frame)
	if err != nil {
		s.reject(sub, event, err)
		return err
	}
	return s.Handle(ctx, sub, in)
}

// Handle validates and applies one intent on behalf of sub.
func (s *Session) Handle(ctx context.Context, sub *Subscriber, in protocol.Intent) error {
	if err := protocol.Validate(in); err != nil {
		event := ""
		if in != nil {
			event = in.Event()
		}
		s.reject(sub, event, err)
		return err
	}
	if c, ok := in.(protocol.AddComment); ok {
		if c.Comment.Author == "" {
			c.Comment.Author = sub.UserID
		}
		in = c
		if !s.claim(ctx, c) {
			return nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	switch in := in.(type) {
	case protocol.GetInitialData:
		s.send(sub, s.initialData())
	case protocol.SetActivity:
		s.setActivity(sub, in)
	case protocol.Undo:
		if facts, ok := s.history.Undo(s.store); ok {
			s.replay(facts)
		}
	case protocol.Redo:
		if facts, ok := s.history.Redo(s.store); ok {
			s.replay(facts)
		}
	default:
		facts, entry := s.apply(in)
		if entry == nil {
			return nil
		}
		s.history.Record(entry)
		s.logger.WithFields(log.Fields{"user": sub.UserID, "kind": entry.Kind(), "history": s.history.Len()}).Debug("change recorded")
		except := sub
		if echoes(in) {
			except = nil
		}
		for _, f := range facts {
			s.broadcast(f, except)
		}
		s.broadcast(s.history.State(), nil)
	}
	return nil
}

// InitialData returns the snapshot a joining client starts from.
func (s *Session) InitialData() protocol.InitialData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialData()
}

func (s *Session) claim(ctx context.Context, c protocol.AddComment) bool {
	if c.Comment.ID == "" {
		return true
	}
	key := c.IdempotencyKey()
	claimed, err := s.dedupe.Claim(ctx, key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("comment dedupe unavailable")
		return true
	}
	if !claimed {
		s.logger.WithField("key", key).Debug("dropping duplicate comment")
	}
	return claimed
}

func (s *Session) setActivity(sub *Subscriber, in protocol.SetActivity) {
	_, stored := s.presence.SetActivity(sub.UserID, in.Action, in.ItemID)
	s.broadcast(protocol.UserActive{UserID: sub.UserID, Action: in.Action, ItemID: in.ItemID}, sub)
	if !stored {
		s.broadcast(protocol.UserInactive{UserID: sub.UserID}, sub)
	}
}

// replay delivers undo or redo results to every client, the requester
// included, since it applied nothing locally.
func (s *Session) replay(facts []protocol.Fact) {
	for _, f := range facts {
		s.broadcast(f, nil)
	}
	s.broadcast(s.history.State(), nil)
}

// apply runs a board mutation. A nil entry means the board did not change.
func (s *Session) apply(in protocol.Intent) ([]protocol.Fact, history.Entry) {
	st := s.store
	switch in := in.(type) {
	case protocol.AddColumn:
		col, ok := st.AddColumn(in.ID, in.Title)
		if !ok {
			return nil, nil
		}
		index, orderIndex := st.ColumnPosition(col.ID)
		return emit(protocol.ColumnAdded{Column: col}),
			history.AddColumn{Column: col, Index: index, OrderIndex: orderIndex}

	case protocol.UpdateColumn:
		old, updated, ok := st.UpdateColumn(in.ID, in.Title)
		if !ok {
			return nil, nil
		}
		return emit(protocol.ColumnUpdated{ID: updated.ID, Title: updated.Title}),
			history.UpdateColumn{Old: old, New: updated}

	case protocol.DeleteColumn:
		deleted, ok := st.DeleteColumn(in.ID)
		if !ok {
			return nil, nil
		}
		return emit(protocol.ColumnDeleted{ID: in.ID}), history.DeleteColumn{DeletedColumn: deleted}

	case protocol.AddTask:
		task, ok := st.AddTask(board.NewTask{
			ID:          in.ID,
			ColumnID:    in.ColumnID,
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate,
			AssignedTo:  in.AssignedTo,
			CreatedAt:   in.CreatedAt,
			UpdatedAt:   in.UpdatedAt,
		})
		if !ok {
			return nil, nil
		}
		loc, _ := st.TaskLocation(task.ID)
		return emit(protocol.TaskAdded{Task: task, ColumnID: in.ColumnID}),
			history.AddTask{Task: task, ColumnID: in.ColumnID, Index: loc.Index}

	case protocol.UpdateTask:
		old, updated, ok := st.UpdateTask(in.ID, in.Title, in.Description, in.DueDate, in.AssignedTo)
		if !ok {
			return nil, nil
		}
		return emit(protocol.TaskUpdated{Task: updated}), history.UpdateTask{Old: old, New: updated}

	case protocol.DeleteTask:
		deleted, ok := st.DeleteTask(in.ID)
		if !ok {
			return nil, nil
		}
		return emit(protocol.TaskDeleted{ID: in.ID}), history.DeleteTask{DeletedTask: deleted}

	case protocol.MoveTask:
		taskID, ok := st.MoveTask(in.Source, in.Destination)
		if !ok {
			return nil, nil
		}
		landed, _ := st.TaskLocation(taskID)
		return emit(protocol.TaskMoved{Source: in.Source, Destination: *in.Destination}),
			history.MoveTask{TaskID: taskID, From: in.Source, To: landed}

	case protocol.MoveColumn:
		colID, ok := st.MoveColumn(in.SourceIndex, in.DestinationIndex)
		if !ok {
			return nil, nil
		}
		_, landed := st.ColumnPosition(colID)
		return emit(protocol.ColumnMoved{SourceIndex: in.SourceIndex, DestinationIndex: in.DestinationIndex}),
			history.MoveColumn{ColumnID: colID, From: in.SourceIndex, To: landed}

	case protocol.AddComment:
		c, ok := st.AddComment(in.TaskID, in.Comment)
		if !ok {
			return nil, nil
		}
		task, _ := st.Task(in.TaskID)
		return emit(protocol.CommentAdded{TaskID: in.TaskID, Comment: c}),
			history.AddComment{TaskID: in.TaskID, Comment: c, Index: task.CommentIndex(c.ID)}

	case protocol.DeleteComment:
		deleted, ok := st.DeleteComment(in.TaskID, in.CommentID)
		if !ok {
			return nil, nil
		}
		return emit(protocol.CommentDeleted{TaskID: in.TaskID, CommentID: in.CommentID}),
			history.DeleteComment{TaskID: in.TaskID, DeletedComment: deleted}

	case protocol.UpdateDueDate:
		old, ok := st.UpdateDueDate(in.TaskID, in.DueDate)
		if !ok {
			return nil, nil
		}
		return emit(protocol.DueDateUpdated{TaskID: in.TaskID, DueDate: in.DueDate}),
			history.UpdateDueDate{TaskID: in.TaskID, Old: old, New: in.DueDate}

	case protocol.AssignTask:
		old, ok := st.AssignTask(in.TaskID, in.UserID)
		if !ok {
			return nil, nil
		}
		return emit(protocol.TaskAssigned{TaskID: in.TaskID, UserID: in.UserID}),
			history.AssignTask{TaskID: in.TaskID, Old: old, New: in.UserID}
	}
	s.logger.WithField("event", in.Event()).Error("intent has no board mutation")
	return nil, nil
}

// echoes reports whether the sender needs the resulting facts too: the
// server picked the created item's id, or stamped times the sender cannot
// know.
func echoes(in protocol.Intent) bool {
	switch in := in.(type) {
	case protocol.AddColumn:
		return in.ID == ""
	case protocol.AddTask:
		return in.ID == "" || in.CreatedAt.IsZero() || in.UpdatedAt.IsZero()
	case protocol.UpdateTask:
		return true
	case protocol.AddComment:
		return in.Comment.ID == "" || in.Comment.CreatedAt.IsZero()
	}
	return false
}

func emit(f ...protocol.Fact) []protocol.Fact {
	return f
}

func (s *Session) initialData() protocol.InitialData {
	b := s.store.Snapshot()
	hs := s.history.State()
	return protocol.InitialData{
		Columns:             b.Columns,
		ColumnOrder:         b.ColumnOrder,
		Tasks:               b.Tasks,
		Users:               s.directory.All(),
		OnlineUsers:         s.presence.Count(),
		ActiveUsers:         s.presence.Active(),
		CurrentHistoryIndex: hs.CurrentIndex,
		HistoryLength:       s.history.Len(),
		CanUndo:             hs.CanUndo,
		CanRedo:             hs.CanRedo,
	}
}

func (s *Session) reject(sub *Subscriber, event string, err error) {
	s.logger.WithError(err).WithFields(log.Fields{"user": sub.UserID, "event": event}).Info("intent rejected")
	s.send(sub, protocol.IntentRejected{Intent: event, Error: err.Error()})
}

func (s *Session) send(sub *Subscriber, f protocol.Fact) {
	frame, err := protocol.EncodeFact(f)
	if err != nil {
		s.logger.WithError(err).WithField("event", f.Event()).Error("encode fact")
		return
	}
	s.hub.Send(sub, frame)
}

func (s *Session) broadcast(f protocol.Fact, except *Subscriber) {
	frame, err := protocol.EncodeFact(f)
	if err != nil {
		s.logger.WithError(err).WithField("event", f.Event()).Error("encode fact")
		return
	}
	s.hub.Broadcast(frame, except)
}
