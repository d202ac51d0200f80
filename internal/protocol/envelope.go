package protocol

import (
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
)

var (
	ErrUnknownEvent    = errors.New("unknown event")
	ErrMalformedIntent = errors.New("malformed intent")
)

// Envelope is the wire frame for both directions.
type Envelope struct {
	Event string                 `json:"event"`
	Data  sonic.NoCopyRawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  Fact   `json:"data"`
}

var intentDecoders = map[string]func([]byte) (Intent, error){
	EventAddColumn:      decodeAs[AddColumn, Intent],
	EventUpdateColumn:   decodeAs[UpdateColumn, Intent],
	EventDeleteColumn:   decodeAs[DeleteColumn, Intent],
	EventAddTask:        decodeAs[AddTask, Intent],
	EventUpdateTask:     decodeAs[UpdateTask, Intent],
	EventDeleteTask:     decodeAs[DeleteTask, Intent],
	EventMoveTask:       decodeAs[MoveTask, Intent],
	EventMoveColumn:     decodeAs[MoveColumn, Intent],
	EventAddComment:     decodeAs[AddComment, Intent],
	EventDeleteComment:  decodeAs[DeleteComment, Intent],
	EventUpdateDueDate:  decodeAs[UpdateDueDate, Intent],
	EventAssignTask:     decodeAs[AssignTask, Intent],
	EventUndo:           decodeAs[Undo, Intent],
	EventRedo:           decodeAs[Redo, Intent],
	EventSetActivity:    decodeAs[SetActivity, Intent],
	EventGetInitialData: decodeAs[GetInitialData, Intent],
}

var factDecoders = map[string]func([]byte) (Fact, error){
	EventInitialData:    decodeAs[InitialData, Fact],
	EventColumnAdded:    decodeAs[ColumnAdded, Fact],
	EventColumnUpdated:  decodeAs[ColumnUpdated, Fact],
	EventColumnDeleted:  decodeAs[ColumnDeleted, Fact],
	EventColumnMoved:    decodeAs[ColumnMoved, Fact],
	EventTaskAdded:      decodeAs[TaskAdded, Fact],
	EventTaskUpdated:    decodeAs[TaskUpdated, Fact],
	EventTaskDeleted:    decodeAs[TaskDeleted, Fact],
	EventTaskMoved:      decodeAs[TaskMoved, Fact],
	EventCommentAdded:   decodeAs[CommentAdded, Fact],
	EventCommentDeleted: decodeAs[CommentDeleted, Fact],
	EventDueDateUpdated: decodeAs[DueDateUpdated, Fact],
	EventTaskAssigned:   decodeAs[TaskAssigned, Fact],
	EventOnlineUsers:    decodeAs[OnlineUsers, Fact],
	EventUserActive:     decodeAs[UserActive, Fact],
	EventUserInactive:   decodeAs[UserInactive, Fact],
	EventUserJoined:     decodeAs[UserJoined, Fact],
	EventHistoryChanged: decodeAs[HistoryChanged, Fact],
	EventIntentRejected: decodeAs[IntentRejected, Fact],
}

func decodeAs[T any, I any](data []byte) (I, error) {
	var v T
	if len(data) > 0 && string(data) != "null" {
		if err := sonic.Unmarshal(data, &v); err != nil {
			var zero I
			return zero, err
		}
	}
	return any(v).(I), nil
}

// DecodeIntent parses one inbound frame. The returned error wraps
// ErrUnknownEvent or ErrMalformedIntent; the event name is returned whenever
// the envelope itself could be read.
func DecodeIntent(frame []byte) (Intent, string, error) {
	var env Envelope
	if err := sonic.Unmarshal(frame, &env); err != nil {
		return nil, "", fmt.Errorf("%w: envelope: %v", ErrMalformedIntent, err)
	}
	decode, ok := intentDecoders[env.Event]
	if !ok {
		return nil, env.Event, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
	in, err := decode(env.Data)
	if err != nil {
		return nil, env.Event, fmt.Errorf("%w: %s: %v", ErrMalformedIntent, env.Event, err)
	}
	return in, env.Event, nil
}

// EncodeIntent frames an intent for the wire. Clients and tests use it.
func EncodeIntent(in Intent) ([]byte, error) {
	return sonic.Marshal(struct {
		Event string `json:"event"`
		Data  Intent `json:"data"`
	}{Event: in.Event(), Data: in})
}

func EncodeFact(f Fact) ([]byte, error) {
	return sonic.Marshal(outbound{Event: f.Event(), Data: f})
}

func DecodeFact(frame []byte) (Fact, error) {
	var env Envelope
	if err := sonic.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("decode fact envelope: %w", err)
	}
	decode, ok := factDecoders[env.Event]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
	f, err := decode(env.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", env.Event, err)
	}
	return f, nil
}
