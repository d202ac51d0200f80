package handler

import (
	"context"

	"taskboard/internal/protocol"
	"taskboard/internal/session"
)

// BoardSession is the part of the session the handlers talk to.
type BoardSession interface {
	Connect(userID string) (*session.Subscriber, error)
	Disconnect(sub *session.Subscriber)
	HandleFrame(ctx context.Context, sub *session.Subscriber, frame []byte) error
	InitialData() protocol.InitialData
}

var _ BoardSession = (*session.Session)(nil)
