package handler

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"taskboard/internal/middleware"
	"taskboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = pongWait * 9 / 10
	maxFrameSize = 64 * 1024
)

// WSHandler upgrades clients to a websocket and pumps frames between the
// connection and the session.
type WSHandler struct {
	sess     BoardSession
	logger   *log.Entry
	upgrader websocket.Upgrader
}

// NewWSHandler accepts handshakes whose Origin is empty, matches the host, or
// is listed in allowedOrigins. A "*" entry allows every origin.
func NewWSHandler(sess BoardSession, logger *log.Entry, allowedOrigins []string) *WSHandler {
	if logger == nil {
		logger = log.WithField("component", "ws")
	}
	return &WSHandler{
		sess:   sess,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" || slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		return strings.HasSuffix(origin, "://"+strings.TrimSpace(r.Host))
	}
}

// Serve godoc
// @Summary      Board sync stream
// @Description  Upgrades to a websocket carrying {"event","data"} frames in both directions
// @Tags         Board
// @Param        userId  query  string  false  "caller's user id (or X-User-ID header)"
// @Success      101
// @Failure      503  {object}  map[string]string
// @Router       /ws [get]
func (h *WSHandler) Serve(c *gin.Context) {
	userID := middleware.UserID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already answered the request
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	sub, err := h.sess.Connect(userID)
	if err != nil {
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}
	logger := h.logger.WithFields(log.Fields{"user": userID, "conn": sub.ID})

	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(conn, sub, logger)
	}()

	readPump(c.Request.Context(), conn, h.sess, sub, logger)
	h.sess.Disconnect(sub)
	<-done
}

// readPump feeds inbound frames to the session until the connection fails
// or the session is closed.
func readPump(ctx context.Context, conn *websocket.Conn, sess BoardSession, sub *session.Subscriber, logger *log.Entry) {
	conn.SetReadLimit(maxFrameSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("websocket read failed")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if err := sess.HandleFrame(ctx, sub, frame); err != nil {
			if errors.Is(err, session.ErrClosed) {
				return
			}
			logger.WithError(err).Debug("frame rejected")
		}
	}
}

// writePump drains the subscriber's outbox onto the connection. It closes the
// connection when the outbox is closed or a write fails, which also ends
// readPump.
func writePump(conn *websocket.Conn, sub *session.Subscriber, logger *log.Entry) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-sub.Outbox():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.WithError(err).Warn("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
