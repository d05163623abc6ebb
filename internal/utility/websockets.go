package utility

import (
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait = 10 * time.Second
	// WSReadLimit caps one inbound message; a profile is far smaller.
	WSReadLimit = 64 * 1024
)

var Upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow CORS for development
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SendEvent writes one JSON message with a write deadline.
func SendEvent(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// maxCloseReason is the control frame payload limit minus the status code.
const maxCloseReason = 123

// CloseWith sends a close frame with the given code and reason, then closes
// the connection. Long reasons are cut to fit a control frame.
func CloseWith(conn *websocket.Conn, code int, reason string) {
	if len(reason) > maxCloseReason {
		reason = reason[:maxCloseReason]
		for !utf8.ValidString(reason) {
			reason = reason[:len(reason)-1]
		}
	}
	msg := websocket.FormatCloseMessage(code, reason)
	if err := conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(wsWriteWait)); err != nil {
		log.Debug().Err(err).Msg("Failed to send WS close frame")
	}
	conn.Close()
}
