package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second

	// Monitor clients are expected to ping periodically; a connection
	// silent for this long is treated as dead.
	readTimeout = 5 * time.Minute
)

// WriteTyped sends one typed event frame, bounded by writeTimeout.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(v)
}

// WriteError sends an ErrorResponse frame without closing the connection.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next client frame into v, bounded by readTimeout.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	return conn.ReadJSON(v)
}
