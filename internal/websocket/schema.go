package websocket

import "encoding/json"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing      Action = "ping"
	ActionSubscribe Action = "subscribe"
)

// RequestPayload covers every client message on the monitor socket.
// Subscribe narrows the stream to one exam; an empty exam_id resets the
// filter to all exams.
type RequestPayload struct {
	Action Action `json:"action"`
	ExamID string `json:"exam_id,omitempty"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError      Event = "error"
	EventPong       Event = "pong"
	EventSubscribed Event = "subscribed"
	EventMonitor    Event = "monitor"
)

// MonitorFrame wraps one live attempt event for the admin dashboard.
type MonitorFrame struct {
	Event   Event           `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

type SubscribedResponse struct {
	Event  Event  `json:"event"`
	ExamID string `json:"exam_id,omitempty"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
