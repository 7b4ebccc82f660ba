package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/examgate/examgate-backend/internal/config"
	"github.com/examgate/examgate-backend/internal/model"
	ws "github.com/examgate/examgate-backend/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// MonitorHandler streams live attempt events to admin dashboards over
// WebSocket, fed by the Redis monitor channel.
type MonitorHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewMonitorHandler creates a new MonitorHandler.
func NewMonitorHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *MonitorHandler {
	return &MonitorHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "monitor_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// MonitorStream godoc
// WS /ws/v1/admin/attempts/monitor
// Forwards attempt lifecycle and activity events as they happen.
// Admin-authenticated via the JWT middleware before upgrade.
func (h *MonitorHandler) MonitorStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	sub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.AttemptMonitorChannel())
	defer sub.Close()

	// Optional initial filter from the query string.
	var mu sync.Mutex
	examFilter := c.Query("exam_id")

	wsLog := h.log.With().Str("remote", c.ClientIP()).Logger()
	wsLog.Info().Msg("Monitor connected")

	done := make(chan struct{})

	// Reader: pings and filter changes.
	go func() {
		defer close(done)
		for {
			var msg ws.RequestPayload
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				}
				return
			}

			switch msg.Action {
			case ws.ActionPing:
				ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			case ws.ActionSubscribe:
				mu.Lock()
				examFilter = msg.ExamID
				mu.Unlock()
				ws.WriteTyped(conn, ws.SubscribedResponse{Event: ws.EventSubscribed, ExamID: msg.ExamID})
			default:
				ws.WriteError(conn, "unknown action")
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-done:
			wsLog.Info().Msg("Monitor disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			mu.Lock()
			filter := examFilter
			mu.Unlock()

			if filter != "" {
				var event model.MonitorEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					continue
				}
				if event.ExamID.String() != filter {
					continue
				}
			}

			if err := ws.WriteTyped(conn, ws.MonitorFrame{
				Event:   ws.EventMonitor,
				Payload: json.RawMessage(msg.Payload),
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Write failed, closing")
				return
			}
		}
	}
}
