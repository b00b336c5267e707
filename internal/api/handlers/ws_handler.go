package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/nominate-go/internal/application"
	"github.com/linskybing/nominate-go/internal/config"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, prefix := range config.AllowedOrigins {
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		}
		return false
	},
}

type RealtimeHandler struct {
	review *application.ReviewService
	logger *zap.Logger
}

func NewRealtimeHandler(review *application.ReviewService, logger *zap.Logger) *RealtimeHandler {
	return &RealtimeHandler{review: review, logger: logger}
}

// WatchSubmission godoc
// @Summary Stream review status changes of one submission
// @Description Sends the current submission first, then one StatusEvent per change.
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Submission id"
// @Router /ws/submissions/{id} [get]
func (h *RealtimeHandler) WatchSubmission(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.review.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.String("submission_id", id), zap.Error(err))
		return
	}

	events, unsubscribe := h.review.Subscribe(id)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The reader only drains control frames and notices the peer leaving.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() { _ = conn.Close() }()

	write := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteMessage(websocket.TextMessage, data)
	}

	if err := write(detail.Submission); err != nil {
		return
	}

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := write(ev); err != nil {
				return
			}
		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
