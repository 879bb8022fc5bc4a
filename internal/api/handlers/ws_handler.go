package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/formbuilder-go/internal/api/middleware"
	"github.com/linskybing/formbuilder-go/internal/feed"
	"github.com/linskybing/formbuilder-go/internal/logger"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	feedBuffer = 64
)

type FeedHandler struct {
	hub      *feed.Hub
	upgrader websocket.Upgrader
}

// NewFeedHandler accepts upgrades from browsers whose Origin starts with one
// of originPrefixes. Clients that send no Origin are not browsers and pass.
func NewFeedHandler(hub *feed.Hub, originPrefixes []string) *FeedHandler {
	return &FeedHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || middleware.OriginAllowed(originPrefixes, origin) {
					return true
				}
				logger.L().Warn("websocket origin rejected", zap.String("origin", origin), zap.String("host", r.Host))
				return false
			},
		},
	}
}

// WatchSubmissions godoc
// @Summary Live feed of new submissions for a form
// @Description Upgrades to a websocket and streams one JSON event per accepted submission.
// @Tags submissions
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Router /ws/forms/{id}/submissions [get]
func (h *FeedHandler) WatchSubmissions(c *gin.Context) {
	formID, ok := idParam(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logger.L().Warn("websocket upgrade failed", zap.Uint("form_id", formID), zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	sub := h.hub.Subscribe(formID, feedBuffer)
	defer sub.Close()

	conn.SetReadLimit(4096)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The reader only drains control frames and notices the peer leaving.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.L().Debug("websocket closed", zap.Uint("form_id", formID), zap.Error(err))
				}
				return
			}
		}
	}()

	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case e, ok := <-sub.Events():
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(e); err != nil {
				return
			}
		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
