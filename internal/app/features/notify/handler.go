// internal/app/features/notify/handler.go
package notify

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/suitemate/internal/app/system/auth"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	Hub *Hub
	Log *zap.Logger
}

func NewHandler(hub *Hub, logger *zap.Logger) *Handler {
	return &Handler{Hub: hub, Log: logger}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers attach the session cookie to cross-origin handshakes
	// too, so the Origin header must match the request host. Non-browser
	// clients send no Origin and pass.
	CheckOrigin: sameHostOrigin,
}

func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

const writeWait = 10 * time.Second

// ServeWS upgrades the connection and streams notification events for
// the signed-in user until the peer disconnects.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		http.Error(w, "Not signed in.", http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	events, unsubscribe := h.Hub.Subscribe(u.ID)
	defer unsubscribe()
	defer ws.Close()

	// Read loop: the client never sends frames we act on, but reading
	// is what surfaces close frames and dead peers.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				// Dropped by the hub (slow consumer or shutdown).
				_ = ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
					time.Now().Add(writeWait))
				return
			}
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteJSON(ev); err != nil {
				if !websocket.IsCloseError(err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
					websocket.CloseNoStatusReceived) {
					h.Log.Debug("websocket write failed",
						zap.String("user_id", u.ID), zap.Error(err))
				}
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
