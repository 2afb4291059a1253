package handler

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"travelkang/config"
	"travelkang/internal/auth"
	"travelkang/internal/domain"
	"travelkang/internal/service"
	"travelkang/pkg/assistant"
	"travelkang/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var assistantUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsConn serializes writes; delta frames and pings come from different
// goroutines.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) writeJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteJSON(v)
}

func (w *wsConn) ping() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return w.conn.WriteMessage(websocket.PingMessage, nil)
}

// UpgradeAssistantWS upgrades to WebSocket for streaming assistant replies.
// Browsers cannot set Authorization headers on WebSocket requests, so the
// token rides the query string. The chat gate is checked once at upgrade and
// again per message.
func UpgradeAssistantWS(cfg *config.JWTConfig, entitlements *service.EntitlementResolver, ai *assistant.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		snap, err := entitlements.Resolve(claims.UserUUID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check access"})
			return
		}
		if !snap.Has(domain.EntitlementChatAccess) {
			c.JSON(http.StatusForbidden, gin.H{"error": "chat access required"})
			return
		}
		if !ai.Configured() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
			return
		}

		conn, err := assistantUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		wc := &wsConn{conn: conn}

		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(wsPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					if err := wc.ping(); err != nil {
						return
					}
				}
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type     string              `json:"type"`
				Messages []assistant.Message `json:"messages"`
			}
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "chat" || len(msg.Messages) == 0 {
				continue
			}
			// Re-check the gate: a subscription may have been cancelled
			// while the socket stayed open.
			snap, err := entitlements.Resolve(claims.UserUUID)
			if err != nil || !snap.Has(domain.EntitlementChatAccess) {
				_ = wc.writeJSON(gin.H{"type": "error", "error": "chat access required"})
				break
			}
			if len(msg.Messages) > maxChatHistory {
				msg.Messages = msg.Messages[len(msg.Messages)-maxChatHistory:]
			}
			messages := append([]assistant.Message{{Role: "system", Content: assistant.SystemPrompt}}, msg.Messages...)
			err = ai.Stream(c.Request.Context(), messages, func(delta string) error {
				return wc.writeJSON(gin.H{"type": "delta", "content": delta})
			})
			if err != nil {
				logger.Errorf("assistant ws: stream for %s: %v", claims.UserUUID, err)
				_ = wc.writeJSON(gin.H{"type": "error", "error": "assistant unavailable"})
				continue
			}
			_ = wc.writeJSON(gin.H{"type": "done"})
		}
	}
}
