package events

import (
	"net/http"
	"strings"
	"time"

	"servicehub/internal/pkg/jwt"
	"servicehub/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
}

type Handler struct {
	hub      *Hub
	tokens   *jwt.Service
	log      Logger
	upgrader websocket.Upgrader
}

// NewHandler builds the websocket endpoint. allowedOrigins follows the CORS
// list; "*" or an empty list accepts any origin.
func NewHandler(hub *Hub, tokens *jwt.Service, log Logger, allowedOrigins []string) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		log:    log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(allowed) == 0 {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/events", h.Subscribe)
}

// Subscribe upgrades the request and streams lifecycle events for the caller.
// Browsers cannot set headers on a websocket handshake, so the token may come
// as ?token=.
func (h *Handler) Subscribe(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("Events: upgrade failed user_id=%d err=%v", claims.UserID, err)
		return
	}

	userID := claims.UserID
	h.hub.Register(userID, conn)
	h.log.Info("Events: subscribed user_id=%d", userID)

	defer func() {
		h.hub.Unregister(userID, conn)
		h.log.Info("Events: unsubscribed user_id=%d", userID)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pingLoop(userID, done)

	// The stream is one-way; reads only detect the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Events: read error user_id=%d err=%v", userID, err)
			}
			return
		}
	}
}

func (h *Handler) pingLoop(userID int64, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			h.hub.mutex.RLock()
			c := h.hub.connections[userID]
			h.hub.mutex.RUnlock()
			if c == nil || c.ping() != nil {
				return
			}
		}
	}
}
