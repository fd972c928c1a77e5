package websocket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/service/game"
	"github.com/llwatkin/connect-4-starter/internal/transport/http/middleware"
	"go.uber.org/zap"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
	logger         *zap.Logger
}

func NewHandler(cm *ConnectionManager, sm *game.SessionManager, allowedOrigins []string, logger *zap.Logger) *Handler {
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || middleware.OriginAllowed(allowedOrigins, origin)
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades GET /ws/games/:id. With ?token= the socket may play
// the token's seat; without one it only watches.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	player := domain.Empty

	session, ok := h.SessionManager.GetSessionByGameID(gameID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrGameNotFound.Error()})
		return
	}
	if token := c.Query("token"); token != "" {
		_, seat, err := h.SessionManager.Authorize(gameID, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid player token"})
			return
		}
		player = seat
	}

	conn, err := h.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("[WS] Upgrade error", zap.Error(err))
		return
	}

	cl := &client{conn: conn, player: player}
	h.ConnManager.addClient(gameID, cl)
	h.logger.Info("[WS] Connection opened",
		zap.String("game_id", gameID), zap.Int("player", int(player)))

	state := session.State()
	if err := cl.send(domain.ServerMessage{Type: "state", State: &state}); err != nil {
		h.ConnManager.removeClient(gameID, cl)
		return
	}

	h.readLoop(c, gameID, cl)
}

func (h *Handler) readLoop(c *gin.Context, gameID string, cl *client) {
	conn := cl.conn
	done := make(chan struct{})
	defer func() {
		close(done)
		h.ConnManager.removeClient(gameID, cl)
		h.logger.Info("[WS] Connection closed", zap.String("game_id", gameID))
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := cl.ping(); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Info("[WS] Client disconnected unexpectedly", zap.String("game_id", gameID), zap.Error(err))
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.logger.Debug("[WS] Invalid message format", zap.Error(err))
			cl.send(domain.ErrorMessage{Type: "error", Message: "invalid message"})
			continue
		}

		h.processMessage(c, gameID, cl, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(c *gin.Context, gameID string, cl *client, msg domain.ClientMessage) {
	if cl.player == domain.Empty && msg.Type != "ping" {
		cl.send(domain.ErrorMessage{Type: "error", Message: "spectators cannot act"})
		return
	}

	// success is broadcast to every socket on the game, this one included
	var err error
	switch msg.Type {
	case "make_move":
		_, err = h.SessionManager.HandleMove(c.Request.Context(), gameID, cl.player, msg.Column)
	case "request_rematch":
		_, err = h.SessionManager.Rematch(c.Request.Context(), gameID, cl.player)
	case "ping":
		cl.send(domain.ServerMessage{Type: "pong"})
	default:
		cl.send(domain.ErrorMessage{Type: "error", Message: "unknown message type"})
	}
	if err != nil {
		cl.send(domain.ErrorMessage{Type: "error", Message: err.Error()})
	}
}
