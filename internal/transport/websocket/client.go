package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// client is one socket watching a game. conn.WriteJSON is not safe for
// concurrent use, so every write goes through writeMu.
type client struct {
	conn    *websocket.Conn
	player  domain.PlayerID // Empty for spectators
	writeMu sync.Mutex
}

func (c *client) send(message interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(message)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// ConnectionManager tracks the sockets attached to each game.
type ConnectionManager struct {
	connections map[string]map[*client]struct{} // gameID → clients
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewConnectionManager(logger *zap.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]map[*client]struct{}),
		logger:      logger,
	}
}

func (cm *ConnectionManager) addClient(gameID string, c *client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.connections[gameID] == nil {
		cm.connections[gameID] = make(map[*client]struct{})
	}
	cm.connections[gameID][c] = struct{}{}
}

func (cm *ConnectionManager) removeClient(gameID string, c *client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	clients, exists := cm.connections[gameID]
	if !exists {
		return
	}
	if _, ok := clients[c]; ok {
		c.conn.Close()
		delete(clients, c)
	}
	if len(clients) == 0 {
		delete(cm.connections, gameID)
	}
}

// Broadcast sends message to every socket on gameID. It implements game.Notifier.
func (cm *ConnectionManager) Broadcast(gameID string, message domain.ServerMessage) {
	cm.mu.RLock()
	clients := make([]*client, 0, len(cm.connections[gameID]))
	for c := range cm.connections[gameID] {
		clients = append(clients, c)
	}
	cm.mu.RUnlock()

	for _, c := range clients {
		if err := c.send(message); err != nil {
			cm.logger.Debug("[WS] Broadcast write failed", zap.String("game_id", gameID), zap.Error(err))
		}
	}
}

// ConnectionCount returns the number of sockets attached to gameID.
func (cm *ConnectionManager) ConnectionCount(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections[gameID])
}
