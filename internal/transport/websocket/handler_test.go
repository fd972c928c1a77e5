package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/llwatkin/connect-4-starter/internal/service/bot"
	"github.com/llwatkin/connect-4-starter/internal/service/game"
	"github.com/llwatkin/connect-4-starter/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stackingBot always plays column 6.
type stackingBot struct{}

func (stackingBot) Play(_ context.Context, g *domain.Game, d domain.Difficulty) (bot.Decision, error) {
	if !g.ApplyMove(6) {
		return bot.Decision{}, engine.ErrMoveRejected
	}
	return bot.Decision{Column: 6, Row: g.LastMove.Row, Difficulty: d}, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *game.SessionManager, *ConnectionManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	sessions := game.NewSessionManager(engine.Standard, stackingBot{}, auth.NewIssuer("test-secret", time.Hour), logger)
	cm := NewConnectionManager(logger)
	sessions.SetNotifier(cm)
	handler := NewHandler(cm, sessions, nil, logger)

	router := gin.New()
	router.GET("/ws/games/:id", handler.HandleWebSocket)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, sessions, cm
}

func dial(t *testing.T, srv *httptest.Server, gameID, token string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/" + gameID
	if token != "" {
		url += "?token=" + token
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) domain.GameState {
	t.Helper()
	var msg domain.ServerMessage
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "state", msg.Type, msg.Message)
	require.NotNil(t, msg.State)
	return *msg.State
}

func TestWebSocket_PlayAndWatch(t *testing.T) {
	srv, sessions, cm := newTestServer(t)
	session, token, err := sessions.CreateSession(context.Background(), domain.DifficultyEasy, true)
	require.NoError(t, err)

	player := dial(t, srv, session.GameID, token)
	assert.Equal(t, 0, readState(t, player).MoveCount)
	spectator := dial(t, srv, session.GameID, "")
	assert.Equal(t, 0, readState(t, spectator).MoveCount)

	assert.Eventually(t, func() bool { return cm.ConnectionCount(session.GameID) == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, player.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 3}))
	for _, conn := range []*websocket.Conn{player, spectator} {
		state := readState(t, conn)
		assert.Equal(t, 2, state.MoveCount)
		assert.Equal(t, &domain.LastMove{Column: 6, Row: 5, Player: domain.Player2}, state.LastMove)
	}

	require.NoError(t, spectator.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 3}))
	var msg domain.ErrorMessage
	spectator.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, spectator.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, 2, session.State().MoveCount)
}

func TestWebSocket_MoveErrors(t *testing.T) {
	srv, sessions, _ := newTestServer(t)
	session, token, err := sessions.CreateSession(context.Background(), domain.DifficultyEasy, true)
	require.NoError(t, err)

	player := dial(t, srv, session.GameID, token)
	readState(t, player)

	require.NoError(t, player.WriteJSON(domain.ClientMessage{Type: "make_move", Column: 42}))
	var msg domain.ErrorMessage
	player.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, player.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.Equal(t, domain.ErrInvalidMove.Error(), msg.Message)
}

func TestWebSocket_Rejections(t *testing.T) {
	srv, sessions, _ := newTestServer(t)
	session, _, err := sessions.CreateSession(context.Background(), domain.DifficultyEasy, true)
	require.NoError(t, err)
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/games/"

	_, resp, err := websocket.DefaultDialer.Dial(base+"missing", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(base+session.GameID+"?token=forged", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
