package game

import (
	"context"
	"sync"
	"time"

	"github.com/llwatkin/connect-4-starter/internal/domain"
	"github.com/llwatkin/connect-4-starter/internal/engine"
	"github.com/llwatkin/connect-4-starter/internal/service/bot"
	"github.com/llwatkin/connect-4-starter/pkg/auth"
	"github.com/llwatkin/connect-4-starter/pkg/uid"
	"go.uber.org/zap"
)

const ErrGameInProgress domain.Error = "game is still in progress"

type BotPlayer interface {
	Play(ctx context.Context, game *domain.Game, difficulty domain.Difficulty) (bot.Decision, error)
}

// Notifier pushes state changes to whoever is watching a game.
type Notifier interface {
	Broadcast(gameID string, message domain.ServerMessage)
}

type GameSession struct {
	GameID       string
	HumanSide    domain.PlayerID
	Difficulty   domain.Difficulty
	Game         *domain.Game
	CreatedAt    time.Time
	LastActivity time.Time
	FinishedAt   time.Time
	mu           sync.Mutex
}

func (gs *GameSession) BotSide() domain.PlayerID {
	return gs.HumanSide.Opponent()
}

// State snapshots the session under its lock.
func (gs *GameSession) State() domain.GameState {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.stateLocked()
}

func (gs *GameSession) stateLocked() domain.GameState {
	state := gs.Game.State(gs.GameID)
	state.HumanSide = gs.HumanSide
	state.Difficulty = gs.Difficulty
	state.BotName = domain.GetBotName(gs.Difficulty)
	return state
}

// SessionManager manages active games between one human and the engine.
type SessionManager struct {
	Session map[string]*GameSession // gameID → GameSession
	mu      sync.RWMutex
	geo     engine.Geometry
	bot     BotPlayer
	issuer  *auth.Issuer
	logger  *zap.Logger
	now     func() time.Time

	// guarded separately: broadcast runs while a session lock is held
	notifierMu sync.RWMutex
	notifier   Notifier
}

func NewSessionManager(geo engine.Geometry, bot BotPlayer, issuer *auth.Issuer, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		Session: make(map[string]*GameSession),
		geo:     geo,
		bot:     bot,
		issuer:  issuer,
		logger:  logger,
		now:     time.Now,
	}
}

// SetNotifier installs the broadcaster. The websocket hub needs the manager, so
// it is wired after construction.
func (sm *SessionManager) SetNotifier(n Notifier) {
	sm.notifierMu.Lock()
	defer sm.notifierMu.Unlock()
	sm.notifier = n
}

// CreateSession starts a game and returns the human's player token. When the
// human moves second the engine's opening move is already on the board.
func (sm *SessionManager) CreateSession(ctx context.Context, difficulty domain.Difficulty, humanFirst bool) (*GameSession, string, error) {
	now := sm.now()
	session := &GameSession{
		GameID:       uid.GenerateGameID(),
		HumanSide:    domain.Player1,
		Difficulty:   difficulty,
		Game:         domain.NewGame(sm.geo),
		CreatedAt:    now,
		LastActivity: now,
	}
	if !humanFirst {
		session.HumanSide = domain.Player2
	}

	token, err := sm.issuer.GeneratePlayerToken(session.GameID, int(session.HumanSide))
	if err != nil {
		return nil, "", err
	}

	if !humanFirst {
		if err := sm.replyLocked(ctx, session); err != nil {
			return nil, "", err
		}
	}

	sm.mu.Lock()
	sm.Session[session.GameID] = session
	sm.mu.Unlock()

	sm.logger.Info("[SESSION] Created session",
		zap.String("game_id", session.GameID),
		zap.String("difficulty", string(difficulty)),
		zap.Bool("human_first", humanFirst))
	return session, token, nil
}

func (sm *SessionManager) GetSessionByGameID(gameID string) (*GameSession, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.Session[gameID]
	return session, exists
}

// Authorize checks a player token against gameID and returns the seat it grants.
func (sm *SessionManager) Authorize(gameID, token string) (*GameSession, domain.PlayerID, error) {
	claims, err := sm.issuer.ValidatePlayerToken(token)
	if err != nil {
		return nil, domain.Empty, err
	}
	if claims.GameID != gameID {
		return nil, domain.Empty, auth.ErrInvalidToken
	}
	session, ok := sm.GetSessionByGameID(gameID)
	if !ok {
		return nil, domain.Empty, domain.ErrGameNotFound
	}
	return session, domain.PlayerID(claims.Player), nil
}

// HandleMove plays the human's column and, if the game goes on, the engine's
// reply. The returned state includes both moves. A reply that failed on an
// earlier call is played first, so the session never stays on the engine's turn.
func (sm *SessionManager) HandleMove(ctx context.Context, gameID string, player domain.PlayerID, column int) (domain.GameState, error) {
	session, ok := sm.GetSessionByGameID(gameID)
	if !ok {
		return domain.GameState{}, domain.ErrGameNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if player != session.HumanSide {
		return domain.GameState{}, domain.ErrNotYourTurn
	}
	if session.botOnTurn() {
		if err := sm.replyLocked(ctx, session); err != nil {
			return session.stateLocked(), err
		}
		sm.logger.Info("[BOT] Played pending reply", zap.String("game_id", gameID))
		sm.broadcast(gameID, session.stateLocked())
	}

	if _, err := session.Game.MakeMove(player, column); err != nil {
		return domain.GameState{}, err
	}
	session.LastActivity = sm.now()
	sm.logger.Debug("[SESSION] Human move",
		zap.String("game_id", gameID), zap.Int("column", column))
	sm.markFinishedLocked(session)

	var replyErr error
	if session.botOnTurn() {
		replyErr = sm.replyLocked(ctx, session)
	}

	state := session.stateLocked()
	sm.broadcast(gameID, state)
	return state, replyErr
}

func (gs *GameSession) botOnTurn() bool {
	return !gs.Game.IsFinished() && gs.Game.CurrentPlayer == gs.BotSide()
}

// replyLocked plays the engine's move on a context the caller's cancellation
// cannot abort.
func (sm *SessionManager) replyLocked(ctx context.Context, session *GameSession) error {
	if _, err := sm.bot.Play(context.WithoutCancel(ctx), session.Game, session.Difficulty); err != nil {
		sm.logger.Error("[BOT] Error handling bot move", zap.String("game_id", session.GameID), zap.Error(err))
		return err
	}
	sm.markFinishedLocked(session)
	return nil
}

func (sm *SessionManager) markFinishedLocked(session *GameSession) {
	if !session.Game.IsFinished() || !session.FinishedAt.IsZero() {
		return
	}
	session.FinishedAt = sm.now()
	sm.logger.Info("[SESSION] Game over",
		zap.String("game_id", session.GameID),
		zap.String("status", string(session.Game.Status)),
		zap.Int("winner", int(session.Game.WinnerID)),
		zap.Int("moves", session.Game.MoveCount))
}

// Rematch clears a finished game on the same session. Seats and the token are
// unchanged, so the engine opens again when it holds the first seat.
func (sm *SessionManager) Rematch(ctx context.Context, gameID string, player domain.PlayerID) (domain.GameState, error) {
	session, ok := sm.GetSessionByGameID(gameID)
	if !ok {
		return domain.GameState{}, domain.ErrGameNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if player != session.HumanSide {
		return domain.GameState{}, domain.ErrNotYourTurn
	}
	if !session.Game.IsFinished() {
		return domain.GameState{}, ErrGameInProgress
	}

	session.Game = domain.NewGame(sm.geo)
	session.FinishedAt = time.Time{}
	session.LastActivity = sm.now()
	sm.logger.Info("[SESSION] Rematch started", zap.String("game_id", gameID))

	// a failed opening stays pending and is played by the next HandleMove
	var replyErr error
	if session.botOnTurn() {
		replyErr = sm.replyLocked(ctx, session)
	}

	state := session.stateLocked()
	sm.broadcast(gameID, state)
	return state, replyErr
}

func (sm *SessionManager) broadcast(gameID string, state domain.GameState) {
	sm.notifierMu.RLock()
	n := sm.notifier
	sm.notifierMu.RUnlock()
	if n != nil {
		n.Broadcast(gameID, domain.ServerMessage{Type: "state", State: &state})
	}
}

func (sm *SessionManager) RemoveSession(gameID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.Session[gameID]; !exists {
		return domain.ErrGameNotFound
	}
	delete(sm.Session, gameID)
	sm.logger.Info("[SESSION] Removing session", zap.String("game_id", gameID))
	return nil
}

func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.Session)
}

// CleanupOldSessions drops games idle for longer than idleTimeout and returns
// how many were removed. A session whose lock is held is in use and is skipped,
// so a running search never stalls the cleanup or the lookups behind it.
func (sm *SessionManager) CleanupOldSessions(idleTimeout time.Duration) int {
	sm.mu.RLock()
	candidates := make(map[string]*GameSession, len(sm.Session))
	for gameID, session := range sm.Session {
		candidates[gameID] = session
	}
	sm.mu.RUnlock()

	now := sm.now()
	stale := make(map[string]*GameSession)
	for gameID, session := range candidates {
		if session.idleLongerThan(now, idleTimeout) {
			stale[gameID] = session
		}
	}
	if len(stale) == 0 {
		return 0
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	count := 0
	for gameID, session := range stale {
		// re-check: a move may have landed since the snapshot
		if sm.Session[gameID] != session || !session.idleLongerThan(now, idleTimeout) {
			continue
		}
		delete(sm.Session, gameID)
		count++
	}

	if count > 0 {
		sm.logger.Info("[SESSION] Memory cleanup: removed stale game sessions", zap.Int("count", count))
	}
	return count
}

func (gs *GameSession) idleLongerThan(now time.Time, idleTimeout time.Duration) bool {
	if !gs.mu.TryLock() {
		return false
	}
	defer gs.mu.Unlock()
	return now.Sub(gs.LastActivity) > idleTimeout
}
