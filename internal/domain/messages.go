package domain

type ClientMessage struct {
	Type   string `json:"type"`
	Column int    `json:"column"`
}

type ServerMessage struct {
	Type    string     `json:"type"`
	Message string     `json:"message,omitempty"`
	State   *GameState `json:"state,omitempty"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// GameState is the public view of one game.
type GameState struct {
	GameID     string     `json:"gameId"`
	Board      [][]int    `json:"board"`
	Position   string     `json:"position"`
	ToMove     PlayerID   `json:"toMove"`
	Status     GameStatus `json:"status"`
	Winner     PlayerID   `json:"winner,omitempty"`
	MoveCount  int        `json:"moveCount"`
	LastMove   *LastMove  `json:"lastMove,omitempty"`
	HumanSide  PlayerID   `json:"humanSide"`
	BotName    string     `json:"botName"`
	Difficulty Difficulty `json:"difficulty"`
}

// State builds the public view; session fields are filled by the caller.
func (g *Game) State(gameID string) GameState {
	return GameState{
		GameID:    gameID,
		Board:     g.board.Ints(),
		Position:  string(g.Position()),
		ToMove:    g.CurrentPlayer,
		Status:    g.Status,
		Winner:    g.WinnerID,
		MoveCount: g.MoveCount,
		LastMove:  g.LastMove,
	}
}
