package uid

import "github.com/google/uuid"

// GenerateGameID returns a random UUID for a new game.
func GenerateGameID() string {
	return uuid.NewString()
}
