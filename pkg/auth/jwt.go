package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// PlayerClaims bind a token to one seat in one game.
type PlayerClaims struct {
	GameID string `json:"game_id"`
	Player int    `json:"player"`
	jwt.RegisteredClaims
}

// Issuer signs and checks player tokens with a shared HMAC secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// GeneratePlayerToken creates a JWT allowing its holder to move as player in gameID.
func (i *Issuer) GeneratePlayerToken(gameID string, player int) (string, error) {
	now := i.now()
	claims := &PlayerClaims{
		GameID: gameID,
		Player: player,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidatePlayerToken validates a player token and returns its claims
func (i *Issuer) ValidatePlayerToken(tokenString string) (*PlayerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &PlayerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil {
		return nil, errors.Join(ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*PlayerClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
