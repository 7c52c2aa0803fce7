package config

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrJWTNotConfigured means no public key was provided and requests are
// served anonymously.
var ErrJWTNotConfigured = errors.New("no JWT_PUBLIC_KEY or JWT_PUBLIC_KEY_FILE env variable set")

type PlayerClaims struct {
	PlayerId int64  `json:"player_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func NewPlayerClaims(playerId int64, username string) *PlayerClaims {
	return &PlayerClaims{
		PlayerId: playerId,
		Username: username,
	}
}

// JWT verifies player tokens. Tokens are issued elsewhere; only the public
// half of the key pair is ever loaded here.
type JWT struct {
	publicKey *rsa.PublicKey
	parser    *jwt.Parser
}

func NewJWT() (*JWT, error) {
	pem, ok, err := lookupSecret("JWT_PUBLIC_KEY")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrJWTNotConfigured
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, fmt.Errorf("unable to parse JWT public key: %w", err)
	}
	return NewJWTFromKey(publicKey), nil
}

func NewJWTFromKey(publicKey *rsa.PublicKey) *JWT {
	return &JWT{
		publicKey: publicKey,
		parser:    jwt.NewParser(jwt.WithValidMethods([]string{"RS256"})),
	}
}

func (j *JWT) KeyFunc(t *jwt.Token) (interface{}, error) {
	return j.publicKey, nil
}

func (j *JWT) ParsePlayerClaims(tokenString string) (*PlayerClaims, error) {
	token, err := j.parser.ParseWithClaims(tokenString, &PlayerClaims{}, j.KeyFunc)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*PlayerClaims)
	if !ok {
		return nil, fmt.Errorf("malformed claims")
	}
	return claims, nil
}
