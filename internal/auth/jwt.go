package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	tokenAccess  = "access"
	tokenRefresh = "refresh"
)

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenManager(accessSecret, refreshSecret, issuer string, accessTTL, refreshTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		issuer:        issuer,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	Type   string `json:"typ"` // "access" | "refresh"
	jwt.RegisteredClaims
}

type Pair struct {
	Access    string
	Refresh   string
	AccessExp time.Time
}

// GeneratePair issues an access and a refresh token for a staff member.
func (tm *TokenManager) GeneratePair(userID, role string) (Pair, error) {
	now := time.Now()
	mk := func(typ string, ttl time.Duration) Claims {
		return Claims{
			UserID: userID,
			Role:   role,
			Type:   typ,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tm.issuer,
				Subject:   userID,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			},
		}
	}
	acc := mk(tokenAccess, tm.accessTTL)
	ref := mk(tokenRefresh, tm.refreshTTL)

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, acc).SignedString(tm.accessSecret)
	if err != nil {
		return Pair{}, err
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, ref).SignedString(tm.refreshSecret)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh, AccessExp: acc.ExpiresAt.Time}, nil
}

func (tm *TokenManager) ParseAccess(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, tm.accessSecret, tokenAccess)
}

func (tm *TokenManager) ParseRefresh(tokenStr string) (*Claims, error) {
	return tm.parse(tokenStr, tm.refreshSecret, tokenRefresh)
}

func (tm *TokenManager) parse(tokenStr string, secret []byte, typ string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || claims.Type != typ {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
