package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"whosbook/internal/domain"
)

type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"` // "user" or "admin"
	jwt.RegisteredClaims
}

// Identity 令牌里的调用方信息
func (c *Claims) Identity() domain.Identity {
	id, _ := strconv.ParseUint(c.UID, 10, 64)
	return domain.Identity{MemberID: id, Email: c.Email, Role: c.Role}
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (j *JWTer) Issue(m *domain.Member) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:   strconv.FormatUint(m.ID, 10),
		Email: m.Email,
		Role:  m.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   m.Email,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		if c.Email == "" {
			return nil, errors.New("token has no subject")
		}
		return c, nil
	}
	return nil, errors.New("invalid token")
}
