package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = "ADMIN"
	RoleVisitor = "VISITOR"
)

var (
	ErrMissingSecret = errors.New("JWT secret not set")
	ErrInvalidToken  = errors.New("invalid token")
)

// Claims carried by both operator and visitor-session tokens.
// Subject is the user id for operators and the session id for visitors.
type Claims struct {
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Ordering bool   `json:"order,omitempty"`
	Language string `json:"lang,omitempty"`
	jwt.RegisteredClaims
}

// Tokens signs and validates HS256 tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *Tokens) Generate(subject string, claims Claims) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, errors.New("empty subject passed to Generate")
	}

	now := t.now()
	expires := now.Add(t.ttl)

	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
