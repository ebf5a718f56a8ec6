// Package jwt emite y valida los bearer tokens de sesión (HS256).
package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// DefaultTTL vigencia de un token si la config no define otra.
const DefaultTTL = 7 * 24 * time.Hour

var (
	// ErrNoSecret indica que el servidor no tiene secreto configurado.
	ErrNoSecret = errors.New("jwt: signing secret not configured")

	// ErrInvalidToken firma inválida, token malformado o claims incompletas.
	ErrInvalidToken = errors.New("jwt: invalid token")

	// ErrExpiredToken el token venció.
	ErrExpiredToken = errors.New("jwt: token expired")
)

// Claims del token de sesión: {id, email} + registradas.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	jwtv5.RegisteredClaims
}

// Issuer firma y valida tokens con un secreto compartido.
type Issuer struct {
	Iss    string
	Secret []byte
	TTL    time.Duration

	now func() time.Time
}

// NewIssuer crea un Issuer. ttl <= 0 usa DefaultTTL.
func NewIssuer(iss, secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{Iss: iss, Secret: []byte(secret), TTL: ttl, now: time.Now}
}

func (i *Issuer) clock() time.Time {
	if i.now == nil {
		return time.Now()
	}
	return i.now()
}

// Sign emite un token para el usuario. Devuelve el token y su expiración.
func (i *Issuer) Sign(userID, email string) (string, time.Time, error) {
	if len(i.Secret) == 0 {
		return "", time.Time{}, ErrNoSecret
	}

	now := i.clock().UTC()
	exp := now.Add(i.TTL)
	claims := Claims{
		ID:    userID,
		Email: email,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Issuer:    i.Iss,
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	}

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	tk.Header["typ"] = "JWT"
	signed, err := tk.SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("jwt: sign: %w", err)
	}
	return signed, exp, nil
}

// Parse valida firma, algoritmo y exp. Devuelve ErrExpiredToken o ErrInvalidToken.
func (i *Issuer) Parse(token string) (*Claims, error) {
	if len(i.Secret) == 0 {
		return nil, ErrNoSecret
	}

	opts := []jwtv5.ParserOption{
		jwtv5.WithValidMethods([]string{jwtv5.SigningMethodHS256.Alg()}),
		jwtv5.WithTimeFunc(i.clock),
		jwtv5.WithExpirationRequired(),
	}
	if i.Iss != "" {
		opts = append(opts, jwtv5.WithIssuer(i.Iss))
	}

	claims := &Claims{}
	tok, err := jwtv5.ParseWithClaims(token, claims, func(*jwtv5.Token) (any, error) {
		return i.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tok.Valid || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
