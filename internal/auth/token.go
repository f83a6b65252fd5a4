package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/tuanvumaihuynh/warehouse/internal/config"
	"github.com/tuanvumaihuynh/warehouse/internal/model"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID int64    `json:"id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

func NewTokenManager(cfg config.Auth) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.JWTIssuer,
		expiration: cfg.JWTExpiration,
		now:        time.Now,
	}
}

// Issue signs an HS256 token for user and returns it with its expiry.
func (m *TokenManager) Issue(user model.User) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.expiration)

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}

	claims := Claims{
		UserID: user.ID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        strconv.FormatInt(now.UnixNano(), 36),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify parses token and returns the principal it carries. Any failure is
// reported as ErrInvalidToken.
func (m *TokenManager) Verify(token string) (Principal, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Principal{}, errors.Join(ErrInvalidToken, err)
	}
	if !parsed.Valid || !claims.VerifyIssuer(m.issuer, true) {
		return Principal{}, ErrInvalidToken
	}

	roles := make([]model.Role, 0, len(claims.Roles))
	for _, r := range claims.Roles {
		roles = append(roles, model.Role(r))
	}

	return Principal{
		UserID:   claims.UserID,
		Username: claims.Subject,
		Roles:    roles,
	}, nil
}
