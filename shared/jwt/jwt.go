package jwt

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medina-starter/accounts/shared/domain"
	internal_errors "github.com/medina-starter/accounts/shared/errors"
	"github.com/medina-starter/accounts/shared/logger"
)

const issuer = "accounts"

// Claims are the claims carried by an access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserId returns the account id from the subject claim.
func (c *Claims) UserId() (domain.UserId, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

type JwtService interface {
	NewToken(account domain.Account) (string, error)
	DecodeToken(jwtStr string) (*Claims, error)
}

type Jwt struct {
	secretKey string
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: secretKey, ttl: ttl, now: time.Now}
}

// NewToken signs an HS256 access token bound to the account id.
func (j *Jwt) NewToken(account domain.Account) (string, error) {
	now := j.now()
	claims := Claims{
		Email: account.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(account.Id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		logger.Log.Error("failed to sign token", "user_id", account.Id, "error", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(jwtStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(j.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal_errors.New(internal_errors.KindUnauthorized, "Token expired")
		}
		return nil, internal_errors.Wrap(internal_errors.KindUnauthorized, "Invalid token", err)
	}

	if !token.Valid {
		return nil, internal_errors.New(internal_errors.KindUnauthorized, "Invalid token")
	}
	if _, err := claims.UserId(); err != nil {
		return nil, internal_errors.Wrap(internal_errors.KindUnauthorized, "Invalid token", err)
	}

	return claims, nil
}
