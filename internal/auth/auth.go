package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleCustomer = "CUSTOMER"
	RoleManager  = "MANAGER"
	RoleStaff    = "STAFF"
	RoleOperator = "OPERATOR"
	RoleAdmin    = "ADMIN"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour

	issuer   = "bookminton-api"
	audience = "bookminton-accounts"

	kindAccess  = "access"
	kindRefresh = "refresh"
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrEmptyJWTSecret   = errors.New("jwt secret cannot be empty")
)

// Identity is what a token asserts about its bearer. BranchID is only set
// for staff accounts.
type Identity struct {
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	BranchID *int   `json:"branch_id,omitempty"`
}

type Claims struct {
	Identity
	Kind string `json:"kind"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	Access  string
	Refresh string
}

// Tokens signs and verifies HS256 tokens with one shared secret.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), now: time.Now}
}

func (t *Tokens) Issue(id Identity) (TokenPair, error) {
	access, err := t.sign(id, kindAccess, AccessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := t.sign(id, kindRefresh, RefreshTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (t *Tokens) sign(id Identity, kind string, ttl time.Duration) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrEmptyJWTSecret
	}

	now := t.now()
	claims := &Claims{
		Identity: id,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			Subject:   fmt.Sprint(id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseAccess verifies an access token and returns its claims.
func (t *Tokens) ParseAccess(token string) (*Claims, error) {
	return t.parse(token, kindAccess)
}

// Refresh trades a refresh token for a new access token carrying the same identity.
func (t *Tokens) Refresh(refreshToken string) (string, *Claims, error) {
	claims, err := t.parse(refreshToken, kindRefresh)
	if err != nil {
		return "", nil, err
	}

	access, err := t.sign(claims.Identity, kindAccess, AccessTokenTTL)
	if err != nil {
		return "", nil, err
	}
	return access, claims, nil
}

func (t *Tokens) parse(token, kind string) (*Claims, error) {
	if len(t.secret) == 0 {
		return nil, ErrEmptyJWTSecret
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{},
		func(tok *jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, ErrTokenExpired
	}
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashedPassword, plainPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword)) == nil
}
