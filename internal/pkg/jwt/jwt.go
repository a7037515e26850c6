package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/cmlabs-hris/sheet-attendance/internal/domain/user"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrWrongTokenType = errors.New("jwt: unexpected token type")

type Service interface {
	GenerateAccessToken(salesPersonName string, role user.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(who user.Identity) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (user.Identity, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpiration time.Duration
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpiration time.Duration) Service {
	return &JWTService{
		accessTokenExpiration: accessTokenExpiration,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}
}

// GenerateAccessToken issues the bearer token the API expects. The sales person name
// is the identity used to match sheet rows.
func (j *JWTService) GenerateAccessToken(salesPersonName string, role user.Role) (token string, expiresAt int64, err error) {
	if salesPersonName == "" {
		return "", 0, user.ErrIdentityMissing
	}
	if role == "" {
		role = user.RoleUser
	}

	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()
	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		user.ClaimSalesPersonName: salesPersonName,
		user.ClaimRole:            string(role),
		"type":                    TokenTypeAccess,
		"exp":                     expiresAt,
	})
	return token, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections
func (j *JWTService) GenerateSSEToken(who user.Identity) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenLifetime).Unix()

	_, token, err = j.tokenAuth.Encode(map[string]interface{}{
		user.ClaimSalesPersonName: who.SalesPersonName,
		user.ClaimRole:            string(who.Role),
		"type":                    TokenTypeSSE,
		"exp":                     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return token, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken checks signature, expiry and type and returns the identity it carries.
func (j *JWTService) ValidateSSEToken(tokenString string) (user.Identity, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return user.Identity{}, err
	}

	tokenType, ok := token.Get("type")
	if !ok || tokenType != TokenTypeSSE {
		return user.Identity{}, ErrWrongTokenType
	}

	name, _ := token.Get(user.ClaimSalesPersonName)
	role, _ := token.Get(user.ClaimRole)

	who := user.Identity{}
	who.SalesPersonName, _ = name.(string)
	if r, ok := role.(string); ok {
		who.Role = user.Role(r)
	}
	if who.SalesPersonName == "" {
		return user.Identity{}, user.ErrInvalidToken
	}
	return who, nil
}
