package domain

import (
	"context"
	"errors"
	"time"

	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrIncorrectPassword = errors.New("incorrect_username_or_password")
	ErrInactiveUser      = errors.New("inactive_user")
)

type Service interface {
	// Login accepts a username or an email address in Login.
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// Logout revokes the session behind the raw cookie token. Unknown
	// tokens are not an error.
	Logout(ctx context.Context, rawToken string) error
	// ResolveSession maps a session cookie token to its user.
	ResolveSession(ctx context.Context, rawToken string) (*userdomain.User, error)
	// ResolveBearer maps a JWT bearer token to its user, trying the
	// local signing key first and falling back to the configured OIDC
	// issuer for third-party tokens.
	ResolveBearer(ctx context.Context, rawToken string) (*userdomain.User, error)
}

type LoginRequest struct {
	Login     string `json:"login"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

type LoginResult struct {
	User userdomain.User

	// SessionToken goes into the cookie, BearerToken into the
	// Authorization header of API clients.
	SessionToken     string
	SessionExpiresAt time.Time
	BearerToken      string
	BearerExpiresAt  time.Time
}
