// Package service implements login, logout and token resolution.
package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/quizhub/internal/auth/domain"
	"github.com/smallbiznis/quizhub/internal/auth/password"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/config"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"go.uber.org/zap"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 7 * 24 * time.Hour
)

// emailVerifier validates a third-party token and returns the email it
// asserts. Satisfied by the OIDC verifier and by test stubs.
type emailVerifier interface {
	VerifyEmail(ctx context.Context, rawToken string) (string, error)
}

type service struct {
	log      *zap.Logger
	users    userdomain.Repository
	sessions domain.SessionRepository
	genID    *snowflake.Node
	clock    clock.Clock

	jwtSecret  []byte
	tokenTTL   time.Duration
	oidc       emailVerifier
	autoSignup bool
}

func NewService(
	cfg config.Config,
	users userdomain.Repository,
	sessions domain.SessionRepository,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	secret := []byte(cfg.AuthJWTSecret)
	if len(secret) == 0 {
		// Without a configured secret, bearer tokens only survive the
		// current process.
		secret = randomBytes(sessionTokenBytes)
		log.Warn("AUTH_JWT_SECRET not set, using an ephemeral signing key")
	}

	var verifier emailVerifier
	if cfg.OIDCIssuer != "" && cfg.OIDCClientID != "" {
		verifier = newOIDCVerifier(cfg.OIDCIssuer, cfg.OIDCClientID)
	}

	return &service{
		log:        log.Named("auth.service"),
		users:      users,
		sessions:   sessions,
		genID:      genID,
		clock:      clk,
		jwtSecret:  secret,
		tokenTTL:   cfg.AuthTokenTTL,
		oidc:       verifier,
		autoSignup: cfg.OIDCAutoSignup,
	}
}

func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return nil, domain.ErrIncorrectPassword
	}

	user, err := s.findByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, domain.ErrIncorrectPassword
		}
		return nil, err
	}
	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrIncorrectPassword
	}
	if user.Disabled {
		return nil, domain.ErrInactiveUser
	}

	now := s.clock.Now().UTC()
	rawToken := newSessionToken()
	session := domain.Session{
		ID:         s.genID.Generate(),
		UserID:     user.ID,
		TokenHash:  hashToken(rawToken),
		UserAgent:  strings.TrimSpace(req.UserAgent),
		IPAddress:  strings.TrimSpace(req.IPAddress),
		ExpiresAt:  now.Add(sessionTTL),
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	bearerExpiry := now.Add(s.tokenTTL)
	bearer, err := s.signBearer(user.Email, now, bearerExpiry)
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("session_id", session.ID.String()),
	)

	return &domain.LoginResult{
		User:             *user,
		SessionToken:     rawToken,
		SessionExpiresAt: session.ExpiresAt,
		BearerToken:      bearer,
		BearerExpiresAt:  bearerExpiry,
	}, nil
}

func (s *service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil
	}
	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil
		}
		return err
	}
	return s.sessions.Revoke(ctx, session.ID, s.clock.Now().UTC())
}

func (s *service) ResolveSession(ctx context.Context, rawToken string) (*userdomain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	now := s.clock.Now().UTC()
	if !session.Active(now) {
		return nil, domain.ErrUnauthorized
	}
	if err := s.sessions.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, err
	}

	return s.activeUser(ctx, session.UserID)
}

func (s *service) ResolveBearer(ctx context.Context, rawToken string) (*userdomain.User, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	if email, err := s.verifyLocal(token); err == nil {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, userdomain.ErrUserNotFound) {
				return nil, domain.ErrUnauthorized
			}
			return nil, err
		}
		if user.Disabled {
			return nil, domain.ErrInactiveUser
		}
		return user, nil
	}

	if s.oidc == nil {
		return nil, domain.ErrUnauthorized
	}
	email, err := s.oidc.VerifyEmail(ctx, token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	return s.userForVerifiedEmail(ctx, email)
}

// userForVerifiedEmail trusts the issuer's email claim, provisioning an
// account on first sight when auto signup is enabled.
func (s *service) userForVerifiedEmail(ctx context.Context, email string) (*userdomain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		if user.Disabled {
			return nil, domain.ErrInactiveUser
		}
		return user, nil
	}
	if !errors.Is(err, userdomain.ErrUserNotFound) {
		return nil, err
	}
	if !s.autoSignup {
		return nil, domain.ErrUnauthorized
	}

	now := s.clock.Now().UTC()
	provisioned := userdomain.User{
		ID:    s.genID.Generate(),
		Name:  email,
		Email: email,
		// Usernames are unique, so lean on the snowflake for a
		// collision-free default.
		Username:     usernameFromEmail(email),
		PasswordHash: hashToken(newSessionToken()),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	provisioned.Username = provisioned.Username + "_" + provisioned.ID.String()

	if err := s.users.Create(ctx, provisioned); err != nil {
		// Another request may have provisioned the same email first.
		if existing, getErr := s.users.GetByEmail(ctx, email); getErr == nil {
			return existing, nil
		}
		return nil, err
	}

	s.log.Info("auto-provisioned user from verified token",
		zap.String("user_id", provisioned.ID.String()),
	)
	return &provisioned, nil
}

func (s *service) findByLogin(ctx context.Context, login string) (*userdomain.User, error) {
	if strings.Contains(login, "@") {
		return s.users.GetByEmail(ctx, strings.ToLower(login))
	}
	return s.users.GetByUsername(ctx, login)
}

func (s *service) activeUser(ctx context.Context, id snowflake.ID) (*userdomain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if user.Disabled {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *service) signBearer(email string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *service) verifyLocal(raw string) (string, error) {
	parsed, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.clock.Now() }),
	)
	if err != nil {
		return "", err
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", domain.ErrUnauthorized
	}
	return claims.Subject, nil
}

func newSessionToken() string {
	return base64.RawURLEncoding.EncodeToString(randomBytes(sessionTokenBytes))
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomBytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return buf
}

func usernameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
