package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/auth/domain"
	"github.com/smallbiznis/quizhub/internal/auth/password"
	authrepository "github.com/smallbiznis/quizhub/internal/auth/repository"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/config"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	userrepository "github.com/smallbiznis/quizhub/internal/user/repository"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   *service
	conn  *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	user  userdomain.User
}

const testPassword = "correct horse battery staple"

func setup(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&userdomain.User{}, &domain.Session{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	cfg := config.Config{
		AuthJWTSecret: "test-signing-secret",
		AuthTokenTTL:  time.Hour,
	}
	svc := NewService(
		cfg,
		userrepository.NewRepository(conn),
		authrepository.NewRepository(conn),
		node,
		fakeClock,
		zap.NewNop(),
	).(*service)

	hash, err := password.Hash(testPassword)
	require.NoError(t, err)
	user := userdomain.User{
		ID:           node.Generate(),
		Name:         "Ada Lovelace",
		Username:     "ada",
		Email:        "ada@example.com",
		PasswordHash: hash,
	}
	require.NoError(t, conn.Create(&user).Error)

	return &fixture{svc: svc, conn: conn, node: node, clock: fakeClock, user: user}
}

type stubVerifier struct {
	email string
	err   error
}

func (s stubVerifier) VerifyEmail(ctx context.Context, rawToken string) (string, error) {
	return s.email, s.err
}

func TestLoginByUsernameAndEmail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, login := range []string{"ada", "ada@example.com", "Ada@Example.com"} {
		result, err := f.svc.Login(ctx, domain.LoginRequest{Login: login, Password: testPassword})
		require.NoError(t, err, login)
		require.Equal(t, f.user.ID, result.User.ID)
		require.NotEmpty(t, result.SessionToken)
		require.NotEmpty(t, result.BearerToken)
		require.Equal(t, f.clock.Now().UTC().Add(sessionTTL), result.SessionExpiresAt)
	}

	// Raw tokens never hit the database.
	var sessions []domain.Session
	require.NoError(t, f.conn.Find(&sessions).Error)
	require.Len(t, sessions, 3)
	for _, session := range sessions {
		require.Len(t, session.TokenHash, 64)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, domain.LoginRequest{Login: "ada", Password: "nope"})
	require.ErrorIs(t, err, domain.ErrIncorrectPassword)

	// Unknown logins look identical to bad passwords.
	_, err = f.svc.Login(ctx, domain.LoginRequest{Login: "nobody", Password: testPassword})
	require.ErrorIs(t, err, domain.ErrIncorrectPassword)
}

func TestLoginDisabledUser(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.conn.Model(&userdomain.User{}).
		Where("id = ?", f.user.ID).
		Update("disabled", true).Error)

	_, err := f.svc.Login(context.Background(), domain.LoginRequest{Login: "ada", Password: testPassword})
	require.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestResolveSessionRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.LoginRequest{Login: "ada", Password: testPassword})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	user, err := f.svc.ResolveSession(ctx, result.SessionToken)
	require.NoError(t, err)
	require.Equal(t, f.user.ID, user.ID)

	var session domain.Session
	require.NoError(t, f.conn.First(&session).Error)
	require.Equal(t, f.clock.Now().UTC(), session.LastSeenAt.UTC())
}

func TestResolveSessionExpired(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.LoginRequest{Login: "ada", Password: testPassword})
	require.NoError(t, err)

	f.clock.Advance(sessionTTL + time.Second)
	_, err = f.svc.ResolveSession(ctx, result.SessionToken)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogoutRevokesSession(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.LoginRequest{Login: "ada", Password: testPassword})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, result.SessionToken))
	_, err = f.svc.ResolveSession(ctx, result.SessionToken)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	// Logging out an unknown token is not an error.
	require.NoError(t, f.svc.Logout(ctx, "unknown-token"))
}

func TestResolveBearerRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	result, err := f.svc.Login(ctx, domain.LoginRequest{Login: "ada", Password: testPassword})
	require.NoError(t, err)

	user, err := f.svc.ResolveBearer(ctx, result.BearerToken)
	require.NoError(t, err)
	require.Equal(t, f.user.ID, user.ID)

	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.ResolveBearer(ctx, result.BearerToken)
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolveBearerGarbage(t *testing.T) {
	f := setup(t)

	_, err := f.svc.ResolveBearer(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolveBearerOIDCAutoProvision(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.svc.oidc = stubVerifier{email: "New.Person@Example.com"}
	f.svc.autoSignup = true

	user, err := f.svc.ResolveBearer(ctx, "issuer-token")
	require.NoError(t, err)
	require.Equal(t, "new.person@example.com", user.Email)
	require.True(t, strings.HasPrefix(user.Username, "new.person_"))

	again, err := f.svc.ResolveBearer(ctx, "issuer-token")
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)

	var count int64
	require.NoError(t, f.conn.Model(&userdomain.User{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestResolveBearerOIDCExistingUser(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.svc.oidc = stubVerifier{email: "ada@example.com"}
	f.svc.autoSignup = false

	user, err := f.svc.ResolveBearer(ctx, "issuer-token")
	require.NoError(t, err)
	require.Equal(t, f.user.ID, user.ID)
}

func TestResolveBearerOIDCSignupDisabled(t *testing.T) {
	f := setup(t)
	f.svc.oidc = stubVerifier{email: "stranger@example.com"}
	f.svc.autoSignup = false

	_, err := f.svc.ResolveBearer(context.Background(), "issuer-token")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
