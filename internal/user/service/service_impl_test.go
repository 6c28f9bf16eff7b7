package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/auth/password"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/permission"
	"github.com/smallbiznis/quizhub/internal/user/domain"
	"github.com/smallbiznis/quizhub/internal/user/repository"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	conn  *gorm.DB
	clock *clock.FakeClock
}

func setup(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	return &fixture{
		svc:   NewService(repository.NewRepository(conn), node, fakeClock, zap.NewNop()),
		conn:  conn,
		clock: fakeClock,
	}
}

func signupRequest() domain.SignupRequest {
	return domain.SignupRequest{
		Name:     "Ada Lovelace",
		Username: "ada",
		Email:    "Ada@Example.com",
		Password: "correct horse battery staple",
	}
}

func TestSignup(t *testing.T) {
	f := setup(t)

	resp, err := f.svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)
	require.Equal(t, "ada", resp.Username)
	require.Equal(t, "ada@example.com", resp.Email)
	require.Equal(t, f.clock.Now(), resp.CreatedAt)
	require.False(t, resp.Disabled)

	var stored domain.User
	require.NoError(t, f.conn.First(&stored, "username = ?", "ada").Error)
	require.NotEqual(t, "correct horse battery staple", stored.PasswordHash)
	require.True(t, password.Verify("correct horse battery staple", stored.PasswordHash))
}

func TestSignupDuplicateEmail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	dup := signupRequest()
	dup.Username = "ada2"
	_, err = f.svc.Signup(ctx, dup)
	require.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestSignupDuplicateUsername(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	dup := signupRequest()
	dup.Email = "other@example.com"
	_, err = f.svc.Signup(ctx, dup)
	require.ErrorIs(t, err, domain.ErrUsernameExists)
}

func TestSignupMissingFields(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, mutate := range []func(*domain.SignupRequest){
		func(r *domain.SignupRequest) { r.Username = " " },
		func(r *domain.SignupRequest) { r.Email = "" },
		func(r *domain.SignupRequest) { r.Password = "" },
	} {
		req := signupRequest()
		mutate(&req)
		_, err := f.svc.Signup(ctx, req)
		require.ErrorIs(t, err, domain.ErrInvalidUser)
	}
}

func TestUpdateSelfOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	other := signupRequest()
	other.Username = "eve"
	other.Email = "eve@example.com"
	otherResp, err := f.svc.Signup(ctx, other)
	require.NoError(t, err)
	otherID, err := snowflake.ParseString(otherResp.ID)
	require.NoError(t, err)

	name := "Renamed"
	_, err = f.svc.Update(ctx, otherID, resp.ID, domain.UpdateUserRequest{Name: &name})
	require.ErrorIs(t, err, permission.ErrAccessDenied)

	selfID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)
	updated, err := f.svc.Update(ctx, selfID, resp.ID, domain.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
	require.Equal(t, "ada", updated.Username)
}

func TestUpdatePasswordRehashes(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	selfID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	next := "hunter2hunter2"
	_, err = f.svc.Update(ctx, selfID, resp.ID, domain.UpdateUserRequest{Password: &next})
	require.NoError(t, err)

	var stored domain.User
	require.NoError(t, f.conn.First(&stored, "id = ?", selfID).Error)
	require.True(t, password.Verify(next, stored.PasswordHash))
}

func TestDeleteSelfOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.Signup(ctx, signupRequest())
	require.NoError(t, err)
	selfID, err := snowflake.ParseString(resp.ID)
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, selfID+1, resp.ID), permission.ErrAccessDenied)

	require.NoError(t, f.svc.Delete(ctx, selfID, resp.ID))
	_, err = f.svc.GetByID(ctx, resp.ID)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetByIDMalformed(t *testing.T) {
	f := setup(t)

	_, err := f.svc.GetByID(context.Background(), "not-a-snowflake")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListPagination(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for _, username := range []string{"u1", "u2", "u3"} {
		req := signupRequest()
		req.Username = username
		req.Email = username + "@example.com"
		_, err := f.svc.Signup(ctx, req)
		require.NoError(t, err)
		f.clock.Advance(time.Second)
	}

	page, err := f.svc.List(ctx, pagination.WithLimit(2, 0))
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "u1", page[0].Username)

	rest, err := f.svc.List(ctx, pagination.WithLimit(2, 2))
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, "u3", rest[0].Username)

	all, err := f.svc.List(ctx, pagination.Unbounded())
	require.NoError(t, err)
	require.Len(t, all, 3)
}
