package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/company/domain"
	"github.com/smallbiznis/quizhub/internal/company/repository"
	"github.com/smallbiznis/quizhub/internal/permission"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	conn  *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	owner snowflake.ID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Company{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	return &fixture{
		svc:   NewService(repository.NewRepository(conn), node, fakeClock, zap.NewNop()),
		conn:  conn,
		node:  node,
		clock: fakeClock,
		owner: node.Generate(),
	}
}

func boolPtr(v bool) *bool { return &v }

func TestCreateCompanyDefaultsPublic(t *testing.T) {
	f := setup(t)

	resp, err := f.svc.Create(context.Background(), f.owner, domain.CreateCompanyRequest{Name: " Acme "})
	require.NoError(t, err)
	require.Equal(t, "Acme", resp.Name)
	require.Equal(t, f.owner.String(), resp.OwnerID)
	require.True(t, resp.IsPublic)
	require.Equal(t, f.clock.Now(), resp.CreatedAt)
}

func TestCreateCompanyNameConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner, domain.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.node.Generate(), domain.CreateCompanyRequest{Name: "Acme"})
	require.ErrorIs(t, err, domain.ErrCompanyNameExists)
}

func TestCreateCompanyEmptyName(t *testing.T) {
	f := setup(t)

	_, err := f.svc.Create(context.Background(), f.owner, domain.CreateCompanyRequest{Name: "   "})
	require.ErrorIs(t, err, domain.ErrInvalidCompany)
}

func TestUpdateCompanyOwnerOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.owner, domain.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	name := "Acme Corp"
	_, err = f.svc.Update(ctx, f.node.Generate(), resp.ID, domain.UpdateCompanyRequest{Name: &name})
	require.ErrorIs(t, err, permission.ErrAccessDenied)

	updated, err := f.svc.Update(ctx, f.owner, resp.ID, domain.UpdateCompanyRequest{
		Name:     &name,
		IsPublic: boolPtr(false),
	})
	require.NoError(t, err)
	require.Equal(t, "Acme Corp", updated.Name)
	require.False(t, updated.IsPublic)
}

func TestUpdateCompanyNameConflict(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.owner, domain.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)
	resp, err := f.svc.Create(ctx, f.owner, domain.CreateCompanyRequest{Name: "Globex"})
	require.NoError(t, err)

	taken := "Acme"
	_, err = f.svc.Update(ctx, f.owner, resp.ID, domain.UpdateCompanyRequest{Name: &taken})
	require.ErrorIs(t, err, domain.ErrCompanyNameExists)

	// Re-submitting the current name is not a conflict.
	same := "Globex"
	_, err = f.svc.Update(ctx, f.owner, resp.ID, domain.UpdateCompanyRequest{Name: &same})
	require.NoError(t, err)
}

func TestDeleteCompanyOwnerOnly(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, f.owner, domain.CreateCompanyRequest{Name: "Acme"})
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, f.node.Generate(), resp.ID), permission.ErrAccessDenied)

	require.NoError(t, f.svc.Delete(ctx, f.owner, resp.ID))
	_, err = f.svc.GetByID(ctx, resp.ID)
	require.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestListHidesForeignPrivateCompanies(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	stranger := f.node.Generate()

	_, err := f.svc.Create(ctx, f.owner, domain.CreateCompanyRequest{Name: "Public Co"})
	require.NoError(t, err)
	f.clock.Advance(time.Second)
	_, err = f.svc.Create(ctx, f.owner, domain.CreateCompanyRequest{Name: "Private Co", IsPublic: boolPtr(false)})
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, f.owner, pagination.Unbounded())
	require.NoError(t, err)
	require.Len(t, mine, 2)

	theirs, err := f.svc.List(ctx, stranger, pagination.Unbounded())
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	require.Equal(t, "Public Co", theirs[0].Name)
}

func TestListRejectsNegativePage(t *testing.T) {
	f := setup(t)

	_, err := f.svc.List(context.Background(), f.owner, pagination.WithLimit(-1, 0))
	require.ErrorIs(t, err, pagination.ErrInvalidParameter)
}
