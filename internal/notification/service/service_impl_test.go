package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/notification/domain"
	"github.com/smallbiznis/quizhub/internal/notification/repository"
	"github.com/smallbiznis/quizhub/internal/permission"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	svc   domain.Service
	node  *snowflake.Node
	clock *clock.FakeClock
	user  snowflake.ID
}

func setup(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Notification{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	return &fixture{
		svc:   NewService(repository.NewRepository(conn), node, fakeClock, zap.NewNop()),
		node:  node,
		clock: fakeClock,
		user:  node.Generate(),
	}
}

func TestNotifyAndListOwn(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	other := f.node.Generate()

	require.NoError(t, f.svc.Notify(ctx, f.user, "first"))
	f.clock.Advance(time.Second)
	require.NoError(t, f.svc.NotifyAll(ctx, []snowflake.ID{f.user, other}, "broadcast"))

	own, err := f.svc.ListOwn(ctx, f.user, pagination.Unbounded())
	require.NoError(t, err)
	require.Len(t, own, 2)
	require.Equal(t, "broadcast", own[0].Text)
	require.Equal(t, "first", own[1].Text)
	require.Equal(t, domain.StatusUnread, own[0].Status)

	theirs, err := f.svc.ListOwn(ctx, other, pagination.Unbounded())
	require.NoError(t, err)
	require.Len(t, theirs, 1)
}

func TestNotifyAllEmptyRecipients(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.svc.NotifyAll(context.Background(), nil, "nobody hears this"))
}

func TestMarkReadUnreadCycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Notify(ctx, f.user, "take the quiz"))
	own, err := f.svc.ListOwn(ctx, f.user, pagination.Unbounded())
	require.NoError(t, err)
	require.Len(t, own, 1)

	read, err := f.svc.MarkRead(ctx, f.user, own[0].ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusRead, read.Status)

	unread, err := f.svc.MarkUnread(ctx, f.user, own[0].ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusUnread, unread.Status)
}

func TestMarkReadForeignNotification(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Notify(ctx, f.user, "private"))
	own, err := f.svc.ListOwn(ctx, f.user, pagination.Unbounded())
	require.NoError(t, err)

	_, err = f.svc.MarkRead(ctx, f.node.Generate(), own[0].ID)
	require.ErrorIs(t, err, permission.ErrAccessDenied)
}

func TestMarkReadMalformedID(t *testing.T) {
	f := setup(t)

	_, err := f.svc.MarkRead(context.Background(), f.user, "not-a-snowflake")
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)
}
