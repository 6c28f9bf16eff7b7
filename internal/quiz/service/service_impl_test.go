package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	companyrepository "github.com/smallbiznis/quizhub/internal/company/repository"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	membershiprepository "github.com/smallbiznis/quizhub/internal/membership/repository"
	notificationdomain "github.com/smallbiznis/quizhub/internal/notification/domain"
	notificationrepository "github.com/smallbiznis/quizhub/internal/notification/repository"
	notificationservice "github.com/smallbiznis/quizhub/internal/notification/service"
	"github.com/smallbiznis/quizhub/internal/permission"
	"github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/smallbiznis/quizhub/internal/quiz/repository"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	conn  *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock

	owner   userdomain.User
	member  userdomain.User
	company companydomain.Company
}

func setup(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&companydomain.Company{},
		&membershipdomain.Membership{},
		&domain.Quiz{},
		&notificationdomain.Notification{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	notifications := notificationservice.NewService(
		notificationrepository.NewRepository(conn), node, fakeClock, zap.NewNop())

	svc := NewService(
		repository.NewRepository(conn),
		companyrepository.NewRepository(conn),
		membershiprepository.NewRepository(conn),
		notifications,
		node,
		fakeClock,
		zap.NewNop(),
	)

	owner := userdomain.User{ID: node.Generate(), Name: "Owner", Username: "owner", Email: "owner@example.com", PasswordHash: "x"}
	member := userdomain.User{ID: node.Generate(), Name: "Member", Username: "member", Email: "member@example.com", PasswordHash: "x"}
	require.NoError(t, conn.Create(&owner).Error)
	require.NoError(t, conn.Create(&member).Error)

	company := companydomain.Company{ID: node.Generate(), Name: "Acme", OwnerID: owner.ID, IsPublic: true}
	require.NoError(t, conn.Create(&company).Error)

	require.NoError(t, conn.Create(&membershipdomain.Membership{
		ID:        node.Generate(),
		CompanyID: company.ID,
		UserID:    member.ID,
		Status:    membershipdomain.StatusMember,
	}).Error)

	return &fixture{
		svc:     svc,
		conn:    conn,
		node:    node,
		clock:   fakeClock,
		owner:   owner,
		member:  member,
		company: company,
	}
}

func createRequest() domain.CreateQuizRequest {
	return domain.CreateQuizRequest{
		Name:      "Safety basics",
		Frequency: 7,
		Questions: []domain.Question{
			{Text: "Q1", Options: []string{"a", "b", "c"}, Correct: []int{1}},
			{Text: "Q2", Options: []string{"a", "b"}, Correct: []int{0}},
		},
	}
}

func TestCreateQuizFansOutToMembers(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.owner.ID, f.company.ID.String(), createRequest())
	require.NoError(t, err)

	var notifications []notificationdomain.Notification
	require.NoError(t, f.conn.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, f.member.ID, notifications[0].UserID)
	require.Equal(t,
		fmt.Sprintf("There's a new quiz %s created by company %s. You should take it!",
			created.ID, f.company.ID.String()),
		notifications[0].Text,
	)
}

func TestCreateQuizRequiresOwnerOrAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.member.ID, f.company.ID.String(), createRequest())
	require.ErrorIs(t, err, permission.ErrAccessDenied)
}

func TestCreateQuizRejectsInvalid(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	req := createRequest()
	req.Questions = req.Questions[:1]
	_, err := f.svc.Create(ctx, f.owner.ID, f.company.ID.String(), req)
	require.ErrorIs(t, err, domain.ErrInvalidQuiz)
}

func TestUpdateQuizRevalidatesMergedState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.owner.ID, f.company.ID.String(), createRequest())
	require.NoError(t, err)

	badFrequency := 0
	_, err = f.svc.Update(ctx, f.owner.ID, created.ID, domain.UpdateQuizRequest{Frequency: &badFrequency})
	require.ErrorIs(t, err, domain.ErrInvalidQuiz)

	newName := "Updated name"
	updated, err := f.svc.Update(ctx, f.owner.ID, created.ID, domain.UpdateQuizRequest{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, newName, updated.Name)
}

func TestDeleteQuizRequiresOwnerOrAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, f.owner.ID, f.company.ID.String(), createRequest())
	require.NoError(t, err)

	require.ErrorIs(t, f.svc.Delete(ctx, f.member.ID, created.ID), permission.ErrAccessDenied)
	require.NoError(t, f.svc.Delete(ctx, f.owner.ID, created.ID))

	_, err = f.svc.GetByID(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrQuizNotFound)
}
