package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	goredis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/quizhub/internal/clock"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	companyrepository "github.com/smallbiznis/quizhub/internal/company/repository"
	"github.com/smallbiznis/quizhub/internal/config"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	membershiprepository "github.com/smallbiznis/quizhub/internal/membership/repository"
	"github.com/smallbiznis/quizhub/internal/permission"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
	quizrepository "github.com/smallbiznis/quizhub/internal/quiz/repository"
	"github.com/smallbiznis/quizhub/internal/quizresult/cache"
	"github.com/smallbiznis/quizhub/internal/quizresult/domain"
	"github.com/smallbiznis/quizhub/internal/quizresult/repository"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	userrepository "github.com/smallbiznis/quizhub/internal/user/repository"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc   domain.Service
	repo  domain.Repository
	conn  *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock

	owner   userdomain.User
	member  userdomain.User
	company companydomain.Company
	quiz    quizdomain.Quiz
}

// setup wires the service against sqlite and an unreachable redis; the
// cache write path is fire-and-forget so the durable flow still works.
func setup(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&userdomain.User{},
		&companydomain.Company{},
		&membershipdomain.Membership{},
		&quizdomain.Quiz{},
		&domain.QuizResult{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fakeClock := clock.NewFakeClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	resultCache := cache.New(
		goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"}),
		config.Config{ResultCacheTTL: time.Hour},
		zap.NewNop(),
	)

	repo := repository.NewRepository(conn)
	svc := NewService(Params{
		Repo:        repo,
		Cache:       resultCache,
		Quizzes:     quizrepository.NewRepository(conn),
		Companies:   companyrepository.NewRepository(conn),
		Users:       userrepository.NewRepository(conn),
		Memberships: membershiprepository.NewRepository(conn),
		ExportDir:   t.TempDir(),
	}, node, fakeClock, zap.NewNop())

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

	quiz := quizdomain.Quiz{
		ID:        node.Generate(),
		CompanyID: company.ID,
		Name:      "Safety basics",
		Frequency: 7,
		Questions: []quizdomain.Question{
			{Text: "Q1", Options: []string{"a", "b", "c"}, Correct: []int{1}},
			{Text: "Q2", Options: []string{"a", "b", "c", "d", "e", "f"}, Correct: []int{0, 2, 5}},
		},
	}
	require.NoError(t, conn.Create(&quiz).Error)

	return &fixture{
		svc:     svc,
		repo:    repo,
		conn:    conn,
		node:    node,
		clock:   fakeClock,
		owner:   owner,
		member:  member,
		company: company,
		quiz:    quiz,
	}
}

func (f *fixture) seedResult(t *testing.T, user snowflake.ID, answered, correct int, at time.Time) {
	t.Helper()
	require.NoError(t, f.conn.Create(&domain.QuizResult{
		ID:        f.node.Generate(),
		UserID:    user,
		CompanyID: f.company.ID,
		QuizID:    f.quiz.ID,
		Answered:  answered,
		Correct:   correct,
		CreatedAt: at,
	}).Error)
}

func TestAddResultScoresPositionally(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// First answer wrong, second matches the correct set exactly.
	details, err := f.svc.AddResult(ctx, f.member.ID, f.quiz.ID.String(), [][]int{{0}, {0, 2, 5}})
	require.NoError(t, err)
	require.Equal(t, 2, details.Answered)
	require.Equal(t, 1, details.Correct)
	require.Equal(t, f.clock.Now(), details.Time)
}

func TestAddResultOrderInsensitiveWithinQuestion(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	details, err := f.svc.AddResult(ctx, f.member.ID, f.quiz.ID.String(), [][]int{{1}, {5, 0, 2}})
	require.NoError(t, err)
	require.Equal(t, 2, details.Correct)
}

func TestAddResultIncompleteQuiz(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.AddResult(ctx, f.member.ID, f.quiz.ID.String(), [][]int{{1}})
	require.ErrorIs(t, err, domain.ErrIncompleteQuiz)
}

func TestAddResultRequiresMemberRow(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// The owner holds no MEMBER row and cannot take the quiz.
	_, err := f.svc.AddResult(ctx, f.owner.ID, f.quiz.ID.String(), [][]int{{1}, {0, 2, 5}})
	require.ErrorIs(t, err, permission.ErrAccessDenied)
}

func TestUserRatingEmptyResultSet(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.GetUserRating(ctx, f.member.ID.String())
	require.ErrorIs(t, err, domain.ErrResultsNotFound)
}

func TestUserRating(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	now := f.clock.Now()
	f.seedResult(t, f.member.ID, 2, 1, now)
	f.seedResult(t, f.member.ID, 2, 2, now.Add(time.Hour))

	rating, err := f.svc.GetUserRating(ctx, f.member.ID.String())
	require.NoError(t, err)
	require.InDelta(t, 0.75, rating.MeanScore, 1e-9)
}

func TestCompanyDynamicsRequiresOwnerOrAdmin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.seedResult(t, f.member.ID, 2, 1, f.clock.Now())

	_, err := f.svc.GetCompanyDynamics(ctx, f.member.ID, f.company.ID.String())
	require.ErrorIs(t, err, permission.ErrAccessDenied)

	dynamics, err := f.svc.GetCompanyDynamics(ctx, f.owner.ID, f.company.ID.String())
	require.NoError(t, err)
	require.Len(t, dynamics, 1)
}

func TestMemberDynamicsScopedToCompany(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	now := f.clock.Now()
	f.seedResult(t, f.member.ID, 2, 1, now)
	f.seedResult(t, f.member.ID, 2, 1, now.Add(time.Hour))
	f.seedResult(t, f.member.ID, 3, 1, now.Add(2*time.Hour))

	curve, err := f.svc.GetCompanyMemberDynamics(ctx, f.owner.ID, f.company.ID.String(), f.member.ID.String())
	require.NoError(t, err)
	require.Len(t, curve, 3)
	require.InDelta(t, 0.5, curve[0].MeanScore, 1e-9)
	require.InDelta(t, 0.5, curve[1].MeanScore, 1e-9)
	require.InDelta(t, 3.0/7.0, curve[2].MeanScore, 1e-9)
}
