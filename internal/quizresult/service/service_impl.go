package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	"github.com/smallbiznis/quizhub/internal/permission"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/smallbiznis/quizhub/internal/quizresult/cache"
	"github.com/smallbiznis/quizhub/internal/quizresult/domain"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"go.uber.org/zap"
)

type service struct {
	repo        domain.Repository
	cache       *cache.Cache
	quizzes     quizdomain.Repository
	companies   companydomain.Repository
	users       userdomain.Repository
	memberships membershipdomain.Repository
	exportDir   string
	genID       *snowflake.Node
	clock       clock.Clock
	log         *zap.Logger
}

type Params struct {
	Repo        domain.Repository
	Cache       *cache.Cache
	Quizzes     quizdomain.Repository
	Companies   companydomain.Repository
	Users       userdomain.Repository
	Memberships membershipdomain.Repository
	ExportDir   string
}

func NewService(p Params, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		repo:        p.Repo,
		cache:       p.Cache,
		quizzes:     p.Quizzes,
		companies:   p.Companies,
		users:       p.Users,
		memberships: p.Memberships,
		exportDir:   p.ExportDir,
		genID:       genID,
		clock:       clk,
		log:         log.Named("quizresult.service"),
	}
}

// AddResult scores one attempt, appends the durable row and mirrors
// it into the cache. The cache write is fire-and-forget; a failure is
// logged and the durable result still stands.
func (s *service) AddResult(ctx context.Context, actorID snowflake.ID, quizID string, answers [][]int) (*domain.ResultDetails, error) {
	quiz, err := s.memberQuiz(ctx, actorID, quizID)
	if err != nil {
		return nil, err
	}

	answered := len(answers)
	if answered < len(quiz.Questions) {
		return nil, domain.ErrIncompleteQuiz
	}

	correct := 0
	for i, question := range quiz.Questions {
		if i < len(answers) && indexSetsEqual(answers[i], question.Correct) {
			correct++
		}
	}

	result := domain.QuizResult{
		ID:        s.genID.Generate(),
		UserID:    actorID,
		CompanyID: quiz.CompanyID,
		QuizID:    quiz.ID,
		Answered:  answered,
		Correct:   correct,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Create(ctx, result); err != nil {
		return nil, err
	}

	details := toDetails(result)
	if err := s.cache.Store(ctx, details); err != nil {
		s.log.Warn("result cache write failed",
			zap.String("result_id", details.ID),
			zap.Error(err),
		)
	}

	s.log.Info("quiz result recorded",
		zap.String("quiz_id", quiz.ID.String()),
		zap.String("user_id", actorID.String()),
		zap.Int("answered", answered),
		zap.Int("correct", correct),
	)
	return &details, nil
}

func (s *service) GetUserRating(ctx context.Context, userID string) (*domain.MeanScore, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrResultsNotFound
	}
	return &domain.MeanScore{MeanScore: domain.CalculateRating(results)}, nil
}

func (s *service) GetUserCompanyRating(ctx context.Context, userID, companyID string) (*domain.MeanScore, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	results, err := s.repo.ListByUserAndCompany(ctx, user.ID, company.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrResultsNotFound
	}
	return &domain.MeanScore{MeanScore: domain.CalculateRating(results)}, nil
}

func (s *service) GetUserDynamics(ctx context.Context, actorID snowflake.ID) ([]domain.MeanScoreTimed, error) {
	results, err := s.repo.ListByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrResultsNotFound
	}
	return domain.CalculateDynamics(results), nil
}

func (s *service) GetUserLatestAnswers(ctx context.Context, actorID snowflake.ID) ([]domain.LatestQuizAnswer, error) {
	results, err := s.repo.ListByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrResultsNotFound
	}
	return domain.FindLatestAnswers(results), nil
}

func (s *service) GetCompanyDynamics(ctx context.Context, actorID snowflake.ID, companyID string) ([]domain.UserMeanScoreTimed, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "view analytics"); err != nil {
		return nil, err
	}

	results, err := s.repo.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrResultsNotFound
	}

	grouped := domain.GroupByUser(results)
	dynamics := make([]domain.UserMeanScoreTimed, 0, len(grouped))
	for userID, userResults := range grouped {
		dynamics = append(dynamics, domain.UserMeanScoreTimed{
			UserID: userID.String(),
			Scores: domain.CalculateDynamics(userResults),
		})
	}
	return dynamics, nil
}

func (s *service) GetCompanyMemberDynamics(ctx context.Context, actorID snowflake.ID, companyID, userID string) ([]domain.MeanScoreTimed, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "view analytics"); err != nil {
		return nil, err
	}

	results, err := s.repo.ListByUserAndCompany(ctx, user.ID, company.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrResultsNotFound
	}
	return domain.CalculateDynamics(results), nil
}

func (s *service) GetCompanyLatestAnswers(ctx context.Context, actorID snowflake.ID, companyID string) ([]domain.UserLatestQuizAnswers, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "view analytics"); err != nil {
		return nil, err
	}

	results, err := s.repo.ListByCompany(ctx, company.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrResultsNotFound
	}

	grouped := domain.GroupByUser(results)
	answers := make([]domain.UserLatestQuizAnswers, 0, len(grouped))
	for userID, userResults := range grouped {
		answers = append(answers, domain.UserLatestQuizAnswers{
			UserID:        userID.String(),
			LatestAnswers: domain.FindLatestAnswers(userResults),
		})
	}
	return answers, nil
}

func (s *service) LatestUserResults(ctx context.Context, actorID snowflake.ID) ([]domain.ResultDetails, error) {
	return s.cache.ByUser(ctx, actorID.String())
}

func (s *service) LatestCompanyResults(ctx context.Context, actorID snowflake.ID, companyID string) ([]domain.ResultDetails, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "view results"); err != nil {
		return nil, err
	}
	return s.cache.ByCompany(ctx, company.ID.String())
}

func (s *service) LatestCompanyUserResults(ctx context.Context, actorID snowflake.ID, companyID, userID string) ([]domain.ResultDetails, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "view results"); err != nil {
		return nil, err
	}
	return s.cache.ByUserAndCompany(ctx, user.ID.String(), company.ID.String())
}

func (s *service) LatestQuizResults(ctx context.Context, actorID snowflake.ID, quizID string) ([]domain.ResultDetails, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(quizID))
	if err != nil {
		return nil, quizdomain.ErrQuizNotFound
	}
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.GetByID(ctx, quiz.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "view results"); err != nil {
		return nil, err
	}
	return s.cache.ByQuiz(ctx, quiz.ID.String())
}

// memberQuiz resolves the quiz and requires the actor to hold a
// MEMBER row in its company. Owners and admins without one cannot
// take the quiz.
func (s *service) memberQuiz(ctx context.Context, actorID snowflake.ID, quizID string) (*quizdomain.Quiz, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(quizID))
	if err != nil {
		return nil, quizdomain.ErrQuizNotFound
	}
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	membership, err := s.memberships.Get(ctx, quiz.CompanyID, actorID)
	if err != nil {
		return nil, err
	}
	if membership == nil || membership.Status != membershipdomain.StatusMember {
		return nil, fmt.Errorf("%w: you're not allowed to take quizzes of companies you're not a member of", permission.ErrAccessDenied)
	}
	return quiz, nil
}

func (s *service) requireOwnerAdmin(ctx context.Context, company *companydomain.Company, actorID snowflake.ID, operation string) error {
	actorMembership, err := s.memberships.Get(ctx, company.ID, actorID)
	if err != nil {
		return err
	}
	return permission.GrantOwnerAdmin(company.OwnerID, actorMembership, actorID, operation)
}

func (s *service) company(ctx context.Context, id string) (*companydomain.Company, error) {
	companyID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, companydomain.ErrCompanyNotFound
	}
	return s.companies.GetByID(ctx, companyID)
}

func (s *service) user(ctx context.Context, id string) (*userdomain.User, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, userdomain.ErrUserNotFound
	}
	return s.users.GetByID(ctx, userID)
}

// indexSetsEqual compares two answer index sets regardless of order.
func indexSetsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[int]struct{}, len(a))
	for _, index := range a {
		set[index] = struct{}{}
	}
	if len(set) != len(b) {
		return false
	}
	for _, index := range b {
		if _, ok := set[index]; !ok {
			return false
		}
	}
	return true
}

func toDetails(result domain.QuizResult) domain.ResultDetails {
	return domain.ResultDetails{
		ID:        result.ID.String(),
		UserID:    result.UserID.String(),
		CompanyID: result.CompanyID.String(),
		QuizID:    result.QuizID.String(),
		Answered:  result.Answered,
		Correct:   result.Correct,
		Time:      result.CreatedAt,
	}
}
