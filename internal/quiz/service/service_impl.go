package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/quizhub/internal/notification/domain"
	"github.com/smallbiznis/quizhub/internal/permission"
	"github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	repo          domain.Repository
	companies     companydomain.Repository
	memberships   membershipdomain.Repository
	notifications notificationdomain.Service
	genID         *snowflake.Node
	clock         clock.Clock
	log           *zap.Logger
}

func NewService(
	repo domain.Repository,
	companies companydomain.Repository,
	memberships membershipdomain.Repository,
	notifications notificationdomain.Service,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	return &service{
		repo:          repo,
		companies:     companies,
		memberships:   memberships,
		notifications: notifications,
		genID:         genID,
		clock:         clk,
		log:           log.Named("quiz.service"),
	}
}

func (s *service) Create(ctx context.Context, actorID snowflake.ID, companyID string, req domain.CreateQuizRequest) (*domain.QuizResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "create quizzes"); err != nil {
		return nil, err
	}
	if err := validateQuiz(req.Name, req.Frequency, req.Questions); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	quiz := domain.Quiz{
		ID:          s.genID.Generate(),
		CompanyID:   company.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Frequency:   req.Frequency,
		Questions:   req.Questions,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.log.Info("quiz created",
		zap.String("quiz_id", quiz.ID.String()),
		zap.String("company_id", company.ID.String()),
	)
	s.fanOut(ctx, quiz)

	return toResponse(quiz), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.QuizResponse, error) {
	quizID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrQuizNotFound
	}

	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return toResponse(*quiz), nil
}

func (s *service) ListByCompany(ctx context.Context, companyID string, page pagination.Page) ([]domain.QuizResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.repo.ListByCompany(ctx, company.ID, page)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		resp = append(resp, *toResponse(quiz))
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, actorID snowflake.ID, id string, req domain.UpdateQuizRequest) (*domain.QuizResponse, error) {
	quizID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrQuizNotFound
	}

	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	company, err := s.companies.GetByID(ctx, quiz.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "update quizzes"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		quiz.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.Frequency != nil {
		quiz.Frequency = *req.Frequency
	}
	if req.Questions != nil {
		quiz.Questions = *req.Questions
	}
	if err := validateQuiz(quiz.Name, quiz.Frequency, quiz.Questions); err != nil {
		return nil, err
	}
	quiz.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *quiz); err != nil {
		return nil, err
	}
	return toResponse(*quiz), nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, id string) error {
	quizID, err := parseID(id)
	if err != nil {
		return domain.ErrQuizNotFound
	}

	quiz, err := s.repo.GetByID(ctx, quizID)
	if err != nil {
		return err
	}
	company, err := s.companies.GetByID(ctx, quiz.CompanyID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "delete quizzes"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, quizID)
}

// fanOut notifies every current member about the new quiz. Failures
// are logged, not surfaced; the quiz row is already durable.
func (s *service) fanOut(ctx context.Context, quiz domain.Quiz) {
	memberIDs, err := s.memberships.ListMemberUserIDs(ctx, quiz.CompanyID)
	if err != nil {
		s.log.Warn("member lookup for quiz fan-out failed",
			zap.String("quiz_id", quiz.ID.String()),
			zap.Error(err),
		)
		return
	}

	text := fmt.Sprintf(
		"There's a new quiz %s created by company %s. You should take it!",
		quiz.ID.String(), quiz.CompanyID.String(),
	)
	if err := s.notifications.NotifyAll(ctx, memberIDs, text); err != nil {
		s.log.Warn("quiz fan-out failed",
			zap.String("quiz_id", quiz.ID.String()),
			zap.Error(err),
		)
	}
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

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

func toResponse(quiz domain.Quiz) *domain.QuizResponse {
	return &domain.QuizResponse{
		ID:          quiz.ID.String(),
		CompanyID:   quiz.CompanyID.String(),
		Name:        quiz.Name,
		Description: quiz.Description,
		Frequency:   quiz.Frequency,
		Questions:   quiz.Questions,
		CreatedAt:   quiz.CreatedAt,
	}
}
