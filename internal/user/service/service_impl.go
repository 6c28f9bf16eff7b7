package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/auth/password"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/permission"
	"github.com/smallbiznis/quizhub/internal/user/domain"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
	clock clock.Clock
	log   *zap.Logger
}

func NewService(repo domain.Repository, genID *snowflake.Node, clk clock.Clock, log *zap.Logger) domain.Service {
	return &service{
		repo:  repo,
		genID: genID,
		clock: clk,
		log:   log.Named("user.service"),
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return nil, domain.ErrInvalidUser
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailExists
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, domain.ErrUsernameExists
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := domain.User{
		ID:           s.genID.Generate(),
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()))
	return toResponse(user), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.UserResponse, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(*user), nil
}

func (s *service) List(ctx context.Context, page pagination.Page) ([]domain.UserResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	users, err := s.repo.List(ctx, page)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, *toResponse(user))
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, actorID snowflake.ID, id string, req domain.UpdateUserRequest) (*domain.UserResponse, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	if err := permission.GrantUser(userID, actorID, "update"); err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Password != nil {
		hash, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *user); err != nil {
		return nil, err
	}
	return toResponse(*user), nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, id string) error {
	userID, err := parseID(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	if err := permission.GrantUser(userID, actorID, "delete"); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, userID)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

func toResponse(user domain.User) *domain.UserResponse {
	return &domain.UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		Disabled:  user.Disabled,
		CreatedAt: user.CreatedAt,
	}
}
