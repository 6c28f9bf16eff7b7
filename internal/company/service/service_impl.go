package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	"github.com/smallbiznis/quizhub/internal/company/domain"
	"github.com/smallbiznis/quizhub/internal/permission"
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
		log:   log.Named("company.service"),
	}
}

func (s *service) Create(ctx context.Context, ownerID snowflake.ID, req domain.CreateCompanyRequest) (*domain.CompanyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidCompany
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, domain.ErrCompanyNameExists
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	now := s.clock.Now()
	company := domain.Company{
		ID:          s.genID.Generate(),
		Name:        name,
		Description: req.Description,
		OwnerID:     ownerID,
		IsPublic:    isPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCompanyNameExists
		}
		return nil, err
	}

	s.log.Info("company created",
		zap.String("company_id", company.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return toResponse(company), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*domain.CompanyResponse, error) {
	companyID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return toResponse(*company), nil
}

func (s *service) List(ctx context.Context, actorID snowflake.ID, page pagination.Page) ([]domain.CompanyResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	companies, err := s.repo.List(ctx, actorID, page)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.CompanyResponse, 0, len(companies))
	for _, company := range companies {
		resp = append(resp, *toResponse(company))
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, actorID snowflake.ID, id string, req domain.UpdateCompanyRequest) (*domain.CompanyResponse, error) {
	companyID, err := parseID(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if err := permission.GrantOwner(company.OwnerID, actorID, "update"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidCompany
		}
		if name != company.Name {
			if _, err := s.repo.GetByName(ctx, name); err == nil {
				return nil, domain.ErrCompanyNameExists
			}
			company.Name = name
		}
	}
	if req.Description != nil {
		company.Description = *req.Description
	}
	if req.IsPublic != nil {
		company.IsPublic = *req.IsPublic
	}
	company.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, *company); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrCompanyNameExists
		}
		return nil, err
	}
	return toResponse(*company), nil
}

func (s *service) Delete(ctx context.Context, actorID snowflake.ID, id string) error {
	companyID, err := parseID(id)
	if err != nil {
		return domain.ErrCompanyNotFound
	}

	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if err := permission.GrantOwner(company.OwnerID, actorID, "delete"); err != nil {
		return err
	}
	return s.repo.Delete(ctx, companyID)
}

func parseID(raw string) (snowflake.ID, error) {
	return snowflake.ParseString(strings.TrimSpace(raw))
}

func toResponse(company domain.Company) *domain.CompanyResponse {
	return &domain.CompanyResponse{
		ID:          company.ID.String(),
		Name:        company.Name,
		Description: company.Description,
		OwnerID:     company.OwnerID.String(),
		IsPublic:    company.IsPublic,
		CreatedAt:   company.CreatedAt,
	}
}
