package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/internal/clock"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	"github.com/smallbiznis/quizhub/internal/membership/domain"
	"github.com/smallbiznis/quizhub/internal/permission"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"github.com/smallbiznis/quizhub/pkg/db"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"go.uber.org/zap"
)

type service struct {
	repo      domain.Repository
	companies companydomain.Repository
	users     userdomain.Repository
	genID     *snowflake.Node
	clock     clock.Clock
	log       *zap.Logger
}

func NewService(
	repo domain.Repository,
	companies companydomain.Repository,
	users userdomain.Repository,
	genID *snowflake.Node,
	clk clock.Clock,
	log *zap.Logger,
) domain.Service {
	return &service{
		repo:      repo,
		companies: companies,
		users:     users,
		genID:     genID,
		clock:     clk,
		log:       log.Named("membership.service"),
	}
}

func (s *service) SendInvitation(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "invite"); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, company.ID, user.ID)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		return s.create(ctx, company.ID, user.ID, domain.StatusInvited)
	case existing.Status == domain.StatusMember:
		return nil, domain.ErrMembershipExists
	case existing.Status == domain.StatusDeclined:
		return s.transition(ctx, existing, domain.StatusInvited)
	default:
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
}

func (s *service) CancelInvitation(ctx context.Context, actorID snowflake.ID, companyID, userID string) error {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "cancel invitations"); err != nil {
		return err
	}

	existing, err := s.mustGet(ctx, company.ID, user.ID)
	if err != nil {
		return err
	}
	if existing.Status != domain.StatusInvited {
		return &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.repo.Delete(ctx, existing.ID)
}

func (s *service) AcceptInvitation(ctx context.Context, actorID snowflake.ID, companyID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	existing, err := s.mustGet(ctx, company.ID, actorID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusInvited {
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.transition(ctx, existing, domain.StatusMember)
}

func (s *service) DeclineInvitation(ctx context.Context, actorID snowflake.ID, companyID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	existing, err := s.mustGet(ctx, company.ID, actorID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusInvited {
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.transition(ctx, existing, domain.StatusDeclined)
}

func (s *service) SendRequest(ctx context.Context, actorID snowflake.ID, companyID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, company.ID, actorID)
	if err != nil {
		return nil, err
	}

	switch {
	case existing == nil:
		return s.create(ctx, company.ID, actorID, domain.StatusRequested)
	case existing.Status == domain.StatusMember:
		return nil, domain.ErrMembershipExists
	case existing.Status == domain.StatusRejected:
		return s.transition(ctx, existing, domain.StatusRequested)
	default:
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
}

func (s *service) CancelRequest(ctx context.Context, actorID snowflake.ID, companyID string) error {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return err
	}

	existing, err := s.mustGet(ctx, company.ID, actorID)
	if err != nil {
		return err
	}
	if existing.Status != domain.StatusRequested {
		return &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.repo.Delete(ctx, existing.ID)
}

func (s *service) AcceptRequest(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "accept requests"); err != nil {
		return nil, err
	}

	existing, err := s.mustGet(ctx, company.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusRequested {
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.transition(ctx, existing, domain.StatusMember)
}

func (s *service) RejectRequest(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnerAdmin(ctx, company, actorID, "reject requests"); err != nil {
		return nil, err
	}

	existing, err := s.mustGet(ctx, company.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusRequested {
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.transition(ctx, existing, domain.StatusRejected)
}

func (s *service) AppointAdmin(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := permission.GrantOwner(company.OwnerID, actorID, "appoint admins"); err != nil {
		return nil, err
	}

	existing, err := s.mustGet(ctx, company.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusMember {
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.transition(ctx, existing, domain.StatusAdmin)
}

func (s *service) RemoveAdmin(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*domain.MembershipResponse, error) {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := permission.GrantOwner(company.OwnerID, actorID, "remove admins"); err != nil {
		return nil, err
	}

	existing, err := s.mustGet(ctx, company.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if existing.Status != domain.StatusAdmin {
		return nil, &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.transition(ctx, existing, domain.StatusMember)
}

func (s *service) RemoveMember(ctx context.Context, actorID snowflake.ID, companyID, userID string) error {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if err := permission.GrantOwner(company.OwnerID, actorID, "remove members"); err != nil {
		return err
	}

	existing, err := s.mustGet(ctx, company.ID, user.ID)
	if err != nil {
		return err
	}
	if existing.Status != domain.StatusMember {
		return &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.repo.Delete(ctx, existing.ID)
}

func (s *service) LeaveCompany(ctx context.Context, actorID snowflake.ID, companyID string) error {
	company, err := s.company(ctx, companyID)
	if err != nil {
		return err
	}

	existing, err := s.mustGet(ctx, company.ID, actorID)
	if err != nil {
		return err
	}
	if existing.Status != domain.StatusMember {
		return &domain.IncompatibleStateError{Current: existing.Status}
	}
	return s.repo.Delete(ctx, existing.ID)
}

func (s *service) Get(ctx context.Context, companyID, userID snowflake.ID) (*domain.Membership, error) {
	return s.repo.Get(ctx, companyID, userID)
}

func (s *service) ListUserInvitations(ctx context.Context, actorID snowflake.ID, userID string, page pagination.Page) ([]domain.MembershipResponse, error) {
	return s.listByUser(ctx, actorID, userID, domain.StatusInvited, page)
}

func (s *service) ListUserRequests(ctx context.Context, actorID snowflake.ID, userID string, page pagination.Page) ([]domain.MembershipResponse, error) {
	return s.listByUser(ctx, actorID, userID, domain.StatusRequested, page)
}

func (s *service) ListCompanyInvitations(ctx context.Context, actorID snowflake.ID, companyID string, page pagination.Page) ([]domain.MembershipResponse, error) {
	return s.listByCompany(ctx, &actorID, companyID, domain.StatusInvited, page)
}

func (s *service) ListCompanyRequests(ctx context.Context, actorID snowflake.ID, companyID string, page pagination.Page) ([]domain.MembershipResponse, error) {
	return s.listByCompany(ctx, &actorID, companyID, domain.StatusRequested, page)
}

func (s *service) ListCompanyMembers(ctx context.Context, companyID string, page pagination.Page) ([]domain.MembershipResponse, error) {
	return s.listByCompany(ctx, nil, companyID, domain.StatusMember, page)
}

func (s *service) ListCompanyAdmins(ctx context.Context, companyID string, page pagination.Page) ([]domain.MembershipResponse, error) {
	return s.listByCompany(ctx, nil, companyID, domain.StatusAdmin, page)
}

func (s *service) listByUser(ctx context.Context, actorID snowflake.ID, userID string, status domain.Status, page pagination.Page) ([]domain.MembershipResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := permission.GrantUser(user.ID, actorID, "list"); err != nil {
		return nil, err
	}

	memberships, err := s.repo.ListByUser(ctx, user.ID, status, page)
	if err != nil {
		return nil, err
	}
	return toResponses(memberships), nil
}

// listByCompany checks owner/admin permission only when an actor is
// given. Member and admin rosters are readable by anyone.
func (s *service) listByCompany(ctx context.Context, actorID *snowflake.ID, companyID string, status domain.Status, page pagination.Page) ([]domain.MembershipResponse, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	company, err := s.company(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		if err := s.requireOwnerAdmin(ctx, company, *actorID, "list"); err != nil {
			return nil, err
		}
	}

	memberships, err := s.repo.ListByCompany(ctx, company.ID, status, page)
	if err != nil {
		return nil, err
	}
	return toResponses(memberships), nil
}

func (s *service) create(ctx context.Context, companyID, userID snowflake.ID, status domain.Status) (*domain.MembershipResponse, error) {
	now := s.clock.Now()
	membership := domain.Membership{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		UserID:    userID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, membership); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrMembershipExists
		}
		return nil, err
	}

	s.log.Info("membership created",
		zap.String("company_id", companyID.String()),
		zap.String("user_id", userID.String()),
		zap.String("status", string(status)),
	)
	return toResponse(membership), nil
}

func (s *service) transition(ctx context.Context, membership *domain.Membership, status domain.Status) (*domain.MembershipResponse, error) {
	now := s.clock.Now()
	if err := s.repo.UpdateStatus(ctx, membership.ID, status, now); err != nil {
		return nil, err
	}

	s.log.Info("membership status changed",
		zap.String("company_id", membership.CompanyID.String()),
		zap.String("user_id", membership.UserID.String()),
		zap.String("from", string(membership.Status)),
		zap.String("to", string(status)),
	)

	updated := *membership
	updated.Status = status
	updated.UpdatedAt = now
	return toResponse(updated), nil
}

func (s *service) mustGet(ctx context.Context, companyID, userID snowflake.ID) (*domain.Membership, error) {
	existing, err := s.repo.Get(ctx, companyID, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrMembershipNotFound
	}
	return existing, nil
}

func (s *service) requireOwnerAdmin(ctx context.Context, company *companydomain.Company, actorID snowflake.ID, operation string) error {
	actorMembership, err := s.repo.Get(ctx, company.ID, actorID)
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

func toResponses(memberships []domain.Membership) []domain.MembershipResponse {
	resp := make([]domain.MembershipResponse, 0, len(memberships))
	for _, membership := range memberships {
		resp = append(resp, *toResponse(membership))
	}
	return resp
}

func toResponse(membership domain.Membership) *domain.MembershipResponse {
	return &domain.MembershipResponse{
		ID:        membership.ID.String(),
		CompanyID: membership.CompanyID.String(),
		UserID:    membership.UserID.String(),
		Status:    membership.Status,
		CreatedAt: membership.CreatedAt,
		UpdatedAt: membership.UpdatedAt,
	}
}
