package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

var (
	ErrMembershipNotFound = errors.New("membership_not_found")
	ErrMembershipExists   = errors.New("membership_already_exists")
	ErrIncompatibleState  = errors.New("incompatible_membership_state")
)

// IncompatibleStateError wraps ErrIncompatibleState with the status the
// row actually held when the transition was attempted.
type IncompatibleStateError struct {
	Current Status
}

func (e *IncompatibleStateError) Error() string {
	return fmt.Sprintf("operation not allowed while membership status is %s", e.Current)
}

func (e *IncompatibleStateError) Unwrap() error { return ErrIncompatibleState }

type Service interface {
	SendInvitation(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*MembershipResponse, error)
	CancelInvitation(ctx context.Context, actorID snowflake.ID, companyID, userID string) error
	AcceptInvitation(ctx context.Context, actorID snowflake.ID, companyID string) (*MembershipResponse, error)
	DeclineInvitation(ctx context.Context, actorID snowflake.ID, companyID string) (*MembershipResponse, error)
	SendRequest(ctx context.Context, actorID snowflake.ID, companyID string) (*MembershipResponse, error)
	CancelRequest(ctx context.Context, actorID snowflake.ID, companyID string) error
	AcceptRequest(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*MembershipResponse, error)
	RejectRequest(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*MembershipResponse, error)
	AppointAdmin(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*MembershipResponse, error)
	RemoveAdmin(ctx context.Context, actorID snowflake.ID, companyID, userID string) (*MembershipResponse, error)
	RemoveMember(ctx context.Context, actorID snowflake.ID, companyID, userID string) error
	LeaveCompany(ctx context.Context, actorID snowflake.ID, companyID string) error

	Get(ctx context.Context, companyID, userID snowflake.ID) (*Membership, error)
	ListUserInvitations(ctx context.Context, actorID snowflake.ID, userID string, page pagination.Page) ([]MembershipResponse, error)
	ListUserRequests(ctx context.Context, actorID snowflake.ID, userID string, page pagination.Page) ([]MembershipResponse, error)
	ListCompanyInvitations(ctx context.Context, actorID snowflake.ID, companyID string, page pagination.Page) ([]MembershipResponse, error)
	ListCompanyRequests(ctx context.Context, actorID snowflake.ID, companyID string, page pagination.Page) ([]MembershipResponse, error)
	ListCompanyMembers(ctx context.Context, companyID string, page pagination.Page) ([]MembershipResponse, error)
	ListCompanyAdmins(ctx context.Context, companyID string, page pagination.Page) ([]MembershipResponse, error)
}

type MembershipResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	UserID    string    `json:"user_id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
