// Package permission holds the pure authorization checks shared by the
// feature services.
package permission

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
)

var ErrAccessDenied = errors.New("access_denied")

// GrantUser allows self-service actions only.
func GrantUser(subjectID, actorID snowflake.ID, operation string) error {
	if subjectID != actorID {
		return fmt.Errorf("%w: you are not allowed to %s other users' information", ErrAccessDenied, operation)
	}
	return nil
}

// GrantOwner allows the company owner only.
func GrantOwner(ownerID, actorID snowflake.ID, operation string) error {
	if ownerID != actorID {
		return fmt.Errorf("%w: you are not allowed to %s information for companies you're not an owner of", ErrAccessDenied, operation)
	}
	return nil
}

// GrantOwnerAdmin allows the company owner or an ADMIN member. When no
// membership row exists the check falls back to owner equality.
func GrantOwnerAdmin(ownerID snowflake.ID, membership *membershipdomain.Membership, actorID snowflake.ID, operation string) error {
	if membership == nil {
		return GrantOwner(ownerID, actorID, operation)
	}
	if membership.Status != membershipdomain.StatusAdmin {
		return fmt.Errorf("%w: you are not allowed to %s information for companies you're not an admin of", ErrAccessDenied, operation)
	}
	return nil
}
