package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

// membershipActionRequest addresses a membership by its company and,
// for owner/admin actions, the target user.
type membershipActionRequest struct {
	CompanyID string `json:"company_id"`
	UserID    string `json:"user_id"`
}

func (s *Server) bindMembershipAction(c *gin.Context, needUser bool) (snowflake.ID, membershipActionRequest, bool) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return 0, membershipActionRequest{}, false
	}

	var req membershipActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return 0, req, false
	}
	if req.CompanyID == "" || (needUser && req.UserID == "") {
		AbortWithError(c, ErrInvalidRequest)
		return 0, req, false
	}
	return actor.ID, req, true
}

func (s *Server) SendInvitation(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, true)
	if !ok {
		return
	}
	created, err := s.membershipsvc.SendInvitation(c.Request.Context(), actorID, req.CompanyID, req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) CancelInvitation(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, true)
	if !ok {
		return
	}
	if err := s.membershipsvc.CancelInvitation(c.Request.Context(), actorID, req.CompanyID, req.UserID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (s *Server) AcceptInvitation(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, false)
	if !ok {
		return
	}
	updated, err := s.membershipsvc.AcceptInvitation(c.Request.Context(), actorID, req.CompanyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeclineInvitation(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, false)
	if !ok {
		return
	}
	updated, err := s.membershipsvc.DeclineInvitation(c.Request.Context(), actorID, req.CompanyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) SendRequest(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, false)
	if !ok {
		return
	}
	created, err := s.membershipsvc.SendRequest(c.Request.Context(), actorID, req.CompanyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) CancelRequest(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, false)
	if !ok {
		return
	}
	if err := s.membershipsvc.CancelRequest(c.Request.Context(), actorID, req.CompanyID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (s *Server) AcceptRequest(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, true)
	if !ok {
		return
	}
	updated, err := s.membershipsvc.AcceptRequest(c.Request.Context(), actorID, req.CompanyID, req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) RejectRequest(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, true)
	if !ok {
		return
	}
	updated, err := s.membershipsvc.RejectRequest(c.Request.Context(), actorID, req.CompanyID, req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) AppointAdmin(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, true)
	if !ok {
		return
	}
	updated, err := s.membershipsvc.AppointAdmin(c.Request.Context(), actorID, req.CompanyID, req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) RemoveAdmin(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, true)
	if !ok {
		return
	}
	updated, err := s.membershipsvc.RemoveAdmin(c.Request.Context(), actorID, req.CompanyID, req.UserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) RemoveMember(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, true)
	if !ok {
		return
	}
	if err := s.membershipsvc.RemoveMember(c.Request.Context(), actorID, req.CompanyID, req.UserID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (s *Server) LeaveCompany(c *gin.Context) {
	actorID, req, ok := s.bindMembershipAction(c, false)
	if !ok {
		return
	}
	if err := s.membershipsvc.LeaveCompany(c.Request.Context(), actorID, req.CompanyID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

type membershipList func(ctx *gin.Context, actorID snowflake.ID, id string, page pagination.Page) ([]membershipdomain.MembershipResponse, error)

func (s *Server) listMemberships(c *gin.Context, list membershipList) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}
	page, err := parsePage(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	memberships, err := list(c, actor.ID, c.Param("id"), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

func (s *Server) ListUserInvitations(c *gin.Context) {
	s.listMemberships(c, func(ctx *gin.Context, actorID snowflake.ID, id string, page pagination.Page) ([]membershipdomain.MembershipResponse, error) {
		return s.membershipsvc.ListUserInvitations(ctx.Request.Context(), actorID, id, page)
	})
}

func (s *Server) ListUserRequests(c *gin.Context) {
	s.listMemberships(c, func(ctx *gin.Context, actorID snowflake.ID, id string, page pagination.Page) ([]membershipdomain.MembershipResponse, error) {
		return s.membershipsvc.ListUserRequests(ctx.Request.Context(), actorID, id, page)
	})
}

func (s *Server) ListCompanyInvitations(c *gin.Context) {
	s.listMemberships(c, func(ctx *gin.Context, actorID snowflake.ID, id string, page pagination.Page) ([]membershipdomain.MembershipResponse, error) {
		return s.membershipsvc.ListCompanyInvitations(ctx.Request.Context(), actorID, id, page)
	})
}

func (s *Server) ListCompanyRequests(c *gin.Context) {
	s.listMemberships(c, func(ctx *gin.Context, actorID snowflake.ID, id string, page pagination.Page) ([]membershipdomain.MembershipResponse, error) {
		return s.membershipsvc.ListCompanyRequests(ctx.Request.Context(), actorID, id, page)
	})
}

func (s *Server) ListCompanyMembers(c *gin.Context) {
	s.listMemberships(c, func(ctx *gin.Context, _ snowflake.ID, id string, page pagination.Page) ([]membershipdomain.MembershipResponse, error) {
		return s.membershipsvc.ListCompanyMembers(ctx.Request.Context(), id, page)
	})
}

func (s *Server) ListCompanyAdmins(c *gin.Context) {
	s.listMemberships(c, func(ctx *gin.Context, _ snowflake.ID, id string, page pagination.Page) ([]membershipdomain.MembershipResponse, error) {
		return s.membershipsvc.ListCompanyAdmins(ctx.Request.Context(), id, page)
	})
}
