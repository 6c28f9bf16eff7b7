package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
)

func (s *Server) ListCompanies(c *gin.Context) {
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

	companies, err := s.companysvc.List(c.Request.Context(), actor.ID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) CreateCompany(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	var req companydomain.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.companysvc.Create(c.Request.Context(), actor.ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) GetCompanyByID(c *gin.Context) {
	found, err := s.companysvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) UpdateCompany(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	var req companydomain.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.companysvc.Update(c.Request.Context(), actor.ID, c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteCompany(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	if err := s.companysvc.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
