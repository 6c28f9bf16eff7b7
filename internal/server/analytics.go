package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
)

func (s *Server) GetUserRating(c *gin.Context) {
	rating, err := s.resultsvc.GetUserRating(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (s *Server) GetUserCompanyRating(c *gin.Context) {
	rating, err := s.resultsvc.GetUserCompanyRating(c.Request.Context(), c.Param("id"), c.Param("companyID"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

func (s *Server) GetMyDynamics(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	dynamics, err := s.resultsvc.GetUserDynamics(c.Request.Context(), actor.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dynamics": dynamics})
}

func (s *Server) GetMyLatestAnswers(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	answers, err := s.resultsvc.GetUserLatestAnswers(c.Request.Context(), actor.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"latest_answers": answers})
}

func (s *Server) GetCompanyDynamics(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	dynamics, err := s.resultsvc.GetCompanyDynamics(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dynamics": dynamics})
}

func (s *Server) GetCompanyMemberDynamics(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	dynamics, err := s.resultsvc.GetCompanyMemberDynamics(c.Request.Context(), actor.ID, c.Param("id"), c.Param("userID"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dynamics": dynamics})
}

func (s *Server) GetCompanyLatestAnswers(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	answers, err := s.resultsvc.GetCompanyLatestAnswers(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"latest_answers": answers})
}
