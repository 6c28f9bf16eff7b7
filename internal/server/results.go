package server

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	resultdomain "github.com/smallbiznis/quizhub/internal/quizresult/domain"
)

// respondResults returns the result list as JSON, or as a downloadable
// CSV file when ?csv=true.
func (s *Server) respondResults(c *gin.Context, results []resultdomain.ResultDetails, prefix string) {
	if !wantsCSV(c) {
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	path, err := s.resultsvc.ExportCSV(results, prefix)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

func (s *Server) LatestMyResults(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	results, err := s.resultsvc.LatestUserResults(c.Request.Context(), actor.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.respondResults(c, results, "user_"+actor.ID.String())
}

func (s *Server) LatestCompanyResults(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	companyID := c.Param("id")
	results, err := s.resultsvc.LatestCompanyResults(c.Request.Context(), actor.ID, companyID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.respondResults(c, results, "company_"+companyID)
}

func (s *Server) LatestCompanyUserResults(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	companyID := c.Param("id")
	userID := c.Param("userID")
	results, err := s.resultsvc.LatestCompanyUserResults(c.Request.Context(), actor.ID, companyID, userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.respondResults(c, results, "company_"+companyID+"_user_"+userID)
}

func (s *Server) LatestQuizResults(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	quizID := c.Param("id")
	results, err := s.resultsvc.LatestQuizResults(c.Request.Context(), actor.ID, quizID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.respondResults(c, results, "quiz_"+quizID)
}
