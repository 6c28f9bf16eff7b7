package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
)

// importFormField is the multipart field carrying the xlsx workbook.
const importFormField = "quiz_table"

type createQuizRequest struct {
	CompanyID string `json:"company_id"`
	quizdomain.CreateQuizRequest
}

func (s *Server) CreateQuiz(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if req.CompanyID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.quizsvc.Create(c.Request.Context(), actor.ID, req.CompanyID, req.CreateQuizRequest)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) ListQuizzes(c *gin.Context) {
	companyID := c.Query("company_id")
	if companyID == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	page, err := parsePage(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	quizzes, err := s.quizsvc.ListByCompany(c.Request.Context(), companyID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": quizzes})
}

func (s *Server) GetQuizByID(c *gin.Context) {
	found, err := s.quizsvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (s *Server) UpdateQuiz(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	var req quizdomain.UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	updated, err := s.quizsvc.Update(c.Request.Context(), actor.ID, c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteQuiz(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	if err := s.quizsvc.Delete(c.Request.Context(), actor.ID, c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type answerQuizRequest struct {
	Answers [][]int `json:"answers"`
}

func (s *Server) AnswerQuiz(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	var req answerQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.resultsvc.AddResult(c.Request.Context(), actor.ID, c.Param("id"), req.Answers)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ImportQuiz creates or updates a quiz from an uploaded xlsx workbook.
// The path id is the company the quiz belongs to.
func (s *Server) ImportQuiz(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile(importFormField)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	defer file.Close()

	imported, err := s.quizsvc.ImportWorkbook(c.Request.Context(), actor.ID, c.Param("id"), file)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, imported)
}
