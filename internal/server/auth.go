package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
)

func (s *Server) Signup(c *gin.Context) {
	var req userdomain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	created, err := s.usersvc.Signup(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) Login(c *gin.Context) {
	var req authdomain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	req.UserAgent = c.Request.UserAgent()
	req.IPAddress = c.ClientIP()

	result, err := s.authsvc.Login(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.SessionToken, result.SessionExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"access_token": result.BearerToken,
		"token_type":   "bearer",
		"expires_at":   result.BearerExpiresAt,
		"user": gin.H{
			"id":       result.User.ID.String(),
			"name":     result.User.Name,
			"username": result.User.Username,
			"email":    result.User.Email,
		},
	})
}

func (s *Server) Logout(c *gin.Context) {
	if token, ok := s.sessions.ReadToken(c); ok {
		if err := s.authsvc.Logout(c.Request.Context(), token); err != nil {
			AbortWithError(c, err)
			return
		}
	}
	s.sessions.Clear(c)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Me(c *gin.Context) {
	user, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}
	c.JSON(http.StatusOK, user)
}
