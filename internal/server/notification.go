package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
)

func (s *Server) ListNotifications(c *gin.Context) {
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

	notifications, err := s.notificationsvc.ListOwn(c.Request.Context(), actor.ID, page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (s *Server) MarkNotificationRead(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	updated, err := s.notificationsvc.MarkRead(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) MarkNotificationUnread(c *gin.Context) {
	actor, ok := s.currentUser(c)
	if !ok {
		AbortWithError(c, authdomain.ErrUnauthorized)
		return
	}

	updated, err := s.notificationsvc.MarkUnread(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
