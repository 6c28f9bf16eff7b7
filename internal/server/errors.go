package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/quizhub/internal/notification/domain"
	"github.com/smallbiznis/quizhub/internal/permission"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
	resultdomain "github.com/smallbiznis/quizhub/internal/quizresult/domain"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
)

var ErrInvalidRequest = errors.New("invalid_request")

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// ErrorHandlingMiddleware turns the last gin error into a JSON
// response. Handlers push domain errors with AbortWithError and never
// write error bodies themselves.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, pagination.ErrInvalidParameter),
		errors.Is(err, userdomain.ErrInvalidUser),
		errors.Is(err, companydomain.ErrInvalidCompany),
		errors.Is(err, quizdomain.ErrInvalidQuiz),
		errors.Is(err, resultdomain.ErrIncompleteQuiz):
		return http.StatusBadRequest, payload("validation_error", err)

	case errors.Is(err, authdomain.ErrUnauthorized),
		errors.Is(err, authdomain.ErrIncorrectPassword),
		errors.Is(err, authdomain.ErrInactiveUser):
		return http.StatusUnauthorized, payload("unauthorized", err)

	case errors.Is(err, permission.ErrAccessDenied):
		return http.StatusForbidden, payload("forbidden", err)

	case errors.Is(err, userdomain.ErrUserNotFound),
		errors.Is(err, companydomain.ErrCompanyNotFound),
		errors.Is(err, membershipdomain.ErrMembershipNotFound),
		errors.Is(err, quizdomain.ErrQuizNotFound),
		errors.Is(err, notificationdomain.ErrNotificationNotFound),
		errors.Is(err, resultdomain.ErrResultsNotFound):
		return http.StatusNotFound, payload("not_found", err)

	case errors.Is(err, userdomain.ErrEmailExists),
		errors.Is(err, userdomain.ErrUsernameExists),
		errors.Is(err, companydomain.ErrCompanyNameExists),
		errors.Is(err, membershipdomain.ErrMembershipExists),
		errors.Is(err, membershipdomain.ErrIncompatibleState):
		return http.StatusConflict, payload("conflict", err)

	case errors.Is(err, quizdomain.ErrUnsupportedFileFormat):
		return http.StatusUnprocessableEntity, payload("unsupported_file_format", err)

	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func payload(kind string, err error) errorPayload {
	return errorPayload{Type: kind, Message: err.Error()}
}
