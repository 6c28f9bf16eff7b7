// Package server wires the gin HTTP surface over the feature services.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/quizhub/internal/auth"
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	"github.com/smallbiznis/quizhub/internal/auth/session"
	"github.com/smallbiznis/quizhub/internal/company"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	"github.com/smallbiznis/quizhub/internal/config"
	"github.com/smallbiznis/quizhub/internal/membership"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	"github.com/smallbiznis/quizhub/internal/notification"
	notificationdomain "github.com/smallbiznis/quizhub/internal/notification/domain"
	obslogger "github.com/smallbiznis/quizhub/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/quizhub/internal/observability/metrics"
	"github.com/smallbiznis/quizhub/internal/quiz"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
	"github.com/smallbiznis/quizhub/internal/quizresult"
	resultdomain "github.com/smallbiznis/quizhub/internal/quizresult/domain"
	"github.com/smallbiznis/quizhub/internal/user"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	auth.Module,
	user.Module,
	company.Module,
	membership.Module,
	notification.Module,
	quiz.Module,
	quizresult.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obsmetrics.HTTP().GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	authsvc  authdomain.Service
	sessions *session.Manager

	usersvc         userdomain.Service
	companysvc      companydomain.Service
	membershipsvc   membershipdomain.Service
	quizsvc         quizdomain.Service
	resultsvc       resultdomain.Service
	notificationsvc notificationdomain.Service
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	Authsvc  authdomain.Service
	Sessions *session.Manager

	Usersvc         userdomain.Service
	Companysvc      companydomain.Service
	Membershipsvc   membershipdomain.Service
	Quizsvc         quizdomain.Service
	Resultsvc       resultdomain.Service
	Notificationsvc notificationdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authsvc:         p.Authsvc,
		sessions:        p.Sessions,
		usersvc:         p.Usersvc,
		companysvc:      p.Companysvc,
		membershipsvc:   p.Membershipsvc,
		quizsvc:         p.Quizsvc,
		resultsvc:       p.Resultsvc,
		notificationsvc: p.Notificationsvc,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/auth")

	auth.POST("/signup", s.Signup)
	auth.POST("/login", s.Login)
	auth.POST("/logout", s.Logout)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	// -------- Users --------
	api.GET("/users", s.ListUsers)
	api.GET("/users/:id", s.GetUserByID)
	api.PATCH("/users/:id", s.UpdateUser)
	api.DELETE("/users/:id", s.DeleteUser)

	// -------- Companies --------
	api.GET("/companies", s.ListCompanies)
	api.POST("/companies", s.CreateCompany)
	api.GET("/companies/:id", s.GetCompanyByID)
	api.PATCH("/companies/:id", s.UpdateCompany)
	api.DELETE("/companies/:id", s.DeleteCompany)

	// -------- Memberships --------
	// Transitions are verbs on the membership collection; lists hang
	// off the user or company they belong to.
	memberships := api.Group("/memberships")
	memberships.POST("/invite", s.SendInvitation)
	memberships.POST("/invite/cancel", s.CancelInvitation)
	memberships.POST("/invite/accept", s.AcceptInvitation)
	memberships.POST("/invite/decline", s.DeclineInvitation)
	memberships.POST("/request", s.SendRequest)
	memberships.POST("/request/cancel", s.CancelRequest)
	memberships.POST("/request/accept", s.AcceptRequest)
	memberships.POST("/request/reject", s.RejectRequest)
	memberships.POST("/admins/appoint", s.AppointAdmin)
	memberships.POST("/admins/remove", s.RemoveAdmin)
	memberships.POST("/members/remove", s.RemoveMember)
	memberships.POST("/leave", s.LeaveCompany)

	memberships.GET("/users/:id/invitations", s.ListUserInvitations)
	memberships.GET("/users/:id/requests", s.ListUserRequests)
	memberships.GET("/companies/:id/invitations", s.ListCompanyInvitations)
	memberships.GET("/companies/:id/requests", s.ListCompanyRequests)
	memberships.GET("/companies/:id/members", s.ListCompanyMembers)
	memberships.GET("/companies/:id/admins", s.ListCompanyAdmins)

	// -------- Quizzes --------
	api.POST("/quizzes", s.CreateQuiz)
	api.GET("/quizzes", s.ListQuizzes)
	api.GET("/quizzes/:id", s.GetQuizByID)
	api.PATCH("/quizzes/:id", s.UpdateQuiz)
	api.DELETE("/quizzes/:id", s.DeleteQuiz)
	api.POST("/quizzes/:id/answer", s.AnswerQuiz)
	// :id is the company here; the workbook decides create vs update.
	api.PUT("/quizzes/:id/import", s.ImportQuiz)

	// -------- Analytics --------
	analytics := api.Group("/analytics")
	analytics.GET("/users/:id/rating", s.GetUserRating)
	analytics.GET("/users/:id/companies/:companyID/rating", s.GetUserCompanyRating)
	analytics.GET("/my/dynamics", s.GetMyDynamics)
	analytics.GET("/my/latest-answers", s.GetMyLatestAnswers)
	analytics.GET("/companies/:id/dynamics", s.GetCompanyDynamics)
	analytics.GET("/companies/:id/members/:userID/dynamics", s.GetCompanyMemberDynamics)
	analytics.GET("/companies/:id/latest-answers", s.GetCompanyLatestAnswers)

	// -------- Results --------
	results := api.Group("/results")
	results.GET("/my", s.LatestMyResults)
	results.GET("/companies/:id", s.LatestCompanyResults)
	results.GET("/companies/:id/users/:userID", s.LatestCompanyUserResults)
	results.GET("/quizzes/:id", s.LatestQuizResults)

	// -------- Notifications --------
	api.GET("/notifications", s.ListNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)
	api.POST("/notifications/:id/unread", s.MarkNotificationUnread)
}
