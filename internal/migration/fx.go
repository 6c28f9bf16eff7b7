package migration

import (
	authdomain "github.com/smallbiznis/quizhub/internal/auth/domain"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	"github.com/smallbiznis/quizhub/internal/config"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/quizhub/internal/notification/domain"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
	resultdomain "github.com/smallbiznis/quizhub/internal/quizresult/domain"
	userdomain "github.com/smallbiznis/quizhub/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The versioned SQL targets postgres. Other dialects (the
		// sqlite dev mode) fall back to schema sync from the models.
		if cfg.DBType != "postgres" {
			return conn.AutoMigrate(
				&userdomain.User{},
				&authdomain.Session{},
				&companydomain.Company{},
				&membershipdomain.Membership{},
				&quizdomain.Quiz{},
				&resultdomain.QuizResult{},
				&notificationdomain.Notification{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
