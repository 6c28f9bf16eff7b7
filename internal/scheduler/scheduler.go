// Package scheduler runs the periodic quiz reminder sweep. The sweep
// is stateless: everything it needs is re-read each run and the only
// persisted outcome is Notification rows, so overlap with live
// requests is tolerated at-least-once.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/quizhub/internal/clock"
	companydomain "github.com/smallbiznis/quizhub/internal/company/domain"
	membershipdomain "github.com/smallbiznis/quizhub/internal/membership/domain"
	notificationdomain "github.com/smallbiznis/quizhub/internal/notification/domain"
	obsmetrics "github.com/smallbiznis/quizhub/internal/observability/metrics"
	quizdomain "github.com/smallbiznis/quizhub/internal/quiz/domain"
	resultdomain "github.com/smallbiznis/quizhub/internal/quizresult/domain"
	"github.com/smallbiznis/quizhub/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log           *zap.Logger
	Companies     companydomain.Repository
	Memberships   membershipdomain.Repository
	Quizzes       quizdomain.Repository
	Results       resultdomain.Repository
	Notifications notificationdomain.Service
	Clock         clock.Clock
	Config        Config `optional:"true"`
}

type Scheduler struct {
	log           *zap.Logger
	cfg           Config
	companies     companydomain.Repository
	memberships   membershipdomain.Repository
	quizzes       quizdomain.Repository
	results       resultdomain.Repository
	notifications notificationdomain.Service
	clock         clock.Clock
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Companies == nil || p.Memberships == nil || p.Quizzes == nil || p.Results == nil || p.Notifications == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:           p.Config.withDefaults(),
		companies:     p.Companies,
		memberships:   p.Memberships,
		quizzes:       p.Quizzes,
		results:       p.Results,
		notifications: p.Notifications,
		clock:         p.Clock,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	schedMetrics.IncJobError(name, err)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", s.cfg.JobTimeout),
		)
		return err
	}
	s.log.Warn("job failed", zap.String("job", name), zap.Error(err))
	return err
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, "reminder_sweep", s.ReminderSweepJob)
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		runLag := time.Since(nextRun)
		if runLag > 0 {
			schedMetrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ReminderSweepJob notifies every member of every company about
// quizzes they never took, or took longer ago than the quiz frequency
// allows.
func (s *Scheduler) ReminderSweepJob(ctx context.Context) error {
	now := s.clock.Now()

	companies, err := s.companies.ListAll(ctx)
	if err != nil {
		return err
	}

	sent := 0
	for _, company := range companies {
		count, err := s.sweepCompany(ctx, company, now)
		if err != nil {
			return err
		}
		sent += count
	}

	obsmetrics.Scheduler().AddRemindersSent(sent)
	s.log.Info("reminder sweep finished",
		zap.Int("companies", len(companies)),
		zap.Int("reminders", sent),
	)
	return nil
}

func (s *Scheduler) sweepCompany(ctx context.Context, company companydomain.Company, now time.Time) (int, error) {
	memberIDs, err := s.memberships.ListMemberUserIDs(ctx, company.ID)
	if err != nil {
		return 0, err
	}
	if len(memberIDs) == 0 {
		return 0, nil
	}

	quizzes, err := s.quizzes.ListByCompany(ctx, company.ID, pagination.Unbounded())
	if err != nil {
		return 0, err
	}
	if len(quizzes) == 0 {
		return 0, nil
	}

	results, err := s.results.ListByCompany(ctx, company.ID)
	if err != nil {
		return 0, err
	}
	grouped := resultdomain.GroupByUser(results)

	sent := 0
	for _, memberID := range memberIDs {
		latest := latestAnswerTimes(grouped[memberID])

		for _, quiz := range quizzes {
			answeredAt, taken := latest[quiz.ID.String()]
			switch {
			case !taken:
				text := fmt.Sprintf(
					"You haven't ever taken quiz %s from company %s. Please take it.",
					quiz.ID.String(), company.ID.String(),
				)
				if err := s.notifications.Notify(ctx, memberID, text); err != nil {
					return sent, err
				}
				sent++
			case daysBetween(answeredAt, now) >= quiz.Frequency:
				text := fmt.Sprintf(
					"You haven't taken quiz %s from company %s in a long time. Please take it.",
					quiz.ID.String(), company.ID.String(),
				)
				if err := s.notifications.Notify(ctx, memberID, text); err != nil {
					return sent, err
				}
				sent++
			}
		}
	}
	return sent, nil
}

func latestAnswerTimes(results []resultdomain.QuizResult) map[string]time.Time {
	answers := resultdomain.FindLatestAnswers(results)
	latest := make(map[string]time.Time, len(answers))
	for _, answer := range answers {
		latest[answer.QuizID] = answer.Time
	}
	return latest
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
