package holiday

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler re-imports the ICS feed for the current and next year on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	service Service
	feedURL string
	now     func() time.Time
	logger  *zap.Logger
}

func NewScheduler(service Service, schedule, feedURL string, logger ...*zap.Logger) (*Scheduler, error) {
	l := zap.L().Named("holiday.scheduler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.scheduler")
	}
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		service: service,
		feedURL: feedURL,
		now:     time.Now,
		logger:  l,
	}
	if _, err := s.cron.AddFunc(schedule, s.tick); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.logger.Info("holiday import scheduled", zap.String("feed_url", s.feedURL))
	s.cron.Start()
}

// Stop waits for a running import to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
	defer cancel()
	s.RunOnce(ctx)
}

func (s *Scheduler) RunOnce(ctx context.Context) []ImportResult {
	year := s.now().Year()
	results := make([]ImportResult, 0, 2)
	for _, y := range []int{year, year + 1} {
		result, err := s.service.Import(ctx, ImportRequest{
			Source:   SourceICS,
			Year:     y,
			URL:      s.feedURL,
			Operator: "scheduler",
		})
		if err != nil {
			s.logger.Error("scheduled holiday import failed", zap.Int("year", y), zap.Error(err))
			continue
		}
		results = append(results, result)
	}
	return results
}
