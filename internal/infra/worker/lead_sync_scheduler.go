package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type LeadSyncer interface {
	Execute(ctx context.Context) (*usecase.SyncLeadsOutput, error)
}

// LeadSyncScheduler dispara o sync de leads do chatbot na agenda do cron.
// Substitui o script externo que chamava GET /leads/update/bot.
type LeadSyncScheduler struct {
	syncer   LeadSyncer
	schedule string
	loc      *time.Location
	timeout  time.Duration
	logger   *zap.Logger
}

func NewLeadSyncScheduler(syncer LeadSyncer, schedule string, loc *time.Location, logger *zap.Logger) (*LeadSyncScheduler, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid lead sync schedule %q: %w", schedule, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LeadSyncScheduler{
		syncer:   syncer,
		schedule: schedule,
		loc:      loc,
		timeout:  2 * time.Minute,
		logger:   logger,
	}, nil
}

// Start bloqueia até o ctx ser cancelado e espera o job em andamento terminar.
func (s *LeadSyncScheduler) Start(ctx context.Context) error {
	c := cron.New(
		cron.WithLocation(s.loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	if _, err := c.AddFunc(s.schedule, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduling lead sync: %w", err)
	}

	s.logger.Info("lead sync scheduler started", zap.String("schedule", s.schedule))
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	s.logger.Info("lead sync scheduler stopped")
	return nil
}

func (s *LeadSyncScheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	out, err := s.syncer.Execute(ctx)
	if err != nil {
		s.logger.Error("scheduled lead sync failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled lead sync finished",
		zap.Int("fetched", out.Fetched),
		zap.Int("inserted", out.Inserted),
		zap.Int("duplicates", out.Duplicates),
		zap.Duration("took", time.Since(start)),
	)
}
