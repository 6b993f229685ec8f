package service

import (
	"context"
	"time"

	apprepository "github.com/suwityarat/portfolio/internal/app/repository"
	"go.uber.org/zap"
)

const defaultSweepInterval = 30 * time.Second

// DeliverySweeper periodically marks ledger rows stuck in pending as failed,
// which surfaces consumers that died mid-send.
type DeliverySweeper struct {
	logger   *zap.Logger
	repo     apprepository.DeliveryRepository
	ttl      time.Duration
	interval time.Duration
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewDeliverySweeper creates a sweeper that fails rows pending longer than ttl.
func NewDeliverySweeper(logger *zap.Logger, repo apprepository.DeliveryRepository, ttl time.Duration) *DeliverySweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeliverySweeper{
		logger:   logger,
		repo:     repo,
		ttl:      ttl,
		interval: defaultSweepInterval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
	}
}

// Start begins the periodic sweep.
func (s *DeliverySweeper) Start() {
	go s.run()
}

// Stop stops the periodic sweep and waits for it to exit.
func (s *DeliverySweeper) Stop() {
	close(s.stopChan)
	<-s.doneChan
}

func (s *DeliverySweeper) run() {
	defer close(s.doneChan)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopChan:
			s.logger.Info("delivery sweeper stopped")
			return
		}
	}
}

// Sweep runs one pass and returns how many rows were failed.
func (s *DeliverySweeper) Sweep(ctx context.Context) int64 {
	updatedBefore := time.Now().Add(-s.ttl)

	affected, err := s.repo.FailStalePending(ctx, updatedBefore)
	if err != nil {
		s.logger.Error("failed to fail stale pending deliveries", zap.Error(err))
		return 0
	}

	if affected > 0 {
		s.logger.Warn("marked stalled contact deliveries as failed",
			zap.Int64("count", affected),
			zap.Time("updated_before", updatedBefore),
		)
	}
	return affected
}
