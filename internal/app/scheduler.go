package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/escape_bot/internal/model"
	"go.uber.org/zap"
)

// WaitlistSweeper операции над очередями, которые планировщик запускает периодически
type WaitlistSweeper interface {
	PromoteOrphaned(ctx context.Context, now time.Time) ([]*model.Reservation, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// PromotionNotifier сообщает участникам о бронированиях, полученных из очереди
type PromotionNotifier interface {
	NotifyPromoted(ctx context.Context, reservation *model.Reservation)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper  WaitlistSweeper
	notifier PromotionNotifier
	interval time.Duration
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
	stopChan chan struct{}
	done     chan struct{}
}

// NewScheduler создаёт новый планировщик. notifier может быть nil.
func NewScheduler(
	sweeper WaitlistSweeper,
	notifier PromotionNotifier,
	interval time.Duration,
	location *time.Location,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		sweeper:  sweeper,
		notifier: notifier,
		interval: interval,
		location: location,
		now:      time.Now,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runSweepTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
	<-s.done
}

// runSweepTask периодически продвигает очереди освободившихся слотов
func (s *Scheduler) runSweepTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Sweep task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Sweep task cancelled")
			return
		}
	}
}

// sweep удаляет просроченные заявки и отдаёт свободные слоты первым в очереди
func (s *Scheduler) sweep(ctx context.Context) {
	now := s.now().In(s.location)

	if _, err := s.sweeper.DeleteExpired(ctx, now); err != nil {
		s.logger.Error("Failed to delete expired waitings", zap.Error(err))
	}

	promoted, err := s.sweeper.PromoteOrphaned(ctx, now)
	if err != nil {
		s.logger.Error("Failed to promote some waitings", zap.Error(err))
	}
	if len(promoted) == 0 {
		return
	}
	s.logger.Info("Waitings promoted by sweep", zap.Int("count", len(promoted)))

	if s.notifier == nil {
		return
	}
	for _, reservation := range promoted {
		s.notifier.NotifyPromoted(ctx, reservation)
	}
}
