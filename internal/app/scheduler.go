package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SlotCloser закрывает все открытые слоты
type SlotCloser interface {
	CloseAll(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	closer  SlotCloser
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
}

// NewScheduler создаёт планировщик, который закрывает все слоты по cron выражению
func NewScheduler(closer SlotCloser, spec string, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		closer:  closer,
		cron:    cron.New(),
		timeout: time.Minute,
		logger:  logger,
	}

	if _, err := s.cron.AddFunc(spec, s.closeAll); err != nil {
		return nil, fmt.Errorf("parse reset cron %q: %w", spec, err)
	}

	return s, nil
}

// Start запускает фоновые задачи
func (s *Scheduler) Start() {
	s.logger.Info("Starting background scheduler")
	s.cron.Start()
}

// Stop останавливает фоновые задачи и ждёт завершения текущей
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

// Next время следующего запуска
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// closeAll выполняет сброс недели
func (s *Scheduler) closeAll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.logger.Info("Starting scheduled weekly reset")

	changed, err := s.closer.CloseAll(ctx)
	if err != nil {
		s.logger.Error("Failed to close slots", zap.Error(err))
		return
	}

	s.logger.Info("Scheduled weekly reset completed", zap.Int64("changed", changed))
}
