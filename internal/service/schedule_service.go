package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"go.uber.org/zap"
)

// Сетка по умолчанию: получасовые слоты с 07:00 до 20:00
const (
	DefaultGridStart    = "07:00"
	DefaultGridEnd      = "20:00"
	DefaultSlotDuration = 30 * time.Minute
)

type ScheduleService struct {
	slotRepo    SlotStore
	bookingRepo BookingStore
	logger      *zap.Logger
}

func NewScheduleService(slotRepo SlotStore, bookingRepo BookingStore, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Grid загружает все слоты и активные заявки и соединяет их в памяти
func (s *ScheduleService) Grid(ctx context.Context) (*model.Grid, error) {
	slots, err := s.slotRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}

	bookings, err := s.bookingRepo.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	grid := BuildGrid(slots, bookings)
	if len(grid.Orphaned) > 0 {
		s.logger.Warn("Pending bookings without reserved slot",
			zap.Int("count", len(grid.Orphaned)))
	}

	return grid, nil
}

// Stats считает слоты по статусам
func (s *ScheduleService) Stats(ctx context.Context) (model.SlotStats, error) {
	slots, err := s.slotRepo.List(ctx)
	if err != nil {
		return model.SlotStats{}, fmt.Errorf("list slots: %w", err)
	}

	grid := BuildGrid(slots, nil)
	return grid.Stats(), nil
}

// ToggleAvailability переключает слот между disponible и no_disponible.
// Зарезервированный слот и слот с неразобранной заявкой не меняются.
func (s *ScheduleService) ToggleAvailability(ctx context.Context, slotID int64) (model.SlotStatus, error) {
	status, ok, err := s.slotRepo.ToggleAvailability(ctx, slotID)
	if err != nil {
		return "", fmt.Errorf("toggle slot: %w", err)
	}

	if !ok {
		slot, err := s.slotRepo.GetByID(ctx, slotID)
		if err != nil {
			return "", fmt.Errorf("get slot: %w", err)
		}
		if slot == nil {
			return "", ErrSlotNotFound
		}
		return "", ErrSlotReserved
	}

	s.logger.Info("Slot availability toggled",
		zap.Int64("slot_id", slotID),
		zap.String("status", string(status)),
	)

	return status, nil
}

// CloseAll закрывает все слоты, которые ещё не закрыты. Заявки не удаляются.
func (s *ScheduleService) CloseAll(ctx context.Context) (int64, error) {
	changed, err := s.slotRepo.CloseAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("close all slots: %w", err)
	}

	s.logger.Info("All slots closed", zap.Int64("changed", changed))

	return changed, nil
}

// SeedDefaultGrid создаёт недостающие слоты стандартной сетки в статусе no_disponible
func (s *ScheduleService) SeedDefaultGrid(ctx context.Context) (int, error) {
	slots, err := DefaultGridSlots(DefaultGridStart, DefaultGridEnd, DefaultSlotDuration)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, slot := range slots {
		ok, err := s.slotRepo.CreateIfMissing(ctx, slot)
		if err != nil {
			return created, fmt.Errorf("seed slot %s: %w", slot.Label(), err)
		}
		if ok {
			created++
		}
	}

	s.logger.Info("Default grid seeded",
		zap.Int("created", created),
		zap.Int("total", len(slots)),
	)

	return created, nil
}

// DefaultGridSlots строит слоты для всех дней сетки.
// Последний слот начинается ровно в last.
func DefaultGridSlots(first, last string, step time.Duration) ([]*model.Slot, error) {
	start, err := model.ParseClock(first)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseClock(last)
	if err != nil {
		return nil, err
	}
	if step <= 0 || end.Before(start) {
		return nil, fmt.Errorf("invalid grid range %s-%s", first, last)
	}

	var slots []*model.Slot
	for _, day := range model.Weekdays {
		for t := start; !t.After(end); t = t.Add(step) {
			slots = append(slots, &model.Slot{
				Weekday:   day,
				StartTime: t.Format("15:04"),
				EndTime:   t.Add(step).Format("15:04"),
				Status:    model.SlotStatusUnavailable,
			})
		}
	}

	return slots, nil
}
