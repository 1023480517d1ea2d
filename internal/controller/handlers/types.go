package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"go.uber.org/zap"
)

// ScheduleService операции над сеткой для команд администратора
type ScheduleService interface {
	Grid(ctx context.Context) (*model.Grid, error)
	Stats(ctx context.Context) (model.SlotStats, error)
}

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	scheduleService ScheduleService
	adminChatID     int64
	now             func() time.Time
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(scheduleService ScheduleService, adminChatID int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		scheduleService: scheduleService,
		adminChatID:     adminChatID,
		now:             time.Now,
		logger:          logger,
	}
}
