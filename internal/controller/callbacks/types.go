package callbacks

import (
	"context"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"go.uber.org/zap"
)

// ScheduleService операции над сеткой, доступные из кнопок
type ScheduleService interface {
	CloseAll(ctx context.Context) (int64, error)
}

// BookingService операции над заявками, доступные из кнопок
type BookingService interface {
	Resolve(ctx context.Context, slotID int64, next model.SlotStatus) error
}

// Handler обработчик нажатий на inline кнопки
type Handler struct {
	ScheduleService ScheduleService
	BookingService  BookingService
	Logger          *zap.Logger
}

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(scheduleService ScheduleService, bookingService BookingService, logger *zap.Logger) *Handler {
	return &Handler{
		ScheduleService: scheduleService,
		BookingService:  bookingService,
		Logger:          logger,
	}
}
