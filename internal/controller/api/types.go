package api

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
)

// ScheduleService операции над сеткой
type ScheduleService interface {
	Grid(ctx context.Context) (*model.Grid, error)
	Stats(ctx context.Context) (model.SlotStats, error)
	ToggleAvailability(ctx context.Context, slotID int64) (model.SlotStatus, error)
	CloseAll(ctx context.Context) (int64, error)
}

// BookingService операции над заявками
type BookingService interface {
	Reserve(ctx context.Context, slotID int64, info model.StudentInfo) (*model.Booking, error)
	Resolve(ctx context.Context, slotID int64, next model.SlotStatus) error
}

// AuthService вход и проверка токенов администратора
type AuthService interface {
	Login(ctx context.Context, username, password string) (*service.AccessToken, error)
	Verify(ctx context.Context, token string) (*service.AdminClaims, error)
	Logout(ctx context.Context, claims *service.AdminClaims) error
}

// Pinger проверка доступности базы
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReserveRequest тело запроса на запись
type ReserveRequest struct {
	StudentName    string `json:"student_name" binding:"required,max=120"`
	StudentProgram string `json:"student_program" binding:"required,max=120"`
	Email          string `json:"email" binding:"omitempty,email,max=254"`
	Phone          string `json:"phone" binding:"omitempty,max=40"`
}

// LoginRequest тело запроса на вход
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ResolveRequest выбор администратора после обработки заявки
type ResolveRequest struct {
	NextStatus model.SlotStatus `json:"next_status" binding:"required,terminal_status"`
}

// PublicSlot слот в студенческой сетке. О студенте видны только инициал и программа.
type PublicSlot struct {
	ID             int64            `json:"id"`
	Weekday        model.Weekday    `json:"weekday"`
	StartTime      string           `json:"start_time"`
	EndTime        string           `json:"end_time"`
	Status         model.SlotStatus `json:"status"`
	StudentInitial string           `json:"student_initial,omitempty"`
	StudentProgram string           `json:"student_program,omitempty"`
}

// ReservationResponse ответ на успешную запись
type ReservationResponse struct {
	ID        int64               `json:"id"`
	SlotID    int64               `json:"slot_id"`
	Status    model.BookingStatus `json:"status"`
	Date      time.Time           `json:"date"`
	CreatedAt time.Time           `json:"created_at"`
}

func publicGrid(grid *model.Grid) []PublicSlot {
	slots := make([]PublicSlot, 0, len(grid.Slots))
	for _, gs := range grid.Slots {
		ps := PublicSlot{
			ID:        gs.Slot.ID,
			Weekday:   gs.Slot.Weekday,
			StartTime: gs.Slot.StartTime,
			EndTime:   gs.Slot.EndTime,
			Status:    gs.Slot.Status,
		}
		if gs.Booking != nil {
			ps.StudentInitial = gs.Booking.Initial()
			ps.StudentProgram = gs.Booking.StudentProgram
		}
		slots = append(slots, ps)
	}
	return slots
}
