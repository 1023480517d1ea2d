package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

// SlotStore хранилище слотов (horarios)
type SlotStore interface {
	List(ctx context.Context) ([]*model.Slot, error)
	GetByID(ctx context.Context, id int64) (*model.Slot, error)
	LockByID(ctx context.Context, id int64) (*model.Slot, error)
	ToggleAvailability(ctx context.Context, id int64) (model.SlotStatus, bool, error)
	Reserve(ctx context.Context, id int64) (bool, error)
	UpdateStatus(ctx context.Context, id int64, status model.SlotStatus) error
	CloseAll(ctx context.Context) (int64, error)
	CreateIfMissing(ctx context.Context, slot *model.Slot) (bool, error)
}

// BookingStore хранилище заявок (reservas)
type BookingStore interface {
	Create(ctx context.Context, booking *model.Booking) error
	ListPending(ctx context.Context) ([]*model.Booking, error)
	DeleteBySlotID(ctx context.Context, slotID int64) (int64, error)
}

// AdminStore хранилище учётных записей администраторов
type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (*model.Admin, error)
	Upsert(ctx context.Context, admin *model.Admin) error
}

// Transactor выполняет fn в одной транзакции
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// TokenStore список отозванных токенов
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// BookingNotifier получает уведомление о каждой новой заявке
type BookingNotifier interface {
	BookingCreated(ctx context.Context, slot *model.Slot, booking *model.Booking)
}

type noopNotifier struct{}

func (noopNotifier) BookingCreated(context.Context, *model.Slot, *model.Booking) {}
