package service

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
	"go.uber.org/zap"
)

type BookingService struct {
	tx          Transactor
	slotRepo    SlotStore
	bookingRepo BookingStore
	notifier    BookingNotifier
	logger      *zap.Logger
}

func NewBookingService(
	tx Transactor,
	slotRepo SlotStore,
	bookingRepo BookingStore,
	notifier BookingNotifier,
	logger *zap.Logger,
) *BookingService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &BookingService{
		tx:          tx,
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// Reserve записывает студента на свободный слот.
// Перевод слота в reservado и создание заявки выполняются в одной транзакции.
func (s *BookingService) Reserve(ctx context.Context, slotID int64, info model.StudentInfo) (*model.Booking, error) {
	info = info.Normalize()
	if info.Name == "" || info.Program == "" {
		return nil, ErrInvalidStudent
	}

	booking := &model.Booking{
		StudentName:    info.Name,
		StudentProgram: info.Program,
		Email:          info.Email,
		Phone:          info.Phone,
		SlotID:         slotID,
		Status:         model.BookingStatusPending,
	}

	var slot *model.Slot
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Условное обновление: выигрывает только первый из параллельных запросов
		ok, err := s.slotRepo.Reserve(ctx, slotID)
		if err != nil {
			return fmt.Errorf("reserve slot: %w", err)
		}
		if !ok {
			existing, err := s.slotRepo.GetByID(ctx, slotID)
			if err != nil {
				return fmt.Errorf("get slot: %w", err)
			}
			if existing == nil {
				return ErrSlotNotFound
			}
			return ErrSlotNotAvailable
		}

		if err := s.bookingRepo.Create(ctx, booking); err != nil {
			if base.IsUniqueViolation(err) {
				return ErrSlotNotAvailable
			}
			return fmt.Errorf("create booking: %w", err)
		}

		slot, err = s.slotRepo.GetByID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("get slot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Slot reserved",
		zap.Int64("booking_id", booking.ID),
		zap.Int64("slot_id", slotID),
		zap.String("student", booking.StudentName),
		zap.String("program", booking.StudentProgram),
	)

	s.notifier.BookingCreated(ctx, slot, booking)

	return booking, nil
}

// Resolve удаляет заявки слота и переводит его в выбранный администратором статус.
// Принимает и слот без заявки в reservado, и заявку на уже закрытый слот.
func (s *BookingService) Resolve(ctx context.Context, slotID int64, next model.SlotStatus) error {
	if !next.IsTerminal() {
		return ErrInvalidStatus
	}

	var deleted int64
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		slot, err := s.slotRepo.LockByID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("lock slot: %w", err)
		}
		if slot == nil {
			return ErrSlotNotFound
		}

		deleted, err = s.bookingRepo.DeleteBySlotID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("delete bookings: %w", err)
		}

		if !slot.IsReserved() && deleted == 0 {
			return ErrSlotNotReserved
		}

		if err := s.slotRepo.UpdateStatus(ctx, slotID, next); err != nil {
			return fmt.Errorf("update slot status: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Reservation resolved",
		zap.Int64("slot_id", slotID),
		zap.Int64("deleted_bookings", deleted),
		zap.String("status", string(next)),
	)

	return nil
}
