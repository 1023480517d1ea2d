package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newBookingService(store *memStore, notifier BookingNotifier) *BookingService {
	return NewBookingService(store, store, store, notifier, zap.NewNop())
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("available slot becomes reserved with one pending booking", func(t *testing.T) {
		store := newMemStore()
		notifier := &recordingNotifier{}
		svc := newBookingService(store, notifier)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusAvailable)

		booking, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Ana", Program: "Ingeniería"})
		require.NoError(t, err)

		assert.Equal(t, model.BookingStatusPending, booking.Status)
		assert.Equal(t, slot.ID, booking.SlotID)
		assert.NotZero(t, booking.ID)
		assert.Equal(t, model.SlotStatusReserved, store.slot(slot.ID).Status)
		assert.Len(t, store.pendingFor(slot.ID), 1)
		assert.Len(t, notifier.bookings, 1)
	})

	t.Run("trims student fields", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayTuesday, "10:00", "10:30", model.SlotStatusAvailable)

		booking, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{
			Name:    "  Luis ",
			Program: " Derecho ",
			Email:   " luis@example.com ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Luis", booking.StudentName)
		assert.Equal(t, "Derecho", booking.StudentProgram)
		assert.Equal(t, "luis@example.com", booking.Email)
	})

	t.Run("requires name and program", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusAvailable)

		_, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Ana", Program: "   "})
		assert.ErrorIs(t, err, ErrInvalidStudent)

		_, err = svc.Reserve(ctx, slot.ID, model.StudentInfo{Program: "Ingeniería"})
		assert.ErrorIs(t, err, ErrInvalidStudent)

		assert.Equal(t, model.SlotStatusAvailable, store.slot(slot.ID).Status)
		assert.Empty(t, store.pendingFor(slot.ID))
	})

	t.Run("reserved slot is rejected without a duplicate booking", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusAvailable)

		_, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Ana", Program: "Ingeniería"})
		require.NoError(t, err)

		_, err = svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Bea", Program: "Medicina"})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Len(t, store.pendingFor(slot.ID), 1)
	})

	t.Run("unavailable slot is rejected", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusUnavailable)

		_, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Ana", Program: "Ingeniería"})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Equal(t, model.SlotStatusUnavailable, store.slot(slot.ID).Status)
	})

	t.Run("unknown slot", func(t *testing.T) {
		svc := newBookingService(newMemStore(), nil)

		_, err := svc.Reserve(ctx, 42, model.StudentInfo{Name: "Ana", Program: "Ingeniería"})
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("failed booking insert rolls back the slot", func(t *testing.T) {
		store := newMemStore()
		notifier := &recordingNotifier{}
		svc := newBookingService(store, notifier)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusAvailable)
		store.failCreateBooking = errors.New("connection reset")

		_, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Ana", Program: "Ingeniería"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")

		assert.Equal(t, model.SlotStatusAvailable, store.slot(slot.ID).Status)
		assert.Empty(t, store.pendingFor(slot.ID))
		assert.Empty(t, notifier.bookings)
	})

	t.Run("unique index violation maps to not available", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		// Слот свободен, но на него уже висит заявка
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusAvailable)
		store.addBooking(slot.ID, "Ana", "Ingeniería")

		_, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Bea", Program: "Medicina"})
		assert.ErrorIs(t, err, ErrSlotNotAvailable)
		assert.Equal(t, model.SlotStatusAvailable, store.slot(slot.ID).Status)
		assert.Len(t, store.pendingFor(slot.ID), 1)
	})

	t.Run("concurrent reservations produce exactly one booking", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayFriday, "16:00", "16:30", model.SlotStatusAvailable)

		const attempts = 8
		var wg sync.WaitGroup
		errs := make(chan error, attempts)
		for i := 0; i < attempts; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Ana", Program: "Ingeniería"})
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.ErrorIs(t, err, ErrSlotNotAvailable)
		}
		assert.Equal(t, 1, succeeded)
		assert.Len(t, store.pendingFor(slot.ID), 1)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("reserved slot to unavailable", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusAvailable)
		_, err := svc.Reserve(ctx, slot.ID, model.StudentInfo{Name: "Ana", Program: "Ingeniería"})
		require.NoError(t, err)

		require.NoError(t, svc.Resolve(ctx, slot.ID, model.SlotStatusUnavailable))

		assert.Equal(t, model.SlotStatusUnavailable, store.slot(slot.ID).Status)
		assert.Empty(t, store.pendingFor(slot.ID))
	})

	t.Run("reserved slot back to available", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusReserved)
		store.addBooking(slot.ID, "Ana", "Ingeniería")

		require.NoError(t, svc.Resolve(ctx, slot.ID, model.SlotStatusAvailable))

		assert.Equal(t, model.SlotStatusAvailable, store.slot(slot.ID).Status)
		assert.Empty(t, store.pendingFor(slot.ID))
	})

	t.Run("reserved slot without booking is repaired", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusReserved)

		require.NoError(t, svc.Resolve(ctx, slot.ID, model.SlotStatusAvailable))
		assert.Equal(t, model.SlotStatusAvailable, store.slot(slot.ID).Status)
	})

	t.Run("orphaned booking on closed slot is cleaned up", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusUnavailable)
		store.addBooking(slot.ID, "Ana", "Ingeniería")

		require.NoError(t, svc.Resolve(ctx, slot.ID, model.SlotStatusUnavailable))
		assert.Empty(t, store.pendingFor(slot.ID))
	})

	t.Run("slot without reservation is rejected", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusAvailable)

		err := svc.Resolve(ctx, slot.ID, model.SlotStatusUnavailable)
		assert.ErrorIs(t, err, ErrSlotNotReserved)
		assert.Equal(t, model.SlotStatusAvailable, store.slot(slot.ID).Status)
	})

	t.Run("reserved is not a terminal state", func(t *testing.T) {
		store := newMemStore()
		svc := newBookingService(store, nil)
		slot := store.addSlot(model.WeekdayMonday, "09:00", "09:30", model.SlotStatusReserved)

		err := svc.Resolve(ctx, slot.ID, model.SlotStatusReserved)
		assert.ErrorIs(t, err, ErrInvalidStatus)

		err = svc.Resolve(ctx, slot.ID, model.SlotStatus("borrado"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("unknown slot", func(t *testing.T) {
		svc := newBookingService(newMemStore(), nil)

		err := svc.Resolve(ctx, 7, model.SlotStatusAvailable)
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}
