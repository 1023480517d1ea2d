package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новую заявку
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO reservas (student_name, student_program, email, phone, slot_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, date, created_at
	`

	err := r.QueryRow(
		ctx, query,
		booking.StudentName,
		booking.StudentProgram,
		booking.Email,
		booking.Phone,
		booking.SlotID,
		booking.Status,
	).Scan(&booking.ID, &booking.Date, &booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// ListPending получает все заявки в статусе pendiente
func (r *BookingRepository) ListPending(ctx context.Context) ([]*model.Booking, error) {
	query := `
		SELECT id, student_name, student_program, email, phone, date, slot_id, status, created_at
		FROM reservas
		WHERE status = 'pendiente'
		ORDER BY created_at ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		var booking model.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.StudentName,
			&booking.StudentProgram,
			&booking.Email,
			&booking.Phone,
			&booking.Date,
			&booking.SlotID,
			&booking.Status,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// DeleteBySlotID удаляет все заявки слота и возвращает их количество
func (r *BookingRepository) DeleteBySlotID(ctx context.Context, slotID int64) (int64, error) {
	query := `DELETE FROM reservas WHERE slot_id = $1`

	affected, err := r.ExecAffected(ctx, query, slotID)
	if err != nil {
		return 0, fmt.Errorf("delete bookings by slot: %w", err)
	}

	return affected, nil
}
