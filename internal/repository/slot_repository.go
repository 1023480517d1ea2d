package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const slotColumns = `id, weekday, to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'), status`

// Дни сортируются в календарном порядке, а не по алфавиту
const slotOrder = `array_position(ARRAY['lunes', 'martes', 'miércoles', 'jueves', 'viernes', 'sábado']::text[], weekday), start_time`

type SlotRepository struct {
	*base.Repository
}

func NewSlotRepository(pool *pgxpool.Pool) *SlotRepository {
	return &SlotRepository{Repository: base.NewRepository(pool)}
}

func scanSlot(row pgx.Row) (*model.Slot, error) {
	var slot model.Slot
	err := row.Scan(
		&slot.ID,
		&slot.Weekday,
		&slot.StartTime,
		&slot.EndTime,
		&slot.Status,
	)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// List получает все слоты упорядоченные по (день, время начала)
func (r *SlotRepository) List(ctx context.Context) ([]*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM horarios ORDER BY ` + slotOrder

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []*model.Slot
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slots: %w", err)
	}

	return slots, nil
}

// GetByID получает слот по ID
func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM horarios WHERE id = $1`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get slot by id: %w", err)
	}

	return slot, nil
}

// LockByID получает слот и блокирует строку до конца транзакции
func (r *SlotRepository) LockByID(ctx context.Context, id int64) (*model.Slot, error) {
	query := `SELECT ` + slotColumns + ` FROM horarios WHERE id = $1 FOR UPDATE`

	slot, err := scanSlot(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("lock slot: %w", err)
	}

	return slot, nil
}

// ToggleAvailability переключает disponible <-> no_disponible.
// Зарезервированные слоты и закрытые слоты с висящей заявкой не трогает:
// ok = false, если ни одна строка не обновилась.
func (r *SlotRepository) ToggleAvailability(ctx context.Context, id int64) (model.SlotStatus, bool, error) {
	query := `
		UPDATE horarios
		SET status = CASE WHEN status = 'disponible' THEN 'no_disponible' ELSE 'disponible' END
		WHERE id = $1 AND status <> 'reservado'
			AND (status = 'disponible' OR NOT EXISTS (
				SELECT 1 FROM reservas WHERE slot_id = $1 AND status = 'pendiente'
			))
		RETURNING status
	`

	var status model.SlotStatus
	err := r.QueryRow(ctx, query, id).Scan(&status)
	if err != nil {
		if base.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("toggle slot: %w", err)
	}

	return status, true, nil
}

// Reserve переводит свободный слот в reservado. false - слот не был свободен
func (r *SlotRepository) Reserve(ctx context.Context, id int64) (bool, error) {
	query := `
		UPDATE horarios
		SET status = 'reservado'
		WHERE id = $1 AND status = 'disponible'
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("reserve slot: %w", err)
	}

	return affected > 0, nil
}

// UpdateStatus обновляет статус слота
func (r *SlotRepository) UpdateStatus(ctx context.Context, id int64, status model.SlotStatus) error {
	query := `
		UPDATE horarios
		SET status = $1
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update slot status: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("slot not found")
	}

	return nil
}

// CloseAll переводит все слоты, кроме уже закрытых, в no_disponible
func (r *SlotRepository) CloseAll(ctx context.Context) (int64, error) {
	query := `
		UPDATE horarios
		SET status = 'no_disponible'
		WHERE status <> 'no_disponible'
	`

	affected, err := r.ExecAffected(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("close all slots: %w", err)
	}

	return affected, nil
}

// CreateIfMissing создаёт слот, если для этого дня и времени его ещё нет
func (r *SlotRepository) CreateIfMissing(ctx context.Context, slot *model.Slot) (bool, error) {
	query := `
		INSERT INTO horarios (weekday, start_time, end_time, status)
		VALUES ($1, $2::time, $3::time, $4)
		ON CONFLICT (weekday, start_time) DO NOTHING
		RETURNING id
	`

	err := r.QueryRow(ctx, query, slot.Weekday, slot.StartTime, slot.EndTime, slot.Status).Scan(&slot.ID)
	if err != nil {
		if base.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("create slot: %w", err)
	}

	return true, nil
}
