package service

import "github.com/Freeeeeet/tutoring_scheduler/internal/model"

// BuildGrid соединяет слоты с заявками по slot_id.
// Заявка прикрепляется только к зарезервированному слоту, остальные попадают в Orphaned.
// Порядок слотов сохраняется.
func BuildGrid(slots []*model.Slot, bookings []*model.Booking) *model.Grid {
	bySlot := make(map[int64]*model.Booking, len(bookings))
	grid := &model.Grid{
		Slots:    make([]*model.GridSlot, 0, len(slots)),
		Orphaned: []*model.Booking{},
	}

	for _, b := range bookings {
		if _, dup := bySlot[b.SlotID]; dup {
			grid.Orphaned = append(grid.Orphaned, b)
			continue
		}
		bySlot[b.SlotID] = b
	}

	for _, slot := range slots {
		gs := &model.GridSlot{Slot: slot}
		if b, ok := bySlot[slot.ID]; ok {
			if slot.IsReserved() {
				gs.Booking = b
			} else {
				grid.Orphaned = append(grid.Orphaned, b)
			}
			delete(bySlot, slot.ID)
		}
		grid.Slots = append(grid.Slots, gs)
	}

	// Заявки на несуществующие слоты
	for _, b := range bookings {
		if left, ok := bySlot[b.SlotID]; ok && left == b {
			grid.Orphaned = append(grid.Orphaned, b)
		}
	}

	return grid
}
