package model

// GridSlot слот сетки вместе с бронью, если она есть
type GridSlot struct {
	Slot    *Slot    `json:"slot"`
	Booking *Booking `json:"booking,omitempty"`
}

// Grid полная сетка: слоты в порядке (день, время) и брони без зарезервированного слота
type Grid struct {
	Slots    []*GridSlot `json:"slots"`
	Orphaned []*Booking  `json:"orphaned"`
}

// SlotStats счётчики для шапки админки
type SlotStats struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	Reserved    int `json:"reserved"`
	Unavailable int `json:"unavailable"`
}

// Stats считает слоты по статусам
func (g *Grid) Stats() SlotStats {
	stats := SlotStats{Total: len(g.Slots)}
	for _, gs := range g.Slots {
		switch gs.Slot.Status {
		case SlotStatusAvailable:
			stats.Available++
		case SlotStatusReserved:
			stats.Reserved++
		case SlotStatusUnavailable:
			stats.Unavailable++
		}
	}
	return stats
}

// Find ищет слот по дню и времени начала
func (g *Grid) Find(day Weekday, start string) *GridSlot {
	for _, gs := range g.Slots {
		if gs.Slot.Weekday == day && gs.Slot.StartTime == start {
			return gs
		}
	}
	return nil
}
