package model

import (
	"fmt"
	"time"
)

// SlotStatus статус слота в сетке. Значения совпадают с теми, что лежат в таблице horarios.
type SlotStatus string

const (
	SlotStatusAvailable   SlotStatus = "disponible"    // Свободен для записи
	SlotStatusUnavailable SlotStatus = "no_disponible" // Закрыт администратором
	SlotStatusReserved    SlotStatus = "reservado"     // Занят студентом
)

// Valid проверяет что статус известен
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusAvailable, SlotStatusUnavailable, SlotStatusReserved:
		return true
	}
	return false
}

// IsTerminal проверяет можно ли перевести слот в этот статус при разборе брони
func (s SlotStatus) IsTerminal() bool {
	return s == SlotStatusAvailable || s == SlotStatusUnavailable
}

// Weekday день недели сетки (понедельник - суббота)
type Weekday string

const (
	WeekdayMonday    Weekday = "lunes"
	WeekdayTuesday   Weekday = "martes"
	WeekdayWednesday Weekday = "miércoles"
	WeekdayThursday  Weekday = "jueves"
	WeekdayFriday    Weekday = "viernes"
	WeekdaySaturday  Weekday = "sábado"
)

// Weekdays дни сетки в календарном порядке
var Weekdays = []Weekday{
	WeekdayMonday,
	WeekdayTuesday,
	WeekdayWednesday,
	WeekdayThursday,
	WeekdayFriday,
	WeekdaySaturday,
}

// Index возвращает позицию дня в неделе (0 = понедельник) или -1
func (w Weekday) Index() int {
	for i, d := range Weekdays {
		if d == w {
			return i
		}
	}
	return -1
}

// Valid проверяет что день входит в сетку
func (w Weekday) Valid() bool {
	return w.Index() >= 0
}

// TimeWeekday переводит день сетки в time.Weekday
func (w Weekday) TimeWeekday() time.Weekday {
	return time.Weekday(w.Index() + 1)
}

// Slot - ячейка расписания (таблица horarios)
type Slot struct {
	ID        int64      `json:"id"`
	Weekday   Weekday    `json:"weekday"`
	StartTime string     `json:"start_time"` // HH:MM
	EndTime   string     `json:"end_time"`   // HH:MM
	Status    SlotStatus `json:"status"`
}

func (s *Slot) IsAvailable() bool {
	return s.Status == SlotStatusAvailable
}

func (s *Slot) IsReserved() bool {
	return s.Status == SlotStatusReserved
}

// Label короткое описание слота для сообщений
func (s *Slot) Label() string {
	return fmt.Sprintf("%s %s-%s", s.Weekday, s.StartTime, s.EndTime)
}

// ParseClock разбирает время в формате HH:MM
func ParseClock(value string) (time.Time, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t, nil
}
