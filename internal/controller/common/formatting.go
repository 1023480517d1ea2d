package common

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
)

// StatusDisplay представляет отображение статуса слота
type StatusDisplay struct {
	Emoji string
	Text  string
}

var statusDisplays = map[model.SlotStatus]StatusDisplay{
	model.SlotStatusAvailable:   {"🟢", "Disponible"},
	model.SlotStatusReserved:    {"🔴", "Reservado"},
	model.SlotStatusUnavailable: {"⚫️", "No disponible"},
}

// GetStatusDisplay возвращает emoji и текст для статуса слота
func GetStatusDisplay(status model.SlotStatus) StatusDisplay {
	if display, ok := statusDisplays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Desconocido"}
}

// StatusLabel текст статуса для легенды
func StatusLabel(status model.SlotStatus) string {
	return GetStatusDisplay(status).Text
}

// WeekdayShort короткое название дня недели
func WeekdayShort(day model.Weekday) string {
	names := map[model.Weekday]string{
		model.WeekdayMonday:    "Lun",
		model.WeekdayTuesday:   "Mar",
		model.WeekdayWednesday: "Mié",
		model.WeekdayThursday:  "Jue",
		model.WeekdayFriday:    "Vie",
		model.WeekdaySaturday:  "Sáb",
	}
	if name, ok := names[day]; ok {
		return name
	}
	return "?"
}

// WeekdayTitle название дня с заглавной буквы
func WeekdayTitle(day model.Weekday) string {
	s := string(day)
	if s == "" {
		return s
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

// FormatSlot "Lunes 09:00-09:30"
func FormatSlot(slot *model.Slot) string {
	return fmt.Sprintf("%s %s-%s", WeekdayTitle(slot.Weekday), slot.StartTime, slot.EndTime)
}

// FormatBooking многострочное описание заявки для администратора
func FormatBooking(slot *model.Slot, booking *model.Booking) string {
	var sb strings.Builder

	if slot != nil {
		fmt.Fprintf(&sb, "📅 %s\n", FormatSlot(slot))
	} else {
		fmt.Fprintf(&sb, "📅 Horario #%d\n", booking.SlotID)
	}
	fmt.Fprintf(&sb, "👤 %s\n", booking.StudentName)
	fmt.Fprintf(&sb, "🎓 %s\n", booking.StudentProgram)
	if booking.Email != "" {
		fmt.Fprintf(&sb, "✉️ %s\n", booking.Email)
	}
	if booking.Phone != "" {
		fmt.Fprintf(&sb, "📞 %s\n", booking.Phone)
	}
	fmt.Fprintf(&sb, "🕒 %s", booking.CreatedAt.Format("02/01/2006 15:04"))

	return sb.String()
}

// FormatStats сводка по статусам слотов
func FormatStats(stats model.SlotStats) string {
	return fmt.Sprintf(
		"Total: %d\n%s %s: %d\n%s %s: %d\n%s %s: %d",
		stats.Total,
		statusDisplays[model.SlotStatusAvailable].Emoji, StatusLabel(model.SlotStatusAvailable), stats.Available,
		statusDisplays[model.SlotStatusReserved].Emoji, StatusLabel(model.SlotStatusReserved), stats.Reserved,
		statusDisplays[model.SlotStatusUnavailable].Emoji, StatusLabel(model.SlotStatusUnavailable), stats.Unavailable,
	)
}
