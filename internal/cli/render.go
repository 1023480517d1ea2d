package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/common"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	timeStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	availableStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	reservedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	unavailableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

// cell текст ячейки сетки: статус и инициал студента для зарезервированных
func cell(gs *model.GridSlot) string {
	switch gs.Slot.Status {
	case model.SlotStatusAvailable:
		return availableStyle.Render("libre")
	case model.SlotStatusReserved:
		initial := "?"
		if gs.Booking != nil {
			initial = gs.Booking.Initial()
		}
		return reservedStyle.Render("● " + initial)
	default:
		return unavailableStyle.Render("·")
	}
}

// RenderGrid таблица: строки по времени начала, колонки по дням
func RenderGrid(grid *model.Grid) string {
	cells := make(map[string]map[model.Weekday]string)
	for _, gs := range grid.Slots {
		row, ok := cells[gs.Slot.StartTime]
		if !ok {
			row = make(map[model.Weekday]string)
			cells[gs.Slot.StartTime] = row
		}
		row[gs.Slot.Weekday] = cell(gs)
	}

	times := make([]string, 0, len(cells))
	for t := range cells {
		times = append(times, t)
	}
	sort.Strings(times)

	headers := []string{headerStyle.Render("Hora")}
	for _, day := range model.Weekdays {
		headers = append(headers, headerStyle.Render(common.WeekdayShort(day)))
	}

	rows := make([][]string, 0, len(times))
	for _, t := range times {
		row := []string{timeStyle.Render(t)}
		for _, day := range model.Weekdays {
			row = append(row, cells[t][day])
		}
		rows = append(rows, row)
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		Render()
}

// RenderOrphaned список заявок, у которых слот уже не зарезервирован
func RenderOrphaned(bookings []*model.Booking) string {
	var sb strings.Builder
	sb.WriteString(warnStyle.Render(fmt.Sprintf("Reservas sin horario reservado: %d", len(bookings))))
	for _, b := range bookings {
		fmt.Fprintf(&sb, "\n  #%d horario %d  %s (%s)", b.ID, b.SlotID, b.StudentName, b.StudentProgram)
	}
	return sb.String()
}
