package handlers

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/tgtest"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminChat = int64(42)

type stubSchedule struct {
	grid *model.Grid
	err  error
}

func (s *stubSchedule) Grid(context.Context) (*model.Grid, error) {
	return s.grid, s.err
}

func (s *stubSchedule) Stats(context.Context) (model.SlotStats, error) {
	if s.err != nil {
		return model.SlotStats{}, s.err
	}
	return s.grid.Stats(), nil
}

func message(chatID int64, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: chatID},
		From: &models.User{ID: chatID, FirstName: "Marta"},
		Text: text,
	}}
}

func gridWithPending() *model.Grid {
	reserved := &model.Slot{ID: 2, Weekday: model.WeekdayMonday, StartTime: "09:00", EndTime: "09:30", Status: model.SlotStatusReserved}
	return &model.Grid{
		Slots: []*model.GridSlot{
			{Slot: &model.Slot{ID: 1, Weekday: model.WeekdayMonday, StartTime: "08:30", EndTime: "09:00", Status: model.SlotStatusAvailable}},
			{Slot: reserved, Booking: &model.Booking{ID: 10, SlotID: 2, StudentName: "Luis", StudentProgram: "Química"}},
		},
		Orphaned: []*model.Booking{{ID: 11, SlotID: 5, StudentName: "Eva", StudentProgram: "Derecho"}},
	}
}

func newHandlers(t *testing.T, schedule ScheduleService) (*Handlers, *tgtest.Server, *bot.Bot) {
	t.Helper()
	srv, b := tgtest.New(t)
	h := NewHandlers(schedule, adminChat, zap.NewNop())
	h.now = func() time.Time { return time.Date(2024, time.March, 13, 10, 0, 0, 0, time.UTC) }
	return h, srv, b
}

func TestRequireAdmin(t *testing.T) {
	h, srv, b := newHandlers(t, &stubSchedule{grid: &model.Grid{}})

	called := false
	next := h.RequireAdmin(func(context.Context, *bot.Bot, *models.Update) { called = true })

	next(context.Background(), b, message(7, "/grid"))
	assert.False(t, called)
	require.Len(t, srv.Calls("sendMessage"), 1)
	assert.Equal(t, "7", srv.Calls("sendMessage")[0].Fields["chat_id"])

	next(context.Background(), b, message(adminChat, "/grid"))
	assert.True(t, called)
}

func TestHandleStart(t *testing.T) {
	h, srv, b := newHandlers(t, &stubSchedule{grid: &model.Grid{}})

	h.HandleStart(context.Background(), b, message(adminChat, "/start"))

	anonymous := message(adminChat, "/start")
	anonymous.Message.From = nil
	assert.NotPanics(t, func() {
		h.HandleStart(context.Background(), b, anonymous)
	})

	calls := srv.Calls("sendMessage")
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].Fields["text"], "¡Hola, Marta!")
	assert.Contains(t, calls[1].Fields["text"], "👋 ¡Hola!")
	assert.Contains(t, calls[1].Fields["text"], "/pending")
}

func TestHandlePending(t *testing.T) {
	h, srv, b := newHandlers(t, &stubSchedule{grid: gridWithPending()})

	h.HandlePending(context.Background(), b, message(adminChat, "/pending"))

	calls := srv.Calls("sendMessage")
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].Fields["text"], "Luis")
	assert.Contains(t, calls[0].Fields["reply_markup"], "resolve:2:disponible")
	assert.Contains(t, calls[1].Fields["text"], "Reserva sin horario reservado")
	assert.Contains(t, calls[1].Fields["reply_markup"], "resolve:5:no_disponible")
}

func TestHandlePendingEmpty(t *testing.T) {
	h, srv, b := newHandlers(t, &stubSchedule{grid: &model.Grid{}})

	h.HandlePending(context.Background(), b, message(adminChat, "/pending"))

	calls := srv.Calls("sendMessage")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Fields["text"], "No hay reservas pendientes")
}

func TestHandleGridSendsPhoto(t *testing.T) {
	h, srv, b := newHandlers(t, &stubSchedule{grid: gridWithPending()})

	h.HandleGrid(context.Background(), b, message(adminChat, "/grid"))

	calls := srv.Calls("sendPhoto")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Fields["caption"], "Semana del 11/03 al 16/03")
	assert.True(t, bytes.HasPrefix(calls[0].Files["photo"], []byte("\x89PNG")))
}

func TestHandleGridError(t *testing.T) {
	h, srv, b := newHandlers(t, &stubSchedule{err: errors.New("db down")})

	h.HandleGrid(context.Background(), b, message(adminChat, "/grid"))

	assert.Empty(t, srv.Calls("sendPhoto"))
	calls := srv.Calls("sendMessage")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Fields["text"], "Intenta de nuevo")
	assert.NotContains(t, calls[0].Fields["text"], "db down")
}

func TestHandleStatsAndReset(t *testing.T) {
	h, srv, b := newHandlers(t, &stubSchedule{grid: gridWithPending()})

	h.HandleStats(context.Background(), b, message(adminChat, "/stats"))
	h.HandleReset(context.Background(), b, message(adminChat, "/reset"))

	calls := srv.Calls("sendMessage")
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].Fields["text"], "Total: 2")
	assert.Contains(t, calls[1].Fields["reply_markup"], "reset_confirm")
}
