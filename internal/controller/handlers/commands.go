package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Comandos:\n\n" +
	"/grid - Imagen de la semana\n" +
	"/pending - Reservas pendientes\n" +
	"/stats - Resumen de horarios\n" +
	"/reset - Cerrar todos los horarios\n" +
	"/help - Mostrar esta ayuda"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	greeting := "👋 ¡Hola!"
	// From пустой у сообщений от имени канала
	if from := update.Message.From; from != nil && from.FirstName != "" {
		greeting = fmt.Sprintf("👋 ¡Hola, %s!", from.FirstName)
	}

	text := greeting + "\n\nAquí llegarán las nuevas reservas de asesorías.\n\n" + helpText
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleGrid отправляет картинку текущей недели
func (h *Handlers) HandleGrid(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	grid, err := h.scheduleService.Grid(ctx)
	if err != nil {
		h.logger.Error("Failed to load grid", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ No se pudo cargar el horario. Intenta de nuevo.")
		return
	}

	now := h.now()
	image, err := common.GenerateWeekImage(grid, now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ No se pudo generar la imagen.")
		return
	}

	stats := grid.Stats()
	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: chatID,
		Photo: &models.InputFileUpload{
			Filename: "semana.png",
			Data:     bytes.NewReader(image),
		},
		Caption: fmt.Sprintf("%s\n%s", common.WeekTitle(common.WeekStart(now)), common.FormatStats(stats)),
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandlePending показывает все активные заявки с кнопками закрытия
func (h *Handlers) HandlePending(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	grid, err := h.scheduleService.Grid(ctx)
	if err != nil {
		h.logger.Error("Failed to load grid", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ No se pudo cargar el horario. Intenta de nuevo.")
		return
	}

	sent := 0
	for _, gs := range grid.Slots {
		if gs.Booking == nil {
			continue
		}
		h.sendMessage(ctx, b, chatID, common.FormatBooking(gs.Slot, gs.Booking), callbacks.ResolveKeyboard(gs.Slot.ID))
		sent++
	}

	for _, booking := range grid.Orphaned {
		text := "⚠️ Reserva sin horario reservado\n" + common.FormatBooking(nil, booking)
		h.sendMessage(ctx, b, chatID, text, callbacks.ResolveKeyboard(booking.SlotID))
		sent++
	}

	if sent == 0 {
		h.sendMessage(ctx, b, chatID, "✅ No hay reservas pendientes.", nil)
	}
}

// HandleStats показывает количество слотов по статусам
func (h *Handlers) HandleStats(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	stats, err := h.scheduleService.Stats(ctx)
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ No se pudo cargar el resumen.")
		return
	}

	h.sendMessage(ctx, b, chatID, "📊 Horarios\n\n"+common.FormatStats(stats), nil)
}

// HandleReset спрашивает подтверждение перед закрытием всех слотов
func (h *Handlers) HandleReset(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	text := strings.Join([]string{
		"⚠️ Se cerrarán todos los horarios de la semana.",
		"Las reservas pendientes no se borran.",
	}, "\n")
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, callbacks.ResetKeyboard())
}
