package callbacks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/keyboard"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// ResolveData собирает callback data для закрытия заявки
// Например: resolve:12:disponible
func ResolveData(slotID int64, next model.SlotStatus) string {
	return fmt.Sprintf("%s%d:%s", Resolve, slotID, next)
}

// ParseResolveData разбирает callback data кнопки закрытия заявки
func ParseResolveData(data string) (int64, model.SlotStatus, error) {
	parts := strings.Split(strings.TrimPrefix(data, Resolve), ":")
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid callback data format")
	}

	slotID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("parse slot id: %w", err)
	}

	next := model.SlotStatus(parts[1])
	if !next.IsTerminal() {
		return 0, "", fmt.Errorf("invalid status %q", parts[1])
	}

	return slotID, next, nil
}

// ResolveKeyboard кнопки под уведомлением о новой заявке
func ResolveKeyboard(slotID int64) *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(
			keyboard.Button("🟢 Liberar", ResolveData(slotID, model.SlotStatusAvailable)),
			keyboard.Button("⚫️ Cerrar", ResolveData(slotID, model.SlotStatusUnavailable)),
		).
		Build()
}

// ResetKeyboard подтверждение закрытия всех слотов
func ResetKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.ConfirmButton(ResetConfirm), keyboard.CancelButton(ResetCancel)).
		Build()
}

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		return "❌ Horario no encontrado"
	case errors.Is(err, service.ErrSlotNotReserved):
		return "❌ El horario no tiene reserva"
	case errors.Is(err, service.ErrInvalidStatus):
		return "❌ Estado no válido"
	default:
		return "❌ Ocurrió un error, intenta de nuevo"
	}
}

// clearKeyboard убирает кнопки с сообщения, чтобы их не нажали повторно
func (h *Handler) clearKeyboard(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	msg := GetMessageFromCallback(callback)
	if msg == nil {
		return
	}

	_, err := b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		ReplyMarkup: keyboard.Empty(),
	})
	if err != nil {
		h.Logger.Warn("Failed to clear keyboard",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.Error(err))
	}
}
