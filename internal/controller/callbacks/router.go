package callbacks

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/common"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// Callback data
const (
	Resolve      = "resolve:" // resolve:slot_id:status
	ResetConfirm = "reset_confirm"
	ResetCancel  = "reset_cancel"
	Noop         = "noop"
)

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	data := callback.Data

	h.Logger.Info("Callback received",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
	)

	switch {
	case strings.HasPrefix(data, Resolve):
		h.handleResolve(ctx, b, callback)
	case data == ResetConfirm:
		h.handleResetConfirm(ctx, b, callback)
	case data == ResetCancel:
		h.clearKeyboard(ctx, b, callback)
		AnswerCallback(ctx, b, callback.ID, "Cancelado")
	case data == Noop:
		AnswerCallback(ctx, b, callback.ID, "")
	default:
		h.Logger.Warn("Unknown callback",
			zap.String("data", data),
			zap.Int64("user_id", callback.From.ID))
		AnswerCallback(ctx, b, callback.ID, "❌ Comando desconocido")
	}
}

func (h *Handler) handleResolve(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	slotID, next, err := ParseResolveData(callback.Data)
	if err != nil {
		h.Logger.Error("Failed to parse resolve callback", zap.Error(err), zap.String("data", callback.Data))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Formato no válido")
		return
	}

	if err := h.BookingService.Resolve(ctx, slotID, next); err != nil {
		h.Logger.Error("Failed to resolve reservation",
			zap.Int64("slot_id", slotID),
			zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, ErrorMessage(err))
		return
	}

	h.clearKeyboard(ctx, b, callback)
	AnswerCallback(ctx, b, callback.ID, fmt.Sprintf("✅ Horario %s", strings.ToLower(common.StatusLabel(next))))
}

func (h *Handler) handleResetConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	changed, err := h.ScheduleService.CloseAll(ctx)
	if err != nil {
		h.Logger.Error("Failed to close all slots", zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, ErrorMessage(err))
		return
	}

	h.clearKeyboard(ctx, b, callback)
	AnswerCallback(ctx, b, callback.ID, fmt.Sprintf("✅ Cerrados: %d", changed))
}
