package controller

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/common"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

const notifyTimeout = 10 * time.Second

// Notifier отправляет администратору сообщение о каждой новой заявке
type Notifier struct {
	bot         *bot.Bot
	adminChatID int64
	logger      *zap.Logger
	wg          sync.WaitGroup
}

func NewNotifier(botInstance *bot.Bot, adminChatID int64, logger *zap.Logger) *Notifier {
	return &Notifier{
		bot:         botInstance,
		adminChatID: adminChatID,
		logger:      logger,
	}
}

// BookingCreated отправляет уведомление в фоне.
// Заявка уже сохранена, поэтому ошибка отправки только логируется.
func (n *Notifier) BookingCreated(ctx context.Context, slot *model.Slot, booking *model.Booking) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		_, err := n.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      n.adminChatID,
			Text:        "🆕 Nueva reserva\n\n" + common.FormatBooking(slot, booking),
			ReplyMarkup: callbacks.ResolveKeyboard(booking.SlotID),
		})
		if err != nil {
			n.logger.Error("Failed to notify admin",
				zap.Int64("booking_id", booking.ID),
				zap.Int64("slot_id", booking.SlotID),
				zap.Error(err),
			)
			return
		}

		n.logger.Info("Admin notified", zap.Int64("booking_id", booking.ID))
	}()
}

// Wait дожидается отправки всех уведомлений
func (n *Notifier) Wait() {
	n.wg.Wait()
}
