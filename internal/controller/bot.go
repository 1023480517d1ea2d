package controller

import (
	"context"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/callbacks"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// ScheduleService всё, что бот делает с сеткой
type ScheduleService interface {
	handlers.ScheduleService
	callbacks.ScheduleService
}

// BookingService всё, что бот делает с заявками
type BookingService interface {
	Resolve(ctx context.Context, slotID int64, next model.SlotStatus) error
}

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	scheduleService ScheduleService,
	bookingService BookingService,
	adminChatID int64,
	logger *zap.Logger,
) *BotController {
	return &BotController{
		bot:             botInstance,
		handlers:        handlers.NewHandlers(scheduleService, adminChatID, logger),
		callbackHandler: callbacks.NewHandler(scheduleService, bookingService, logger),
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	admin := c.handlers.RequireAdmin

	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart, admin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp, admin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/grid", bot.MatchTypeExact, c.handlers.HandleGrid, admin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/pending", bot.MatchTypeExact, c.handlers.HandlePending, admin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stats", bot.MatchTypeExact, c.handlers.HandleStats, admin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/reset", bot.MatchTypeExact, c.handlers.HandleReset, admin)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery, admin)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "grid", Description: "🗓 Imagen de la semana"},
		{Command: "pending", Description: "📥 Reservas pendientes"},
		{Command: "stats", Description: "📊 Resumen de horarios"},
		{Command: "reset", Description: "🔒 Cerrar todos los horarios"},
		{Command: "help", Description: "❓ Ayuda"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены ctx
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
