package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/config"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/api"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/base"
	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
	"github.com/Freeeeeet/tutoring_scheduler/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Services собранный слой бизнес-логики
type Services struct {
	Schedule *service.ScheduleService
	Booking  *service.BookingService
	Auth     *service.AuthService
}

// NewPool подключается к Postgres и проверяет соединение
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// NewServices создаёт репозитории и сервисы поверх пула
func NewServices(
	pool *pgxpool.Pool,
	cfg *config.Config,
	revoked service.TokenStore,
	notifier service.BookingNotifier,
	logger *zap.Logger,
) *Services {
	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	txManager := base.NewTxManager(pool)

	return &Services{
		Schedule: service.NewScheduleService(slotRepo, bookingRepo, logger),
		Booking:  service.NewBookingService(txManager, slotRepo, bookingRepo, notifier, logger),
		Auth:     service.NewAuthService(adminRepo, revoked, cfg.JWTSecret, cfg.TokenTTL, logger),
	}
}

// NewTokenStore выбирает хранилище отозванных токенов: Redis, если задан адрес, иначе LRU в памяти
func NewTokenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (service.TokenStore, func(), error) {
	if cfg.RedisAddr == "" {
		store, err := session.NewMemoryStore(cfg.RevokedCacheSize, cfg.TokenTTL, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Warn("REDIS_ADDR is not set, revoked tokens are kept in memory",
			zap.Int("capacity", cfg.RevokedCacheSize),
			zap.Duration("ttl", cfg.TokenTTL),
		)
		return store, func() {}, nil
	}

	client, err := session.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("✅ Connected to Redis", zap.String("addr", cfg.RedisAddr))

	return session.NewRedisStore(client), func() { client.Close() }, nil
}

// App HTTP сервер, бот и планировщик одного процесса
type App struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	services  *Services
	server    *http.Server
	bot       *controller.BotController
	notifier  *controller.Notifier
	scheduler *Scheduler
	closers   []func()
	logger    *zap.Logger
}

// New поднимает все зависимости приложения
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	pool, err := NewPool(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, err
	}
	a.pool = pool
	a.closers = append(a.closers, pool.Close)
	logger.Info("✅ Connected to database")

	if cfg.AutoMigrate {
		if err := a.migrate(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}

	revoked, closeStore, err := NewTokenStore(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, closeStore)

	var notifier service.BookingNotifier
	var botInstance *bot.Bot
	if cfg.TelegramToken != "" {
		botInstance, err = bot.New(cfg.TelegramToken)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create bot: %w", err)
		}
		a.notifier = controller.NewNotifier(botInstance, cfg.AdminChatID, logger)
		notifier = a.notifier
	}

	a.services = NewServices(pool, cfg, revoked, notifier, logger)

	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := a.services.Auth.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			a.Close()
			return nil, fmt.Errorf("ensure admin: %w", err)
		}
	}

	if botInstance != nil {
		a.bot = controller.NewBotController(botInstance, a.services.Schedule, a.services.Booking, cfg.AdminChatID, logger)
		if err := a.bot.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot handlers registered without commands menu", zap.Error(err))
		}
	}

	if cfg.ResetCron != "" {
		a.scheduler, err = NewScheduler(a.services.Schedule, cfg.ResetCron, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctrl := api.NewController(a.services.Schedule, a.services.Booking, a.services.Auth, pool, logger)
	router, err := api.NewRouter(ctrl, api.Options{
		AllowedOrigins:    cfg.AllowedOrigins(),
		ReserveRatePerMin: cfg.ReserveRatePerMin,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) migrate(ctx context.Context) error {
	migrator, err := NewMigrator(a.pool, a.logger)
	if err != nil {
		return err
	}
	defer migrator.Close()

	return migrator.Run(ctx)
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливается
func (a *App) Run(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Start()
		a.logger.Info("Weekly reset scheduled",
			zap.String("cron", a.cfg.ResetCron),
			zap.Time("next", a.scheduler.Next()))
	}

	if a.bot != nil {
		go a.bot.Start(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("🚀 HTTP server listening", zap.String("addr", a.cfg.HTTPAddr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
	case err := <-errCh:
		runErr = fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.notifier != nil {
		a.notifier.Wait()
	}

	return runErr
}

// Close освобождает соединения в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
