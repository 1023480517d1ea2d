package cli

import (
	"context"
	"io"

	"github.com/Freeeeeet/tutoring_scheduler/internal/app"
	"github.com/Freeeeeet/tutoring_scheduler/internal/config"
	"github.com/Freeeeeet/tutoring_scheduler/internal/session"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Context общие зависимости команд. Соединение с базой открывается при первом обращении.
type Context struct {
	Ctx    context.Context
	Config *config.Config
	Logger *zap.Logger
	Out    io.Writer

	pool     *pgxpool.Pool
	services *app.Services
}

// Pool возвращает пул соединений, подключаясь при первом вызове
func (c *Context) Pool() (*pgxpool.Pool, error) {
	if c.pool != nil {
		return c.pool, nil
	}

	pool, err := app.NewPool(c.Ctx, c.Config.GetDBDSN())
	if err != nil {
		return nil, err
	}
	c.pool = pool
	return pool, nil
}

// Services собирает сервисы без уведомлений: CLI не шлёт сообщений в Telegram
func (c *Context) Services() (*app.Services, error) {
	if c.services != nil {
		return c.services, nil
	}

	pool, err := c.Pool()
	if err != nil {
		return nil, err
	}

	revoked, err := session.NewMemoryStore(16, c.Config.TokenTTL, c.Logger)
	if err != nil {
		return nil, err
	}

	c.services = app.NewServices(pool, c.Config, revoked, nil, c.Logger)
	return c.services, nil
}

// Close закрывает соединение с базой
func (c *Context) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}
