package api

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options настройки HTTP слоя
type Options struct {
	AllowedOrigins    []string
	ReserveRatePerMin int
}

// Controller HTTP обработчики сетки, записи и админки
type Controller struct {
	schedule ScheduleService
	booking  BookingService
	auth     AuthService
	db       Pinger
	now      func() time.Time
	logger   *zap.Logger
}

func NewController(
	schedule ScheduleService,
	booking BookingService,
	auth AuthService,
	db Pinger,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		schedule: schedule,
		booking:  booking,
		auth:     auth,
		db:       db,
		now:      time.Now,
		logger:   logger,
	}
}

// NewRouter собирает gin engine со всеми маршрутами и middleware
func NewRouter(c *Controller, opts Options) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(c.logger))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	if err := c.RegisterRoutes(r, opts); err != nil {
		return nil, err
	}
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// RegisterRoutes регистрирует публичные и административные маршруты
func (c *Controller) RegisterRoutes(r *gin.Engine, opts Options) error {
	reserveLimit, err := RateLimit(opts.ReserveRatePerMin)
	if err != nil {
		return fmt.Errorf("reserve rate limit: %w", err)
	}

	r.GET("/health", c.health)

	api := r.Group("/api")
	{
		api.GET("/grid", c.getGrid)
		api.GET("/grid.png", c.getGridImage)
		api.POST("/slots/:id/reservations", reserveLimit, c.reserve)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", c.login)

		secured := admin.Group("")
		secured.Use(AdminAuth(c.auth))
		secured.POST("/logout", c.logout)
		secured.GET("/grid", c.getAdminGrid)
		secured.GET("/stats", c.getStats)
		secured.POST("/slots/reset", c.resetSlots)
		secured.POST("/slots/:id/toggle", c.toggleSlot)
		secured.POST("/slots/:id/resolve", c.resolveSlot)
	}

	return nil
}
