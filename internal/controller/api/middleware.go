package api

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
	claimsKey       = "adminClaims"
)

// RequestLogger кладёт в контекст логгер с request id и пишет итог запроса
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		reqLogger := logger.With(zap.String("request_id", requestID))
		c.Set(loggerKey, reqLogger)

		c.Next()

		reqLogger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// requestLogger достаёт логгер запроса из контекста gin
func requestLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get(loggerKey); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.L()
}

// maxTrackedIPs сколько IP помнит лимитер; самые давние вытесняются
const maxTrackedIPs = 10000

// rateLimiterStore держит отдельный лимитер на каждый IP
type rateLimiterStore struct {
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
	mu       sync.Mutex
}

func newRateLimiterStore(perMinute, capacity int) (*rateLimiterStore, error) {
	if perMinute <= 0 {
		return nil, fmt.Errorf("rate per minute must be positive, got %d", perMinute)
	}

	limiters, err := lru.New[string, *rate.Limiter](capacity)
	if err != nil {
		return nil, fmt.Errorf("create limiter cache: %w", err)
	}

	return &rateLimiterStore{
		limiters: limiters,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
	}, nil
}

// getLimiter возвращает лимитер для IP, создавая его при первом обращении
func (s *rateLimiterStore) getLimiter(ip string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters.Get(ip)
	if !exists {
		limiter = rate.NewLimiter(s.limit, s.burst)
		s.limiters.Add(ip, limiter)
	}
	return limiter
}

// RateLimit ограничивает число запросов с одного IP
func RateLimit(perMinute int) (gin.HandlerFunc, error) {
	store, err := newRateLimiterStore(perMinute, maxTrackedIPs)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !store.getLimiter(ip).Allow() {
			requestLogger(c).Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "Demasiadas solicitudes. Intenta más tarde."})
			return
		}
		c.Next()
	}, nil
}

// AdminAuth пропускает только запросы с действующим токеном администратора
func AdminAuth(auth AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Falta el token de acceso"})
			return
		}

		claims, err := auth.Verify(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func adminClaims(c *gin.Context) *service.AdminClaims {
	if v, ok := c.Get(claimsKey); ok {
		if claims, ok := v.(*service.AdminClaims); ok {
			return claims
		}
	}
	return nil
}
