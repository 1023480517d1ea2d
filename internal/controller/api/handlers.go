package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/common"
	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func slotID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Identificador de horario no válido")
		return 0, false
	}
	return id, true
}

func (c *Controller) health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		requestLogger(ctx).Error("Database ping failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (c *Controller) getGrid(ctx *gin.Context) {
	grid, err := c.schedule.Grid(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"slots": publicGrid(grid)})
}

func (c *Controller) getGridImage(ctx *gin.Context) {
	grid, err := c.schedule.Grid(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	image, err := common.GenerateWeekImage(grid, c.now())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Header("Cache-Control", "no-store")
	ctx.Data(http.StatusOK, "image/png", image)
}

func (c *Controller) reserve(ctx *gin.Context) {
	id, ok := slotID(ctx)
	if !ok {
		return
	}

	var req ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Nombre y programa son obligatorios")
		return
	}

	booking, err := c.booking.Reserve(ctx.Request.Context(), id, model.StudentInfo{
		Name:    req.StudentName,
		Program: req.StudentProgram,
		Email:   req.Email,
		Phone:   req.Phone,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, ReservationResponse{
		ID:        booking.ID,
		SlotID:    booking.SlotID,
		Status:    booking.Status,
		Date:      booking.Date,
		CreatedAt: booking.CreatedAt,
	})
}

func (c *Controller) login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Usuario y contraseña son obligatorios")
		return
	}

	token, err := c.auth.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, token)
}

func (c *Controller) logout(ctx *gin.Context) {
	claims := adminClaims(ctx)
	if claims == nil {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	if err := c.auth.Logout(ctx.Request.Context(), claims); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

func (c *Controller) getAdminGrid(ctx *gin.Context) {
	grid, err := c.schedule.Grid(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"slots":    grid.Slots,
		"orphaned": grid.Orphaned,
		"stats":    grid.Stats(),
	})
}

func (c *Controller) getStats(ctx *gin.Context) {
	stats, err := c.schedule.Stats(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

func (c *Controller) toggleSlot(ctx *gin.Context) {
	id, ok := slotID(ctx)
	if !ok {
		return
	}

	status, err := c.schedule.ToggleAvailability(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id, "status": status})
}

func (c *Controller) resetSlots(ctx *gin.Context) {
	changed, err := c.schedule.CloseAll(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (c *Controller) resolveSlot(ctx *gin.Context) {
	id, ok := slotID(ctx)
	if !ok {
		return
	}

	var req ResolveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "next_status debe ser disponible o no_disponible")
		return
	}

	if err := c.booking.Resolve(ctx.Request.Context(), id, req.NextStatus); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id, "status": req.NextStatus})
}
