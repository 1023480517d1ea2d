package api

import (
	"errors"
	"net/http"

	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Сообщение для любой непредвиденной ошибки
const genericError = "No se pudo completar la operación. Intenta de nuevo."

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor сопоставляет ошибку сервиса с HTTP статусом и текстом для клиента
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrSlotNotFound):
		return http.StatusNotFound, "Horario no encontrado"
	case errors.Is(err, service.ErrSlotReserved):
		return http.StatusConflict, "El horario está reservado"
	case errors.Is(err, service.ErrSlotNotAvailable):
		return http.StatusConflict, "El horario ya no está disponible"
	case errors.Is(err, service.ErrSlotNotReserved):
		return http.StatusConflict, "El horario no tiene reserva"
	case errors.Is(err, service.ErrInvalidStudent):
		return http.StatusBadRequest, "Nombre y programa son obligatorios"
	case errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest, "Estado no válido"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Usuario o contraseña incorrectos"
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenRevoked):
		return http.StatusUnauthorized, "Sesión no válida"
	default:
		return http.StatusInternalServerError, genericError
	}
}

// respondError пишет ошибку в ответ. Непредвиденные ошибки логируются и не раскрываются клиенту.
func respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		requestLogger(c).Error("Request failed", zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}
