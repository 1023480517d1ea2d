package service

import "errors"

// Ошибки бизнес-правил сетки. Транспортный слой сопоставляет их через errors.Is
var (
	ErrSlotNotFound       = errors.New("slot not found")
	ErrSlotReserved       = errors.New("slot is reserved")
	ErrSlotNotAvailable   = errors.New("slot is not available")
	ErrSlotNotReserved    = errors.New("slot has no reservation")
	ErrInvalidStudent     = errors.New("student name and program are required")
	ErrInvalidStatus      = errors.New("invalid target status")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
)
