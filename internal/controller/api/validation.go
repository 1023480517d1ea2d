package api

import (
	"fmt"

	"github.com/Freeeeeet/tutoring_scheduler/internal/model"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators добавляет собственные правила в валидатор gin
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}

	if err := v.RegisterValidation("terminal_status", terminalStatus); err != nil {
		return fmt.Errorf("register terminal_status: %w", err)
	}
	return nil
}

// terminalStatus статус, в который администратор переводит слот после заявки
func terminalStatus(fl validator.FieldLevel) bool {
	return model.SlotStatus(fl.Field().String()).IsTerminal()
}
