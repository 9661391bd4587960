package app

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"face-capture/internal/domain/entity"
)

// ErrInvalidConfig ошибка конфигурации, обнаруженная при создании контроллера
var ErrInvalidConfig = errors.New("invalid capture config")

var validate = validator.New()

// CaptureConfig настройки автосъёмки
type CaptureConfig struct {
	AutoCapture           bool
	IgnoreFacePositioning bool
	CaptureDelaySeconds   int                    `validate:"gte=0"`
	PerformanceMode       entity.PerformanceMode `validate:"oneof=fast accurate"`
}

// DefaultCaptureConfig автосъёмка с отсчётом 3 секунды
func DefaultCaptureConfig() CaptureConfig {
	return CaptureConfig{
		AutoCapture:         true,
		CaptureDelaySeconds: 3,
		PerformanceMode:     entity.PerformanceFast,
	}
}

// Validate проверяет настройки
func (c CaptureConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
