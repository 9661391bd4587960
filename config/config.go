package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Режимы запуска
const (
	ModeBot    = "bot"
	ModeWebcam = "webcam"
)

type Config struct {
	Mode          string `validate:"oneof=bot webcam"`
	TelegramToken string `validate:"required_if=Mode bot"`

	AutoCapture           bool
	IgnoreFacePositioning bool
	CaptureDelaySeconds   int    `validate:"gte=0"`
	PerformanceMode       string `validate:"oneof=fast accurate"`

	CascadeDir   string `validate:"required"`
	CameraDevice string
	CaptureDir   string `validate:"required"`
	LogLevel     string `validate:"omitempty,oneof=trace debug info warn warning error"`
	LogFile      string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	autoCapture, err := boolEnv("AUTO_CAPTURE", true)
	if err != nil {
		return nil, err
	}
	ignorePositioning, err := boolEnv("IGNORE_FACE_POSITIONING", false)
	if err != nil {
		return nil, err
	}
	delay, err := intEnv("CAPTURE_DELAY_SECONDS", 3)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Mode:                  stringEnv("MODE", ModeBot),
		TelegramToken:         os.Getenv("TELEGRAM_TOKEN"),
		AutoCapture:           autoCapture,
		IgnoreFacePositioning: ignorePositioning,
		CaptureDelaySeconds:   delay,
		PerformanceMode:       stringEnv("PERFORMANCE_MODE", "fast"),
		CascadeDir:            stringEnv("CASCADE_DIR", "/usr/local/share/opencv4/haarcascades"),
		CameraDevice:          stringEnv("CAMERA_DEVICE", "0"),
		CaptureDir:            stringEnv("CAPTURE_DIR", "captures"),
		LogLevel:              stringEnv("LOG_LEVEL", "info"),
		LogFile:               os.Getenv("LOG_FILE"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func stringEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func boolEnv(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func intEnv(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
