package container

import (
	"github.com/sirupsen/logrus"

	"face-capture/config"
	app "face-capture/internal/application"
	"face-capture/internal/domain/entity"
	"face-capture/internal/domain/port"
	"face-capture/internal/infrastructure/clock"
)

type Container struct {
	UserService   *app.UserService
	SelfieService *app.SelfieService
}

func New(userRepo port.UserRepository, detector port.FaceDetector, annotator port.FaceAnnotator) *Container {
	userService := app.NewUserService(userRepo)
	selfieService := app.NewSelfieService(userService, detector, annotator)

	return &Container{
		UserService:   userService,
		SelfieService: selfieService,
	}
}

// CaptureConfig переводит настройки окружения в настройки автосъёмки
func CaptureConfig(cfg *config.Config) app.CaptureConfig {
	return app.CaptureConfig{
		AutoCapture:           cfg.AutoCapture,
		IgnoreFacePositioning: cfg.IgnoreFacePositioning,
		CaptureDelaySeconds:   cfg.CaptureDelaySeconds,
		PerformanceMode:       entity.PerformanceMode(cfg.PerformanceMode),
	}
}

// NewCaptureController собирает контроллер автосъёмки с системным таймером
func NewCaptureController(
	cfg *config.Config,
	detector port.FaceDetector,
	camera port.Camera,
	log logrus.FieldLogger,
	onCapture func(*entity.ImageHandle),
) (*app.CaptureController, error) {
	return app.NewCaptureController(CaptureConfig(cfg), detector, camera, clock.RealTicker{}, log, onCapture)
}
