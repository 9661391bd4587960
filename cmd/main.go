package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sirupsen/logrus"

	"face-capture/config"
	telegram "face-capture/internal/api"
	"face-capture/internal/container"
	"face-capture/internal/domain/entity"
	"face-capture/internal/infrastructure/camera"
	"face-capture/internal/infrastructure/storage"
	"face-capture/internal/infrastructure/vision"
	"face-capture/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		logrus.WithError(err).Fatal("failed to configure logging")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Детектор лица на каскадах OpenCV
	detector, err := vision.NewCascadeDetector(cfg.CascadeDir)
	if err != nil {
		log.WithError(err).Fatal("failed to create face detector")
	}
	defer detector.Close()

	switch cfg.Mode {
	case config.ModeWebcam:
		err = runWebcam(ctx, cfg, detector, log)
	default:
		err = runBot(ctx, cfg, detector, log)
	}
	if err != nil {
		log.WithError(err).Fatal("stopped with error")
	}
}

func runBot(ctx context.Context, cfg *config.Config, detector *vision.CascadeDetector, log *logrus.Logger) error {
	userRepo := storage.NewMemoryUserRepository()
	appContainer := container.New(userRepo, detector, detector)

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, log)
	if err != nil {
		return err
	}

	log.Info("bot is running")
	return bot.Run(ctx)
}

func runWebcam(ctx context.Context, cfg *config.Config, detector *vision.CascadeDetector, log *logrus.Logger) error {
	webcam, err := camera.OpenWebcam(cfg.CameraDevice, cfg.CaptureDir)
	if err != nil {
		return err
	}
	defer webcam.Close()

	ctrl, err := container.NewCaptureController(cfg, detector, webcam, log, func(img *entity.ImageHandle) {
		if img == nil {
			log.Warn("capture produced no image")
			return
		}
		log.WithField("path", img.Path).Info("photo saved")
	})
	if err != nil {
		return err
	}
	defer ctrl.Close()

	go logGuidance(ctx, ctrl, log)

	pump := &camera.Pump{
		Source:    webcam,
		Sink:      ctrl.ProcessFrame,
		Log:       log,
		MaxErrors: 50,
	}
	log.WithField("device", cfg.CameraDevice).Info("webcam is running")
	err = pump.Run(ctx)

	stats := ctrl.Stats()
	log.WithFields(logrus.Fields{
		"processed": stats.Processed,
		"dropped":   stats.Dropped,
	}).Info("webcam stopped")
	return err
}

// logGuidance выводит подсказку и отсчёт при каждом их изменении
func logGuidance(ctx context.Context, ctrl guidanceSource, log logrus.FieldLogger) {
	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	var last string
	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-updates:
			if !ok {
				return
			}
			line := describe(ctrl, state)
			if line != last {
				log.Info(line)
				last = line
			}
		}
	}
}

type guidanceSource interface {
	Subscribe() (<-chan entity.CameraState, func())
	Guidance() (entity.GuidanceReason, bool)
}

func describe(ctrl guidanceSource, state entity.CameraState) string {
	switch {
	case state.Capturing:
		return "capturing"
	case state.Countdown != nil:
		return "hold still: " + strconv.Itoa(*state.Countdown)
	}
	if g, ok := ctrl.Guidance(); ok {
		return g.Label()
	}
	return "well positioned"
}
