package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"face-capture/internal/domain/entity"
	"face-capture/internal/domain/port"
)

// SelfieService проверяет положение лица на одиночном снимке
type SelfieService struct {
	users     *UserService
	detector  port.FaceDetector
	annotator port.FaceAnnotator
}

// SelfieReport результат проверки снимка
type SelfieReport struct {
	Verdict   entity.Verdict
	Guidance  entity.GuidanceReason // пусто, если лицо расположено хорошо
	Face      *entity.FacePose
	Annotated []byte // снимок с разметкой точек, если лицо найдено
}

// NewSelfieService создаёт сервис проверки селфи
func NewSelfieService(users *UserService, detector port.FaceDetector, annotator port.FaceAnnotator) *SelfieService {
	return &SelfieService{
		users:     users,
		detector:  detector,
		annotator: annotator,
	}
}

// BeginCheck переводит пользователя в ожидание селфи
func (s *SelfieService) BeginCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.users.SetState(ctx, userID, chatID, entity.StateAwaitingSelfie)
}

// CheckPhoto оценивает снимок тем же способом, что и кадры видеопотока
func (s *SelfieService) CheckPhoto(ctx context.Context, photo []byte) (*SelfieReport, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(photo))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	frame := entity.Frame{Data: photo, Width: cfg.Width, Height: cfg.Height}

	// Для снимка время не критично, используем точный режим
	face, err := s.detector.Detect(ctx, frame, entity.PerformanceAccurate)
	if err != nil {
		return nil, fmt.Errorf("detect face: %w", err)
	}

	dims := frame.Dimensions()
	verdict := Evaluate(face, dims)
	guidance, _ := Guidance(face, dims, verdict.WellPositioned)

	report := &SelfieReport{
		Verdict:  verdict,
		Guidance: guidance,
		Face:     face,
	}
	if face != nil && s.annotator != nil {
		report.Annotated, _ = s.annotator.Annotate(photo, face)
	}

	return report, nil
}

// FinishCheck учитывает проверку и возвращает пользователя в главное меню
func (s *SelfieService) FinishCheck(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.users.FinishCheck(ctx, userID, chatID)
}
