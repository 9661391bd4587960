package port

import (
	"context"

	"face-capture/internal/domain/entity"
)

// FaceDetector интерфейс детектора лица
type FaceDetector interface {
	// Detect ищет лицо на кадре. nil без ошибки означает, что лица нет.
	Detect(ctx context.Context, frame entity.Frame, mode entity.PerformanceMode) (*entity.FacePose, error)
}

// FaceAnnotator рисует найденные точки лица поверх снимка
type FaceAnnotator interface {
	// Annotate возвращает новое JPEG-изображение с разметкой
	Annotate(imageData []byte, face *entity.FacePose) ([]byte, error)
}
