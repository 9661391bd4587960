//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"path/filepath"
	"sync"

	"gocv.io/x/gocv"

	"face-capture/internal/domain/entity"
)

// CascadeDetector ищет лицо и глаза каскадами Хаара и восстанавливает по ним
// остальные точки и поворот головы.
type CascadeDetector struct {
	MaxSide    int     // кадр большего размера уменьшается перед поиском
	MaxYaw     float64 // оценка поворота при смещении глаз на половину лица
	MinFaceDiv int     // минимальный размер лица как доля меньшей стороны кадра

	mu   sync.Mutex
	face gocv.CascadeClassifier
	eyes gocv.CascadeClassifier
}

// NewCascadeDetector загружает каскады из каталога OpenCV data/haarcascades.
func NewCascadeDetector(cascadeDir string) (*CascadeDetector, error) {
	face := gocv.NewCascadeClassifier()
	if !face.Load(filepath.Join(cascadeDir, FaceCascadeFile)) {
		face.Close()
		return nil, fmt.Errorf("load face cascade from %s", cascadeDir)
	}
	eyes := gocv.NewCascadeClassifier()
	if !eyes.Load(filepath.Join(cascadeDir, EyeCascadeFile)) {
		face.Close()
		eyes.Close()
		return nil, fmt.Errorf("load eye cascade from %s", cascadeDir)
	}

	return &CascadeDetector{
		MaxSide:    960,
		MaxYaw:     45,
		MinFaceDiv: 8,
		face:       face,
		eyes:       eyes,
	}, nil
}

// Close освобождает каскады
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.face.Close()
	d.eyes.Close()
	return nil
}

// Detect возвращает самое крупное лицо кадра в пиксельных координатах кадра
func (d *CascadeDetector) Detect(ctx context.Context, frame entity.Frame, mode entity.PerformanceMode) (*entity.FacePose, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := decodeToMat(frame.Data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	// Приводим кадр к стандартному размеру, координаты вернём обратно через scale.
	scale := 1.0
	if mat.Cols() > d.MaxSide || mat.Rows() > d.MaxSide {
		scale = float64(d.MaxSide) / float64(maxInt(mat.Cols(), mat.Rows()))
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(int(float64(mat.Cols())*scale), int(float64(mat.Rows())*scale)), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	gocv.EqualizeHist(gray, &gray)

	params := paramsFor(mode)
	minSide := minInt(gray.Cols(), gray.Rows()) / d.MinFaceDiv

	d.mu.Lock()
	defer d.mu.Unlock()

	faces := d.face.DetectMultiScaleWithParams(gray, params.scale, params.neighbors, 0, image.Pt(minSide, minSide), image.Pt(0, 0))
	if len(faces) == 0 {
		return nil, nil
	}
	box := largest(faces)

	roi := gray.Region(image.Rect(box.Min.X, box.Min.Y, box.Max.X, box.Min.Y+box.Dy()*6/10))
	defer roi.Close()
	eyeRects := d.eyes.DetectMultiScaleWithParams(roi, params.scale, params.neighbors, 0, image.Pt(box.Dx()/10, box.Dx()/10), image.Pt(box.Dx()/2, box.Dx()/2))

	pose := estimatePose(box, eyeRects, d.MaxYaw)
	return rescale(pose, 1/scale), nil
}

// Annotate рисует рамку лица и найденные точки
func (d *CascadeDetector) Annotate(imageData []byte, face *entity.FacePose) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	if face == nil {
		return nil, errors.New("no face to annotate")
	}

	green := color.RGBA{G: 255, A: 255}
	red := color.RGBA{R: 255, A: 255}
	b := face.BoundingBox
	gocv.Rectangle(&mat, image.Rect(int(b.X), int(b.Y), int(b.X+b.Width), int(b.Y+b.Height)), green, 2)
	for _, p := range face.Landmarks {
		gocv.Circle(&mat, image.Pt(int(p.X), int(p.Y)), 4, red, -1)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
