package entity

// GuidanceReason подсказка пользователю, как исправить положение лица
type GuidanceReason string

const (
	GuidancePlaceFaceInFrame GuidanceReason = "place_face_in_frame"
	GuidanceMoveCloser       GuidanceReason = "move_closer"
	GuidanceMoveBack         GuidanceReason = "move_back"
	GuidanceMoveLeft         GuidanceReason = "move_left"
	GuidanceMoveRight        GuidanceReason = "move_right"
	GuidanceMoveUp           GuidanceReason = "move_up"
	GuidanceMoveDown         GuidanceReason = "move_down"
	GuidanceCenterFace       GuidanceReason = "center_face"
)

var guidanceLabels = map[GuidanceReason]string{
	GuidancePlaceFaceInFrame: "Place face in frame",
	GuidanceMoveCloser:       "Move closer",
	GuidanceMoveBack:         "Move back",
	GuidanceMoveLeft:         "Move left",
	GuidanceMoveRight:        "Move right",
	GuidanceMoveUp:           "Move up",
	GuidanceMoveDown:         "Move down",
	GuidanceCenterFace:       "Center your face",
}

// Label возвращает текст подсказки для отображения
func (g GuidanceReason) Label() string {
	if label, ok := guidanceLabels[g]; ok {
		return label
	}
	return string(g)
}

// Verdict итог оценки одного кадра. Пересчитывается на каждом кадре.
type Verdict struct {
	FaceDetected   bool
	WellPositioned bool
}

// Eligible сообщает, можно ли по этому кадру запускать или продолжать отсчёт
func (v Verdict) Eligible(ignorePositioning bool) bool {
	return v.FaceDetected && (v.WellPositioned || ignorePositioning)
}
