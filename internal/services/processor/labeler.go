package processor

import (
	"fmt"
	"image"

	"maskify/internal/model"

	"gocv.io/x/gocv"
)

// regionLabeler assigns a label to a clamped, non-degenerate region.
// attempted reports whether a classifier was invoked.
type regionLabeler interface {
	label(frame gocv.Mat, box image.Rectangle) (c model.Classification, attempted bool, err error)
	caption(index int, box image.Rectangle, c model.Classification) (string, image.Point)
}

type unknownLabeler struct{}

func (unknownLabeler) label(gocv.Mat, image.Rectangle) (model.Classification, bool, error) {
	return model.Classification{Label: model.Unknown}, false, nil
}

func (unknownLabeler) caption(index int, box image.Rectangle, _ model.Classification) (string, image.Point) {
	return fmt.Sprintf("Face num %d", index), image.Pt(box.Min.X-10, box.Min.Y-10)
}

type classifierLabeler struct {
	classifier RegionClassifier
	inputSize  image.Point
	threshold  float64
}

func (l classifierLabeler) label(frame gocv.Mat, box image.Rectangle) (model.Classification, bool, error) {
	scores, err := l.classify(frame, box)
	if err != nil {
		return model.Classification{Label: model.Error}, true, fmt.Errorf("%w: %w", ErrClassification, err)
	}
	if len(scores) == 0 {
		return model.Classification{Label: model.Error}, true, fmt.Errorf("%w: classifier returned no scores", ErrClassification)
	}

	return model.ClassifyScore(float64(scores[0]), l.threshold), true, nil
}

func (l classifierLabeler) caption(_ int, box image.Rectangle, c model.Classification) (string, image.Point) {
	return c.Label.String(), image.Pt(box.Min.X, box.Min.Y-10)
}

// classify crops box from frame, resizes it to the classifier input size,
// scales it to [0,1] and runs the classifier. Panics are turned into errors.
// Resize and scale failures are wrapped with their cause.
func (l classifierLabeler) classify(frame gocv.Mat, box image.Rectangle) (scores []float32, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classifier panic: %v", r)
		}
	}()

	roi := frame.Region(box)
	defer roi.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	if err := gocv.Resize(roi, &resized, l.inputSize, 0, 0, gocv.InterpolationLinear); err != nil {
		return nil, fmt.Errorf("failed to resize region: %w", err)
	}

	scaled := gocv.NewMat()
	defer scaled.Close()
	if err := resized.ConvertToWithParams(&scaled, gocv.MatTypeCV32F, 1.0/255.0, 0); err != nil {
		return nil, fmt.Errorf("failed to scale region: %w", err)
	}

	return l.classifier.Classify(scaled)
}
