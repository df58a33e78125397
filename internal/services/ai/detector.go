package ai

import (
	"fmt"
	"image"
	"os"

	"maskify/internal/config"
	"maskify/internal/logger"

	"gocv.io/x/gocv"
)

const (
	// ScaleFactor is the image pyramid step used by the cascade.
	ScaleFactor = 1.1
	// MinNeighbors is the number of overlapping hits needed to keep a face.
	MinNeighbors = 5
	// MinFaceSize is the smallest face, in pixels, the cascade looks for.
	MinFaceSize = 30
)

// FaceDetectorService finds frontal faces with an OpenCV Haar cascade.
type FaceDetectorService struct {
	classifier  gocv.CascadeClassifier
	cascadePath string
	logger      *logger.Logger
}

// NewFaceDetectorService loads the cascade configured in cfg.
func NewFaceDetectorService(cfg *config.Config, logger *logger.Logger) (*FaceDetectorService, error) {
	service := &FaceDetectorService{
		cascadePath: cfg.CascadePath,
		logger:      logger,
	}

	if err := service.initializeCascade(); err != nil {
		return nil, err
	}

	return service, nil
}

// initializeCascade loads the cascade file into a classifier.
func (s *FaceDetectorService) initializeCascade() error {
	if _, err := os.Stat(s.cascadePath); os.IsNotExist(err) {
		return fmt.Errorf("cascade file not found: %s", s.cascadePath)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(s.cascadePath) {
		classifier.Close()
		return fmt.Errorf("failed to load face cascade classifier: %s", s.cascadePath)
	}

	s.classifier = classifier
	s.logger.Info("Face detector initialized from %s", s.cascadePath)
	return nil
}

// Detect returns face regions found in a single-channel frame, in cascade order.
func (s *FaceDetectorService) Detect(gray gocv.Mat) ([]image.Rectangle, error) {
	if gray.Empty() {
		return nil, fmt.Errorf("detector input is empty")
	}
	if gray.Channels() != 1 {
		return nil, fmt.Errorf("detector expects a single-channel frame, got %d channels", gray.Channels())
	}

	faces := s.classifier.DetectMultiScaleWithParams(
		gray,
		ScaleFactor,
		MinNeighbors,
		0,
		image.Pt(MinFaceSize, MinFaceSize),
		image.Pt(0, 0),
	)
	return faces, nil
}

// Close releases the cascade.
func (s *FaceDetectorService) Close() error {
	return s.classifier.Close()
}
