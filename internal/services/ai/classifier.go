package ai

import (
	"fmt"
	"image"
	"os"

	"maskify/internal/config"
	"maskify/internal/logger"

	"gocv.io/x/gocv"
)

// MaskClassifierService runs a pre-trained mask / no-mask network through the OpenCV DNN module.
type MaskClassifierService struct {
	net        gocv.Net
	modelPath  string
	configPath string
	inputSize  image.Point
	logger     *logger.Logger
}

// NewMaskClassifierService loads the network configured in cfg.
func NewMaskClassifierService(cfg *config.Config, logger *logger.Logger) (*MaskClassifierService, error) {
	service := &MaskClassifierService{
		modelPath:  cfg.MaskModelPath,
		configPath: cfg.MaskConfigPath,
		inputSize:  image.Pt(cfg.InputWidth, cfg.InputHeight),
		logger:     logger,
	}

	if err := service.initializeNet(); err != nil {
		return nil, err
	}

	return service, nil
}

// initializeNet loads the DNN network and sets backend/target preferences.
func (s *MaskClassifierService) initializeNet() error {
	if _, err := os.Stat(s.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.modelPath)
	}

	if s.configPath != "" {
		if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", s.configPath)
		}
	}

	net := gocv.ReadNet(s.modelPath, s.configPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network from %s", s.modelPath)
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		net.Close()
		return fmt.Errorf("failed to set preferable backend or target")
	}

	s.net = net
	s.logger.Info("Mask classification network initialized from %s", s.modelPath)
	return nil
}

// InputSize is the fixed crop size the network expects.
func (s *MaskClassifierService) InputSize() image.Point {
	return s.inputSize
}

// Classify runs the network on a crop that is already resized to InputSize and
// scaled to [0,1], and returns the raw per-class output scores.
func (s *MaskClassifierService) Classify(input gocv.Mat) ([]float32, error) {
	if s.net.Empty() {
		return nil, fmt.Errorf("classification network not initialized")
	}
	if input.Empty() {
		return nil, fmt.Errorf("classifier input is empty")
	}

	blob := gocv.BlobFromImage(input, 1.0, s.inputSize, gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	s.net.SetInput(blob, "")

	output := s.net.Forward("")
	defer output.Close()

	if output.Empty() {
		return nil, fmt.Errorf("classification network returned no output")
	}

	flat := output.Reshape(1, 1)
	defer flat.Close()

	scores := make([]float32, flat.Cols())
	for i := range scores {
		scores[i] = flat.GetFloatAt(0, i)
	}

	return scores, nil
}

// Close releases the network.
func (s *MaskClassifierService) Close() error {
	return s.net.Close()
}
