package processor

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"maskify/internal/config"
	"maskify/internal/dto"
	"maskify/internal/logger"
	"maskify/internal/model"

	"gocv.io/x/gocv"
)

var (
	ErrEmptyFrame     = errors.New("frame is empty")
	ErrNilDetector    = errors.New("processor requires a region detector")
	ErrNilClassifier  = errors.New("mask processor requires a region classifier")
	ErrClassification = errors.New("region classification failed")
)

// RegionDetector finds candidate face regions in a single-channel frame.
type RegionDetector interface {
	Detect(gray gocv.Mat) ([]image.Rectangle, error)
}

// RegionClassifier scores a fixed-size crop whose values are scaled to [0,1].
// The first score is the positive (mask) class.
type RegionClassifier interface {
	Classify(input gocv.Mat) ([]float32, error)
}

// Options control frame normalisation and classification.
type Options struct {
	Mirror    bool
	Threshold float64
	InputSize image.Point
	// ShowCount draws a "Faces: N" overlay in the top-left corner.
	ShowCount bool
}

// DefaultOptions mirrors the frame, thresholds at 0.5 and feeds 224x224 crops.
func DefaultOptions() Options {
	return Options{
		Mirror:    true,
		Threshold: 0.5,
		InputSize: image.Pt(224, 224),
	}
}

// OptionsFromConfig builds Options from the loaded configuration. Unset
// numeric options keep their defaults.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.Mirror = cfg.Mirror
	if cfg.ClassificationThreshold > 0 {
		opts.Threshold = cfg.ClassificationThreshold
	}
	if cfg.InputWidth > 0 && cfg.InputHeight > 0 {
		opts.InputSize = image.Pt(cfg.InputWidth, cfg.InputHeight)
	}
	return opts
}

// Processor turns one raw frame into an annotated frame plus region counts.
// It keeps no state between frames.
type Processor struct {
	detector RegionDetector
	labeler  regionLabeler
	opts     Options
	logger   *logger.Logger
}

// NewFaceProcessor builds a detection-only processor; every region is labelled Unknown.
func NewFaceProcessor(detector RegionDetector, opts Options, logger *logger.Logger) (*Processor, error) {
	if detector == nil {
		return nil, ErrNilDetector
	}

	return &Processor{
		detector: detector,
		labeler:  unknownLabeler{},
		opts:     opts,
		logger:   logger,
	}, nil
}

// NewMaskProcessor builds a processor that classifies every region with classifier.
func NewMaskProcessor(detector RegionDetector, classifier RegionClassifier, opts Options, logger *logger.Logger) (*Processor, error) {
	if detector == nil {
		return nil, ErrNilDetector
	}
	if classifier == nil {
		return nil, ErrNilClassifier
	}
	if opts.InputSize.X <= 0 || opts.InputSize.Y <= 0 {
		return nil, fmt.Errorf("invalid classifier input size %dx%d", opts.InputSize.X, opts.InputSize.Y)
	}
	if opts.Threshold <= 0 || opts.Threshold >= 1 {
		return nil, fmt.Errorf("classification threshold must be in (0,1), got %v", opts.Threshold)
	}

	return &Processor{
		detector: detector,
		labeler: classifierLabeler{
			classifier: classifier,
			inputSize:  opts.InputSize,
			threshold:  opts.Threshold,
		},
		opts:   opts,
		logger: logger,
	}, nil
}

// Process mirrors (optionally), detects, classifies and annotates frame in place.
// RegionCount includes degenerate regions, which are neither classified nor drawn.
// A classifier failure only affects its own region; the returned error is
// reserved for failures that make the whole frame unusable.
func (p *Processor) Process(frame *gocv.Mat) (dto.FrameResult, error) {
	if frame == nil || frame.Empty() || frame.Rows() <= 0 || frame.Cols() <= 0 {
		return dto.FrameResult{}, ErrEmptyFrame
	}

	if p.opts.Mirror {
		if err := Mirror(*frame, frame); err != nil {
			return dto.FrameResult{}, fmt.Errorf("failed to mirror frame: %w", err)
		}
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if err := toGray(*frame, &gray); err != nil {
		return dto.FrameResult{}, fmt.Errorf("failed to convert frame to grayscale: %w", err)
	}

	detected, err := p.detector.Detect(gray)
	if err != nil {
		return dto.FrameResult{}, fmt.Errorf("face detection failed: %w", err)
	}

	result := dto.FrameResult{
		RegionCount: len(detected),
		Regions:     make([]dto.RegionResult, 0, len(detected)),
	}
	width, height := frame.Cols(), frame.Rows()

	// Classify everything before drawing so no crop contains another region's box.
	for i, rect := range detected {
		region := dto.RegionResult{
			Index:    i + 1,
			Detected: rect,
			Box:      model.ClampRegion(rect, width, height),
		}

		if model.IsDegenerate(region.Box) {
			region.Skipped = true
			p.logger.Warning("Skipping degenerate face %d at coordinates: %d, %d, %d, %d",
				region.Index, rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
			result.Regions = append(result.Regions, region)
			continue
		}

		classification, attempted, err := p.labeler.label(*frame, region.Box)
		if attempted {
			result.ClassifiedCount++
		}
		if err != nil {
			p.logger.Error("Error during mask prediction for face %d at coordinates: %d, %d, %d, %d: %v",
				region.Index, region.Box.Min.X, region.Box.Min.Y, region.Box.Max.X, region.Box.Max.Y, err)
		}
		region.Classification = classification
		result.Regions = append(result.Regions, region)
	}

	for _, region := range result.Regions {
		if region.Skipped {
			continue
		}
		if err := p.annotate(frame, region); err != nil {
			return result, err
		}
		p.logger.Info("Detected face %d at coordinates: %d, %d, %d, %d - Label: %s%s",
			region.Index, region.Box.Min.X, region.Box.Min.Y, region.Box.Max.X, region.Box.Max.Y,
			region.Classification.Label, confidenceSuffix(region.Classification))
	}

	if p.opts.ShowCount {
		white := color.RGBA{R: 255, G: 255, B: 255, A: 0}
		text := fmt.Sprintf("Faces: %d", result.RegionCount)
		if err := gocv.PutText(frame, text, image.Pt(10, 30), gocv.FontHersheySimplex, 1, white, 2); err != nil {
			return result, fmt.Errorf("failed to draw face count: %w", err)
		}
	}

	return result, nil
}

// annotate draws the clamped box and its caption.
func (p *Processor) annotate(frame *gocv.Mat, region dto.RegionResult) error {
	c := region.Classification.Label.Color()

	if err := gocv.Rectangle(frame, region.Box, c, 2); err != nil {
		return fmt.Errorf("failed to draw rectangle: %w", err)
	}

	caption, pt := p.labeler.caption(region.Index, region.Box, region.Classification)
	if err := gocv.PutText(frame, caption, pt, gocv.FontHersheySimplex, 0.7, c, 2); err != nil {
		return fmt.Errorf("failed to draw text: %w", err)
	}

	return nil
}

// Mirror flips src horizontally into dst. dst may be src.
func Mirror(src gocv.Mat, dst *gocv.Mat) error {
	return gocv.Flip(src, dst, 1)
}

func confidenceSuffix(c model.Classification) string {
	if !c.HasConfidence {
		return ""
	}
	return fmt.Sprintf(" (%.2f)", c.Confidence)
}

// toGray writes a single-channel view of frame into gray without touching frame.
func toGray(frame gocv.Mat, gray *gocv.Mat) error {
	switch frame.Channels() {
	case 1:
		return frame.CopyTo(gray)
	case 3:
		return gocv.CvtColor(frame, gray, gocv.ColorBGRToGray)
	case 4:
		return gocv.CvtColor(frame, gray, gocv.ColorBGRAToGray)
	default:
		return fmt.Errorf("unsupported channel count %d", frame.Channels())
	}
}
