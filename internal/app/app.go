package app

import (
	"context"
	"errors"
	"fmt"

	"maskify/internal/config"
	"maskify/internal/logger"
	"maskify/internal/services"
	"maskify/internal/services/ai"
	"maskify/internal/services/capture"
	"maskify/internal/services/display"
	"maskify/internal/services/processor"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// ErrFatalInit wraps every failure that prevents the pipeline from starting.
var ErrFatalInit = errors.New("fatal initialization error")

// Variant selects which pipeline App runs.
type Variant string

const (
	VariantDetect Variant = "detect"
	VariantMask   Variant = "mask"
)

func (v Variant) windowTitle() string {
	if v == VariantMask {
		return "Maskify - Mask Detection"
	}
	return "Face Detection"
}

type App struct {
	config     *config.Config
	variant    Variant
	runID      string
	base       *logger.Logger
	logger     *logger.Logger
	detector   *ai.FaceDetectorService
	classifier *ai.MaskClassifierService
	manager    *services.Manager
}

// New validates cfg and acquires the camera, window and models. Any failure
// releases what was already acquired and is wrapped in ErrFatalInit.
func New(cfg *config.Config, variant Variant) (*App, error) {
	if err := validateFor(cfg, variant); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatalInit, err)
	}

	base, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatalInit, err)
	}

	a := &App{
		config:  cfg,
		variant: variant,
		runID:   uuid.NewString(),
	}
	a.logger = base.WithFields(logger.Fields{"run": a.runID, "variant": string(variant)})

	var closers []func() error
	fail := func(err error) (*App, error) {
		a.logger.Error("Initialization failed: %v", err)
		for i := len(closers) - 1; i >= 0; i-- {
			err = multierr.Append(err, closers[i]())
		}
		err = multierr.Append(err, base.Close())
		return nil, fmt.Errorf("%w: %w", ErrFatalInit, err)
	}

	a.detector, err = ai.NewFaceDetectorService(cfg, a.logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, a.detector.Close)

	opts := processor.OptionsFromConfig(cfg)
	var proc *processor.Processor
	if variant == VariantMask {
		a.classifier, err = ai.NewMaskClassifierService(cfg, a.logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, a.classifier.Close)

		opts.InputSize = a.classifier.InputSize()
		opts.ShowCount = true
		proc, err = processor.NewMaskProcessor(a.detector, a.classifier, opts, a.logger)
	} else {
		proc, err = processor.NewFaceProcessor(a.detector, opts, a.logger)
	}
	if err != nil {
		return fail(err)
	}

	camera, err := capture.Open(cfg.CameraIndex, a.logger)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, camera.Close)

	window, err := display.NewWindow(variant.windowTitle(), cfg.StopKey)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, window.Close)

	a.manager, err = services.NewManager(camera, proc, window, a.logger)
	if err != nil {
		return fail(err)
	}

	a.base = base
	return a, nil
}

func validateFor(cfg *config.Config, variant Variant) error {
	switch variant {
	case VariantDetect:
		return cfg.Validate()
	case VariantMask:
		return cfg.ValidateMask()
	default:
		return fmt.Errorf("unknown pipeline variant %q", variant)
	}
}

// Run drives the capture loop until it stops and releases every resource.
func (a *App) Run(ctx context.Context) (services.State, error) {
	a.logger.Info("🚀 Starting %s pipeline on camera %d", a.variant, a.config.CameraIndex)

	// Close repeats the manager's cleanup error, so Run's copy is dropped.
	state, _ := a.manager.Run(ctx)
	return state, a.Close()
}

// Close releases the models and the log file. The camera and window are
// owned by the manager.
func (a *App) Close() error {
	var err error
	if a.manager != nil {
		err = multierr.Append(err, a.manager.Close())
	}
	if a.classifier != nil {
		err = multierr.Append(err, a.classifier.Close())
		a.classifier = nil
	}
	if a.detector != nil {
		err = multierr.Append(err, a.detector.Close())
		a.detector = nil
	}
	if a.base != nil {
		err = multierr.Append(err, a.base.Close())
		a.base = nil
	}
	return err
}

func (a *App) RunID() string {
	return a.runID
}
