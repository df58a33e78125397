package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"maskify/internal/dto"
	"maskify/internal/logger"
	"maskify/internal/model"
	"maskify/internal/services/capture"
	"maskify/internal/services/display"

	"go.uber.org/multierr"
	"gocv.io/x/gocv"
)

// State describes where the capture loop is in its lifecycle.
type State int

const (
	Running State = iota
	StoppedByUser
	StoppedByEndOfStream
	StoppedByFatalError
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case StoppedByUser:
		return "stopped by user"
	case StoppedByEndOfStream:
		return "stopped by end of stream"
	case StoppedByFatalError:
		return "stopped by fatal error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var ErrIteration = errors.New("frame iteration failed")

// FrameProcessor annotates a frame in place.
type FrameProcessor interface {
	Process(frame *gocv.Mat) (dto.FrameResult, error)
}

// Stats are running totals for one loop.
type Stats struct {
	Frames int
	Failed int
	Faces  int
	Labels map[model.Label]int
}

type Manager struct {
	source    capture.Source
	processor FrameProcessor
	sink      display.Sink
	logger    *logger.Logger

	state State
	stats Stats

	closeOnce sync.Once
	closeErr  error
}

func NewManager(source capture.Source, processor FrameProcessor, sink display.Sink, logger *logger.Logger) (*Manager, error) {
	if source == nil {
		return nil, errors.New("manager requires a frame source")
	}
	if processor == nil {
		return nil, errors.New("manager requires a frame processor")
	}
	if sink == nil {
		return nil, errors.New("manager requires a display sink")
	}

	return &Manager{
		source:    source,
		processor: processor,
		sink:      sink,
		logger:    logger,
		state:     Running,
		stats:     Stats{Labels: make(map[model.Label]int)},
	}, nil
}

// Run reads, processes and shows frames until the stream ends, the user
// presses the stop key or ctx is cancelled. Resources are released before
// Run returns; the returned error only reports cleanup failures.
func (m *Manager) Run(ctx context.Context) (State, error) {
	defer m.Close()

	if !m.source.IsOpen() {
		m.state = StoppedByFatalError
		m.logger.Error("Frame source is not open")
		return m.state, m.Close()
	}

	frame := gocv.NewMat()
	defer frame.Close()

	m.state = Running
	m.logger.Info("🎬 Capture loop started")

	for m.state == Running {
		select {
		case <-ctx.Done():
			m.logger.Info("Stop signal received, shutting down.")
			m.state = StoppedByUser
			continue
		default:
		}

		if !m.source.Read(&frame) {
			m.logger.Warning("Failed to capture frame.")
			m.state = StoppedByEndOfStream
			continue
		}

		if err := m.iterate(&frame); err != nil {
			m.stats.Failed++
			m.logger.Error("%v", err)
			continue
		}

		if err := m.sink.Show(frame); err != nil {
			m.logger.Error("Display error: %v", err)
		}
		if m.sink.StopRequested() {
			m.logger.Info("User pressed the stop key to exit the application.")
			m.state = StoppedByUser
		}
	}

	m.logger.Info("🛑 Capture loop %s after %d frame(s), %d face(s) detected (%d mask, %d no mask), %d failed iteration(s)",
		m.state, m.stats.Frames, m.stats.Faces, m.stats.Labels[model.Mask], m.stats.Labels[model.NoMask], m.stats.Failed)
	return m.state, m.Close()
}

// iterate processes one frame; panics are contained to the iteration.
func (m *Manager) iterate(frame *gocv.Mat) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrIteration, r)
		}
	}()

	m.stats.Frames++
	result, err := m.processor.Process(frame)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIteration, err)
	}
	m.stats.Faces += result.RegionCount
	for _, label := range result.Labels() {
		m.stats.Labels[label]++
	}
	return nil
}

func (m *Manager) Stats() Stats {
	return m.stats
}

// Close releases the source and closes the sink. Only the first call does
// any work; later calls return the same error.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = multierr.Append(m.source.Close(), m.sink.Close())
		if m.closeErr != nil {
			m.logger.Error("Failed to release resources: %v", m.closeErr)
			return
		}
		m.logger.Info("Resources released successfully.")
	})
	return m.closeErr
}
