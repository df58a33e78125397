package capture

import (
	"fmt"

	"maskify/internal/logger"

	"gocv.io/x/gocv"
)

// Source yields frames one at a time. Read blocks until a frame is
// available and reports false when none can be produced.
type Source interface {
	IsOpen() bool
	Read(frame *gocv.Mat) bool
	Close() error
}

// Camera is a Source backed by a local video device.
type Camera struct {
	capture *gocv.VideoCapture
	index   int
	logger  *logger.Logger
}

// Open opens the camera at index.
func Open(index int, logger *logger.Logger) (*Camera, error) {
	vc, err := gocv.OpenVideoCapture(index)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", index, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("camera %d is not available", index)
	}

	logger.Info("Camera successfully initialized.")
	return &Camera{
		capture: vc,
		index:   index,
		logger:  logger,
	}, nil
}

func (c *Camera) IsOpen() bool {
	return c.capture != nil && c.capture.IsOpened()
}

// Read grabs the next frame into frame. An empty frame counts as a failed read.
func (c *Camera) Read(frame *gocv.Mat) bool {
	if !c.IsOpen() {
		return false
	}
	return readOK(c.capture.Read(frame), *frame)
}

// readOK treats a successful grab that produced no pixels as a failed read.
func readOK(grabbed bool, frame gocv.Mat) bool {
	return grabbed && !frame.Empty()
}

// Close releases the device. Calling it more than once is safe.
func (c *Camera) Close() error {
	if c.capture == nil {
		return nil
	}
	err := c.capture.Close()
	c.capture = nil
	if err != nil {
		return fmt.Errorf("failed to release camera %d: %w", c.index, err)
	}
	return nil
}
