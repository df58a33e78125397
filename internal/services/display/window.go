package display

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Sink presents annotated frames and reports whether the user asked to stop.
type Sink interface {
	Show(frame gocv.Mat) error
	StopRequested() bool
	Close() error
}

// Window is a Sink backed by a HighGUI window. The key pressed during the
// last Show is kept until StopRequested is called.
type Window struct {
	window  *gocv.Window
	stopKey int
	lastKey int
}

// NewWindow opens a window titled title. stopKey must be a single character.
func NewWindow(title, stopKey string) (*Window, error) {
	if len(stopKey) != 1 {
		return nil, fmt.Errorf("stop key must be a single character, got %q", stopKey)
	}

	return &Window{
		window:  gocv.NewWindow(title),
		stopKey: int(stopKey[0]),
		lastKey: -1,
	}, nil
}

// Show displays frame and polls the keyboard. The key is polled even when
// drawing fails so the stop key keeps working.
func (w *Window) Show(frame gocv.Mat) error {
	if w.window == nil {
		return errors.New("window is closed")
	}
	err := w.window.IMShow(frame)
	w.lastKey = w.window.WaitKey(1)
	if err != nil {
		return fmt.Errorf("failed to show frame: %w", err)
	}
	return nil
}

func (w *Window) StopRequested() bool {
	key := w.lastKey
	w.lastKey = -1
	return IsStopKey(key, w.stopKey)
}

func (w *Window) Close() error {
	if w.window == nil {
		return nil
	}
	err := w.window.Close()
	w.window = nil
	return err
}

// IsStopKey compares the low byte of a WaitKey result with stopKey.
// WaitKey returns -1 when no key was pressed.
func IsStopKey(key, stopKey int) bool {
	if key < 0 {
		return false
	}
	return key&0xFF == stopKey
}
