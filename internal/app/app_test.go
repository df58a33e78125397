package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"maskify/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		CameraIndex:             0,
		Mirror:                  true,
		CascadePath:             filepath.Join(dir, "missing_cascade.xml"),
		MaskModelPath:           filepath.Join(dir, "missing_model.onnx"),
		ClassificationThreshold: 0.5,
		InputWidth:              224,
		InputHeight:             224,
		LogDirectory:            filepath.Join(dir, "logs"),
		LogFile:                 "maskify.log",
		StopKey:                 "q",
	}
}

func TestNew_UnknownVariant(t *testing.T) {
	_, err := New(testConfig(t), Variant("thermal"))
	if !errors.Is(err, ErrFatalInit) {
		t.Fatalf("Expected ErrFatalInit, got %v", err)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.ClassificationThreshold = 1.5

	_, err := New(cfg, VariantDetect)
	if !errors.Is(err, ErrFatalInit) {
		t.Fatalf("Expected ErrFatalInit, got %v", err)
	}
}

func TestNew_MaskRequiresModelPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaskModelPath = ""

	_, err := New(cfg, VariantMask)
	if !errors.Is(err, ErrFatalInit) {
		t.Fatalf("Expected ErrFatalInit, got %v", err)
	}
}

func TestNew_MissingCascadeIsFatal(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(cfg, VariantDetect)
	if !errors.Is(err, ErrFatalInit) {
		t.Fatalf("Expected ErrFatalInit, got %v", err)
	}
	if !strings.Contains(err.Error(), "missing_cascade.xml") {
		t.Errorf("Expected error to name the cascade file, got %v", err)
	}

	data, readErr := os.ReadFile(cfg.LogPath())
	if readErr != nil {
		t.Fatalf("Expected log file to be written: %v", readErr)
	}
	if !strings.Contains(string(data), "Initialization failed") {
		t.Errorf("Expected initialization failure in log, got:\n%s", data)
	}
}

func TestVariant_WindowTitle(t *testing.T) {
	tests := []struct {
		variant Variant
		want    string
	}{
		{VariantDetect, "Face Detection"},
		{VariantMask, "Maskify - Mask Detection"},
	}
	for _, tt := range tests {
		if got := tt.variant.windowTitle(); got != tt.want {
			t.Errorf("%s: expected title %q, got %q", tt.variant, tt.want, got)
		}
	}
}
