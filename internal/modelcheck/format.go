package modelcheck

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format is the on-disk container of a model file.
type Format int

const (
	FormatUnknown Format = iota
	FormatHDF5
	FormatKeras
	FormatONNX
	FormatTensorFlow
	FormatCaffe
)

func (f Format) String() string {
	switch f {
	case FormatHDF5:
		return "HDF5 (Keras legacy)"
	case FormatKeras:
		return "Keras v3 archive"
	case FormatONNX:
		return "ONNX"
	case FormatTensorFlow:
		return "TensorFlow frozen graph"
	case FormatCaffe:
		return "Caffe"
	default:
		return "unknown"
	}
}

// OpenCVLoadable reports whether the OpenCV DNN module can read the format directly.
func (f Format) OpenCVLoadable() bool {
	switch f {
	case FormatONNX, FormatTensorFlow, FormatCaffe:
		return true
	default:
		return false
	}
}

var (
	hdf5Magic = []byte("\x89HDF\r\n\x1a\n")
	zipMagic  = []byte("PK\x03\x04")
)

var ErrEmptyModel = errors.New("model file is empty")

// DetectFile identifies the format of the file at path.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	return Detect(f, path)
}

// Detect identifies a model from its leading bytes, falling back to the
// extension of name for formats without a signature.
func Detect(r io.Reader, name string) (Format, error) {
	header := make([]byte, len(hdf5Magic))
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("failed to read model header: %w", err)
	}
	if n == 0 {
		return FormatUnknown, ErrEmptyModel
	}
	header = header[:n]

	ext := strings.ToLower(filepath.Ext(name))

	switch {
	case bytes.HasPrefix(header, hdf5Magic):
		return FormatHDF5, nil
	case bytes.HasPrefix(header, zipMagic) && ext == ".keras":
		return FormatKeras, nil
	}

	switch ext {
	case ".onnx":
		return FormatONNX, nil
	case ".pb":
		return FormatTensorFlow, nil
	case ".caffemodel":
		return FormatCaffe, nil
	default:
		return FormatUnknown, nil
	}
}
