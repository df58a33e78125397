package modelcheck

import (
	"fmt"
	"os"

	"gocv.io/x/gocv"
)

// Report summarises a model file and whether this OpenCV build can load it.
type Report struct {
	Path          string
	Format        Format
	Size          int64
	GoCVVersion   string
	OpenCVVersion string
	Loadable      bool
	LoadError     string
}

// Inspect identifies the model at path and, for formats OpenCV understands,
// tries to load it. configPath is optional and passed to ReadNet as is.
func Inspect(path, configPath string) (Report, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Report{}, fmt.Errorf("model file not found: %w", err)
	}

	format, err := DetectFile(path)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Path:          path,
		Format:        format,
		Size:          info.Size(),
		GoCVVersion:   gocv.Version(),
		OpenCVVersion: gocv.OpenCVVersion(),
	}

	if !format.OpenCVLoadable() {
		report.LoadError = fmt.Sprintf("%s models cannot be read by OpenCV DNN, export the model to ONNX", format)
		return report, nil
	}

	net := gocv.ReadNet(path, configPath)
	defer net.Close()
	if net.Empty() {
		report.LoadError = "OpenCV DNN returned an empty network"
		return report, nil
	}

	report.Loadable = true
	return report, nil
}
