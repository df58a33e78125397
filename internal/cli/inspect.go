package cli

import (
	"fmt"

	"maskify/internal/modelcheck"

	"github.com/spf13/cobra"
)

const inspectLong = `Inspect identifies HDF5, Keras, ONNX, TensorFlow and Caffe model files, prints the OpenCV
runtime version and tries to load loadable formats with the OpenCV DNN module.
Without an argument the configured mask model is inspected.`

func newInspectCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [model-file]",
		Short: "Report the format of a model file and whether OpenCV can load it",
		Long:  inspectLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := st.cfg.MaskModelPath
			if len(args) == 1 {
				path = args[0]
			}

			report, err := modelcheck.Inspect(path, st.cfg.MaskConfigPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Model:   %s (%d bytes)\n", report.Path, report.Size)
			fmt.Fprintf(out, "Format:  %s\n", report.Format)
			fmt.Fprintf(out, "OpenCV:  %s (gocv %s)\n", report.OpenCVVersion, report.GoCVVersion)
			if report.Loadable {
				fmt.Fprintln(out, "Status:  ✅ loadable by OpenCV DNN")
			} else {
				fmt.Fprintf(out, "Status:  ❌ not loadable: %s\n", report.LoadError)
			}
			return nil
		},
	}
}
