package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"maskify/internal/config"

	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

// options mirrors the persistent flags. A flag only overrides the loaded
// configuration when it was set on the command line.
type options struct {
	cameraIndex int
	mirror      bool
	cascadePath string
	modelPath   string
	modelConfig string
	threshold   float64
	inputWidth  int
	inputHeight int
	logDir      string
	logFile     string
	stopKey     string
}

type rootState struct {
	opts options
	cfg  *config.Config
}

// NewRootCmd builds the maskify command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootState{})
}

func newRootCmd(st *rootState) *cobra.Command {
	root := &cobra.Command{
		Use:           "maskify",
		Short:         "Webcam face detection and face mask classification",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			st.cfg = config.Load()
			applyFlags(cmd, st.cfg, &st.opts)
			return nil
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	flags := root.PersistentFlags()
	flags.IntVar(&st.opts.cameraIndex, "camera", 0, "Camera device index (env CAMERA_INDEX)")
	flags.BoolVar(&st.opts.mirror, "mirror", true, "Flip frames horizontally before detection (env MIRROR)")
	flags.StringVar(&st.opts.cascadePath, "cascade", "", "Haar cascade for frontal faces (env CASCADE_PATH)")
	flags.StringVar(&st.opts.modelPath, "model", "", "Mask classifier model file (env MASK_MODEL_PATH)")
	flags.StringVar(&st.opts.modelConfig, "model-config", "", "Optional network config file (env MASK_CONFIG_PATH)")
	flags.Float64Var(&st.opts.threshold, "threshold", 0.5, "Mask score threshold in (0,1) (env CLASSIFICATION_THRESHOLD)")
	flags.IntVar(&st.opts.inputWidth, "input-width", 224, "Classifier input width (env INPUT_WIDTH)")
	flags.IntVar(&st.opts.inputHeight, "input-height", 224, "Classifier input height (env INPUT_HEIGHT)")
	flags.StringVar(&st.opts.logDir, "log-dir", "", "Log directory (env LOG_DIR)")
	flags.StringVar(&st.opts.logFile, "log-file", "", "Log file name (env LOG_FILE)")
	flags.StringVar(&st.opts.stopKey, "stop-key", "q", "Key that stops the capture loop (env STOP_KEY)")

	root.AddCommand(
		newDetectCmd(st),
		newMaskCmd(st),
		newInspectCmd(st),
	)
	return root
}

func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *options) {
	changed := cmd.Flags().Changed

	if changed("camera") {
		cfg.CameraIndex = opts.cameraIndex
	}
	if changed("mirror") {
		cfg.Mirror = opts.mirror
	}
	if changed("cascade") {
		cfg.CascadePath = opts.cascadePath
	}
	if changed("model") {
		cfg.MaskModelPath = opts.modelPath
	}
	if changed("model-config") {
		cfg.MaskConfigPath = opts.modelConfig
	}
	if changed("threshold") {
		cfg.ClassificationThreshold = opts.threshold
	}
	if changed("input-width") {
		cfg.InputWidth = opts.inputWidth
	}
	if changed("input-height") {
		cfg.InputHeight = opts.inputHeight
	}
	if changed("log-dir") {
		cfg.LogDirectory = opts.logDir
	}
	if changed("log-file") {
		cfg.LogFile = opts.logFile
	}
	if changed("stop-key") {
		cfg.StopKey = opts.stopKey
	}
}

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	// Ctrl+C and SIGTERM stop the capture loop like the stop key does.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
