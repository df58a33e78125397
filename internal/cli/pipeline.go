package cli

import (
	"fmt"

	"maskify/internal/app"
	"maskify/internal/services"

	"github.com/spf13/cobra"
)

func newDetectCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Detect faces on the webcam stream",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, st, app.VariantDetect)
		},
	}
}

func newMaskCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "mask",
		Short: "Detect faces and classify whether each one wears a mask",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, st, app.VariantMask)
		},
	}
}

// runPipeline returns an error only when the pipeline could not start or
// stopped on a fatal error. Cleanup failures are reported but do not change
// the exit status.
func runPipeline(cmd *cobra.Command, st *rootState, variant app.Variant) error {
	a, err := app.New(st.cfg, variant)
	if err != nil {
		return err
	}

	state, err := a.Run(cmd.Context())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  Cleanup after %s run %s: %v\n", variant, a.RunID(), err)
	}
	if state == services.StoppedByFatalError {
		return fmt.Errorf("%s pipeline %s", variant, state)
	}
	return nil
}
