package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jmallik/capline/internal/pipeline"
)

var updateCmd = &cobra.Command{
	Use:   "update [output_id]",
	Short: "Re-slice an existing output with a new trim or style",
	Long: `Re-slice a previously processed output against a new trim window
and/or caption style, reusing the stored word timestamps. No
transcription happens; the result is rendered into a fresh output and
the original is left untouched.

Trim times are given on the original clip's timeline. Omitting the
trim flags restores the full clip.

Examples:
  capline update 3f2a9c... --trim-start 10 --trim-end 30
  capline update 3f2a9c... --font-color yellow
  capline update 3f2a9c...`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	registerTrimFlags(updateCmd)
	registerStyleFlags(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	engine, err := buildEngine(ctx, cmd, false)
	if err != nil {
		return err
	}

	out, err := engine.Update(ctx, pipeline.UpdateRequest{
		OutputID: args[0],
		Trim:     trimFromFlags(cmd),
		Style:    styleFromFlags(cmd),
	})
	if err != nil {
		return err
	}

	printOutput(out)
	return nil
}
