package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jmallik/capline/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List rendered caption outputs",
	Long: `List every output under the output root with its source media,
trim window, font and chunk count.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	st := store.NewStore(cfg.OutputRoot, logger)

	ids, err := st.ListOutputs()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("No outputs yet.")
		return nil
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Source", "Trim", "Font", "Chunks", "Rendered"})

	for _, id := range ids {
		meta, err := st.LoadMetadata(id)
		if err != nil {
			logger.Warnw("skipping output without metadata", "output_id", id, "error", err)
			continue
		}

		trim := "full"
		if meta.VideoTrim != nil {
			trim = fmt.Sprintf("%.1fs-%.1fs", meta.VideoTrim.Start, meta.VideoTrim.End)
		}

		chunkCount := 0
		if chunks, err := st.LoadChunks(id); err == nil {
			chunkCount = len(chunks)
		}

		rendered := "no"
		if st.HasRenderedOutput(id) {
			rendered = "yes"
		}

		tw.AppendRow(table.Row{
			id,
			meta.AudioPath,
			trim,
			fmt.Sprintf("%s %.0f", meta.Font.Applied, meta.Font.Size),
			chunkCount,
			rendered,
		})
	}

	tw.Render()
	return nil
}
