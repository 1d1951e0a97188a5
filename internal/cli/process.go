package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jmallik/capline/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process [media_file]",
	Short: "Transcribe media and render a caption video",
	Long: `Transcribe the given audio or video file, segment the speech into
caption chunks and render them over the audio as a vertical video.

Video inputs have their audio track extracted automatically. An
optional trim window cuts the result to a sub-range of the clip.

Examples:
  capline process podcast.mp3
  capline process clip.mp4 --trim-start 12 --trim-end 45
  capline process song.mp3 --font-family Impact --font-size 80 --font-color yellow
  capline process talk.mp3 --provider gemini --api-key YOUR_KEY`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().
		StringP("api-key", "k", "", "Transcription API key (or set OPENAI_API_KEY / GEMINI_API_KEY)")
	processCmd.Flags().
		String("provider", "", "Transcription provider (openai, gemini)")
	processCmd.Flags().
		String("model", "", "Transcription model to use")
	registerTrimFlags(processCmd)
	registerStyleFlags(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}

	engine, err := buildEngine(ctx, cmd, true)
	if err != nil {
		return err
	}

	req := pipeline.ProcessRequest{
		MediaPath: mediaPath,
		Style:     styleFromFlags(cmd),
	}
	if trim := trimFromFlags(cmd); !trim.Empty() {
		req.Trim = &trim
	}

	out, err := engine.Process(ctx, req)
	if err != nil {
		return err
	}

	printOutput(out)
	return nil
}

func printOutput(out *pipeline.Output) {
	absVideo, _ := filepath.Abs(out.VideoPath)
	if out.Cached {
		fmt.Printf("Cached result reused: %s\n", out.OutputID)
	} else {
		fmt.Printf("Caption video rendered: %s\n", out.OutputID)
	}
	fmt.Printf("  Video: %s\n", absVideo)
	fmt.Printf("  Chunks: %d\n", len(out.Chunks))
	if out.AppliedFont != "" {
		fmt.Printf("  Font: %s\n", out.AppliedFont)
	}
}
