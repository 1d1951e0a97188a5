package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmallik/capline/internal/config"
	"github.com/jmallik/capline/internal/logging"
)

var (
	verbose    bool
	configPath string
	outputRoot string

	cfg    *config.Config
	logger *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "capline",
	Short: "Turn speech into caption videos",
	Long: `Capline transcribes audio or video, slices the speech into
timed caption chunks and renders them as a vertical caption video.

Outputs are content-addressed: repeating a request with the same media,
trim window and style returns the existing result instead of paying for
transcription and rendering again.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if outputRoot != "" {
			cfg.OutputRoot = outputRoot
		}
		logger = logging.NewLogger(verbose)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().
		StringVar(&outputRoot, "output-root", "", "Directory for rendered outputs (overrides config)")
}
