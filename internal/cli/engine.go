package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmallik/capline/internal/cache"
	"github.com/jmallik/capline/internal/caption"
	"github.com/jmallik/capline/internal/pipeline"
	"github.com/jmallik/capline/internal/render"
	"github.com/jmallik/capline/internal/store"
	"github.com/jmallik/capline/internal/transcribe"
)

// buildEngine wires the pipeline from the loaded config and the
// command's flags. The transcriber is only constructed when the
// command actually transcribes; updates run from stored words.
func buildEngine(ctx context.Context, cmd *cobra.Command, needTranscriber bool) (*pipeline.Engine, error) {
	deps := pipeline.Deps{
		Index:    cache.NewIndex(cfg.CacheIndexPath(), logger),
		Store:    store.NewStore(cfg.OutputRoot, logger),
		Renderer: render.NewFFmpegRenderer(logger),
	}

	if needTranscriber {
		provider := transcribe.Provider(cfg.Provider)
		if p, _ := cmd.Flags().GetString("provider"); p != "" {
			provider = transcribe.Provider(p)
		}
		model := cfg.Model
		if m, _ := cmd.Flags().GetString("model"); m != "" {
			model = m
		}

		apiKey, _ := cmd.Flags().GetString("api-key")
		if apiKey == "" {
			apiKey = apiKeyFromEnv(provider)
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%s API key is required: use --api-key or set %s",
				provider, apiKeyEnvVar(provider))
		}

		transcriber, err := transcribe.Factory(ctx, provider, apiKey, transcribe.Options{Model: model})
		if err != nil {
			return nil, fmt.Errorf("failed to create transcriber: %w", err)
		}
		deps.Transcriber = transcriber
	}

	return pipeline.NewEngine(cfg, logger, deps), nil
}

func apiKeyEnvVar(provider transcribe.Provider) string {
	if provider == transcribe.ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func apiKeyFromEnv(provider transcribe.Provider) string {
	return os.Getenv(apiKeyEnvVar(provider))
}

// registerStyleFlags adds the caption appearance flags shared by the
// process and update commands.
func registerStyleFlags(cmd *cobra.Command) {
	cmd.Flags().String("font-family", "", "Caption font family")
	cmd.Flags().Float64("font-size", 0, "Caption font size in points")
	cmd.Flags().String("font-color", "", "Caption color (name or #RRGGBB)")
	cmd.Flags().String("font-weight", "", "Caption weight (e.g. bold)")
	cmd.Flags().String("font-path", "", "Path to a font file to use directly")
}

func styleFromFlags(cmd *cobra.Command) caption.Style {
	family, _ := cmd.Flags().GetString("font-family")
	size, _ := cmd.Flags().GetFloat64("font-size")
	color, _ := cmd.Flags().GetString("font-color")
	weight, _ := cmd.Flags().GetString("font-weight")
	path, _ := cmd.Flags().GetString("font-path")
	return caption.Style{Family: family, Size: size, Color: color, Weight: weight, Path: path}
}

func registerTrimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("trim-start", 0, "Trim window start in seconds")
	cmd.Flags().Float64("trim-end", 0, "Trim window end in seconds")
}

func trimFromFlags(cmd *cobra.Command) caption.TrimWindow {
	start, _ := cmd.Flags().GetFloat64("trim-start")
	end, _ := cmd.Flags().GetFloat64("trim-end")
	return caption.TrimWindow{Start: start, End: end}
}
