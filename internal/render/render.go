package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/jmallik/capline/internal/caption"
	ffmpegbin "github.com/jmallik/capline/internal/ffmpeg"
	"github.com/jmallik/capline/internal/layout"
	"github.com/jmallik/capline/internal/logging"
)

// Job carries everything the compositing sink needs: ordered chunks,
// the resolved per-chunk layouts, the requested style, the audio
// source and the target path.
type Job struct {
	Chunks     []caption.Chunk
	Layouts    []layout.Result
	Style      caption.Style
	AudioPath  string
	AudioTrim  *caption.TrimWindow // cut the audio to this window of the source
	OutputPath string
	Width      int
	Height     int
	FPS        int
	Duration   float64 // total timeline in seconds; 0 derives it from the chunks
}

// Result reports the font that was actually applied, which may differ
// from the requested style after fallback.
type Result struct {
	AppliedFamily string
	AppliedFile   string
}

// Renderer is the compositing collaborator: chunks plus style in, a
// playable media file out.
type Renderer interface {
	Render(ctx context.Context, job Job) (*Result, error)
}

// FFmpegRenderer burns the captions over a solid background and muxes
// the source audio.
type FFmpegRenderer struct {
	log *logging.Logger
}

func NewFFmpegRenderer(log *logging.Logger) *FFmpegRenderer {
	if log == nil {
		log = logging.NewNop()
	}
	return &FFmpegRenderer{log: log}
}

func (r *FFmpegRenderer) Render(ctx context.Context, job Job) (*Result, error) {
	if len(job.Chunks) == 0 {
		return nil, fmt.Errorf("cannot render without caption chunks")
	}

	duration := job.Duration
	for _, c := range job.Chunks {
		if c.End > duration {
			duration = c.End
		}
	}
	if duration <= 0 {
		duration = 0.5
	}

	applied := resolveAppliedFont(job.Layouts, job.Style)

	assDoc := buildASS(job.Chunks, job.Layouts, applied.AppliedFamily, job.Style, job.Width, job.Height)
	assFile, err := os.CreateTemp("", "capline-*.ass")
	if err != nil {
		return nil, fmt.Errorf("failed to create subtitle file: %w", err)
	}
	assPath := assFile.Name()
	defer os.Remove(assPath)
	if _, err := assFile.WriteString(assDoc); err != nil {
		assFile.Close()
		return nil, fmt.Errorf("failed to write subtitle file: %w", err)
	}
	if err := assFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close subtitle file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(job.OutputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return nil, err
	}

	r.log.Debugw("rendering caption video",
		"chunks", len(job.Chunks),
		"duration", duration,
		"font", applied.AppliedFamily,
		"output", job.OutputPath,
	)

	subtitleArgs := ffmpeg.KwArgs{}
	if applied.AppliedFile != "" {
		subtitleArgs["fontsdir"] = filepath.Dir(applied.AppliedFile)
	}

	background := ffmpeg.Input(
		fmt.Sprintf("color=c=black:s=%dx%d:r=%d:d=%.3f", job.Width, job.Height, job.FPS, duration),
		ffmpeg.KwArgs{"f": "lavfi"},
	)
	video := background.Filter("ass", ffmpeg.Args{assPath}, subtitleArgs)
	sound := ffmpeg.Input(job.AudioPath).Audio()
	if job.AudioTrim != nil && !job.AudioTrim.Empty() {
		sound = sound.
			Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{
				"start": job.AudioTrim.Start,
				"end":   job.AudioTrim.End,
			}).
			Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"})
	}

	err = ffmpeg.Output(
		[]*ffmpeg.Stream{video, sound},
		job.OutputPath,
		ffmpeg.KwArgs{
			"c:v":      "libx264",
			"pix_fmt":  "yuv420p",
			"c:a":      "aac",
			"shortest": "",
		},
	).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg render failed: %w", err)
	}

	return &applied, nil
}

// resolveAppliedFont reports what the layout search settled on. The
// first chunk's winner is representative: later chunks are seeded with
// it and only differ when they had to fall back further.
func resolveAppliedFont(layouts []layout.Result, style caption.Style) Result {
	if len(layouts) == 0 {
		return Result{AppliedFamily: style.Family}
	}

	cand := layouts[0].Candidate
	switch {
	case cand.File != "":
		family := style.Family
		if family == "" {
			base := filepath.Base(cand.File)
			family = base[:len(base)-len(filepath.Ext(base))]
		}
		return Result{AppliedFamily: family, AppliedFile: cand.File}
	case cand.Family != "":
		return Result{AppliedFamily: cand.Family}
	default:
		// renderer default
		return Result{AppliedFamily: "Sans"}
	}
}
