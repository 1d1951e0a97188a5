package ffmpeg

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
)

// BinaryPaths holds the resolved ffmpeg and ffprobe executables.
type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

var (
	ensureOnce sync.Once
	ensureErr  error
	ensurePath BinaryPaths
)

// Ensure resolves the ffmpeg binaries once per process. Explicit env
// overrides win; otherwise the binaries must be on PATH.
func Ensure() (BinaryPaths, error) {
	ensureOnce.Do(func() {
		ensurePath, ensureErr = resolve()
	})
	return ensurePath, ensureErr
}

func FFmpegPath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFmpeg, nil
}

func FFprobePath() (string, error) {
	paths, err := Ensure()
	if err != nil {
		return "", err
	}
	return paths.FFprobe, nil
}

func resolve() (BinaryPaths, error) {
	ffmpegPath := os.Getenv("CAPLINE_FFMPEG_PATH")
	ffprobePath := os.Getenv("CAPLINE_FFPROBE_PATH")

	if ffmpegPath == "" {
		if found, err := exec.LookPath("ffmpeg"); err == nil {
			ffmpegPath = found
		}
	}
	if ffprobePath == "" {
		if found, err := exec.LookPath("ffprobe"); err == nil {
			ffprobePath = found
		}
	}

	if ffmpegPath == "" || ffprobePath == "" {
		return BinaryPaths{}, fmt.Errorf(
			"ffmpeg/ffprobe not found: install them or set CAPLINE_FFMPEG_PATH and CAPLINE_FFPROBE_PATH")
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}
