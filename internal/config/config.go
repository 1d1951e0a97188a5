package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the engine tunables. Every field has a default; a config
// file only needs the values it wants to override.
type Config struct {
	// Word validation
	MinWordDuration float64 `yaml:"min_word_duration"` // seconds

	// Chunk segmentation
	GapThreshold        float64 `yaml:"gap_threshold"`         // seconds of silence that ends a chunk
	MaxChunkDuration    float64 `yaml:"max_chunk_duration"`    // seconds
	PreferredChunkWords int     `yaml:"preferred_chunk_words"` // soft cap
	MaxChunkWords       int     `yaml:"max_chunk_words"`       // hard cap
	BreakPunctuation    string  `yaml:"break_punctuation"`

	// Frame geometry
	VideoWidth  int `yaml:"video_width"`
	VideoHeight int `yaml:"video_height"`
	VideoFPS    int `yaml:"video_fps"`

	// Layout
	SafeAreaFraction float64 `yaml:"safe_area_fraction"` // portion of the frame captions may occupy
	MinFontSize      float64 `yaml:"min_font_size"`
	FontSizeStep     float64 `yaml:"font_size_step"`

	Font FontConfig `yaml:"font"`

	// Persistence
	OutputRoot string `yaml:"output_root"`

	// Transcription
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
}

// default style requested for rendered captions
type FontConfig struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Color  string  `yaml:"color"`
	Weight string  `yaml:"weight"`
	Path   string  `yaml:"path"`
}

func Default() *Config {
	return &Config{
		MinWordDuration:     0.02,
		GapThreshold:        0.35,
		MaxChunkDuration:    4.0,
		PreferredChunkWords: 10,
		MaxChunkWords:       20,
		BreakPunctuation:    ".?!;:",
		VideoWidth:          720,
		VideoHeight:         1280,
		VideoFPS:            24,
		SafeAreaFraction:    0.8,
		MinFontSize:         24,
		FontSizeStep:        2,
		Font: FontConfig{
			Family: "DejaVu-Sans",
			Size:   70,
			Color:  "white",
		},
		OutputRoot: filepath.Join("static", "outputs"),
		Provider:   "openai",
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.MinWordDuration <= 0 {
		return fmt.Errorf("min_word_duration must be positive, got %v", c.MinWordDuration)
	}
	if c.GapThreshold < 0 {
		return fmt.Errorf("gap_threshold must not be negative, got %v", c.GapThreshold)
	}
	if c.MaxChunkDuration <= 0 {
		return fmt.Errorf("max_chunk_duration must be positive, got %v", c.MaxChunkDuration)
	}
	if c.MaxChunkWords < 1 {
		return fmt.Errorf("max_chunk_words must be at least 1, got %d", c.MaxChunkWords)
	}
	if c.PreferredChunkWords < 1 || c.PreferredChunkWords > c.MaxChunkWords {
		return fmt.Errorf("preferred_chunk_words must be in [1, max_chunk_words], got %d", c.PreferredChunkWords)
	}
	if c.VideoWidth <= 0 || c.VideoHeight <= 0 || c.VideoFPS <= 0 {
		return fmt.Errorf("video geometry must be positive, got %dx%d@%d", c.VideoWidth, c.VideoHeight, c.VideoFPS)
	}
	if c.SafeAreaFraction <= 0 || c.SafeAreaFraction > 1 {
		return fmt.Errorf("safe_area_fraction must be in (0, 1], got %v", c.SafeAreaFraction)
	}
	if c.MinFontSize <= 0 || c.FontSizeStep <= 0 {
		return fmt.Errorf("font size floor and step must be positive")
	}
	if c.Font.Size < c.MinFontSize {
		return fmt.Errorf("font size %v is below the floor %v", c.Font.Size, c.MinFontSize)
	}
	if c.OutputRoot == "" {
		return fmt.Errorf("output_root must not be empty")
	}
	return nil
}

// path of the durable cache index document
func (c *Config) CacheIndexPath() string {
	return filepath.Join(c.OutputRoot, "cache_index.json")
}
