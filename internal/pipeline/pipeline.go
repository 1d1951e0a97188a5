package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmallik/capline/internal/audio"
	"github.com/jmallik/capline/internal/cache"
	"github.com/jmallik/capline/internal/caption"
	"github.com/jmallik/capline/internal/config"
	"github.com/jmallik/capline/internal/layout"
	"github.com/jmallik/capline/internal/logging"
	"github.com/jmallik/capline/internal/render"
	"github.com/jmallik/capline/internal/store"
	"github.com/jmallik/capline/internal/transcribe"
)

// Engine composes the caption pipeline: validation, segmentation, trim
// re-slicing, layout fitting, rendering and the cache index. All
// shared state lives behind the injected collaborators; the engine
// itself holds no locks.
type Engine struct {
	cfg         *config.Config
	log         *logging.Logger
	index       *cache.Index
	store       *store.Store
	transcriber transcribe.Transcriber
	renderer    render.Renderer
	measurer    layout.Measurer

	// media helpers, swappable in tests
	hashFile     func(path string) (string, error)
	getDuration  func(path string) (float64, error)
	extractAudio func(ctx context.Context, in, out string, opts audio.ExtractOptions) error
}

// Deps are the engine's collaborators. Measurer may be nil; the glyph
// estimator sized to the safe area is used then.
type Deps struct {
	Index       *cache.Index
	Store       *store.Store
	Transcriber transcribe.Transcriber
	Renderer    render.Renderer
	Measurer    layout.Measurer
}

func NewEngine(cfg *config.Config, log *logging.Logger, deps Deps) *Engine {
	if log == nil {
		log = logging.NewNop()
	}
	measurer := deps.Measurer
	if measurer == nil {
		measurer = layout.NewGlyphEstimator(float64(cfg.VideoWidth) * cfg.SafeAreaFraction)
	}
	return &Engine{
		cfg:         cfg,
		log:         log,
		index:       deps.Index,
		store:       deps.Store,
		transcriber: deps.Transcriber,
		renderer:    deps.Renderer,
		measurer:    measurer,

		hashFile:     audio.HashFile,
		getDuration:  audio.GetDuration,
		extractAudio: audio.ExtractAudio,
	}
}

// ProcessRequest asks for a fresh caption video from raw media.
type ProcessRequest struct {
	MediaPath string
	Trim      *caption.TrimWindow // optional initial trim
	Style     caption.Style       // zero value means the configured default
}

// UpdateRequest re-slices an existing output against a new trim window
// and/or style. The trim is expressed in the original clip's absolute
// timeline; an empty window restores the full clip.
type UpdateRequest struct {
	OutputID string
	Trim     caption.TrimWindow
	Style    caption.Style // zero value keeps the stored style
}

// Output describes one rendered result.
type Output struct {
	OutputID       string
	Chunks         []caption.Chunk
	VideoPath      string
	TranscriptPath string
	AppliedFont    string
	CacheKey       string
	Cached         bool
}

// Process turns raw media into caption chunks and a rendered video,
// deduplicated through the cache index. Nothing is persisted until
// every stage has succeeded, so a failed request leaves no partial
// state behind.
func (e *Engine) Process(ctx context.Context, req ProcessRequest) (out *Output, err error) {
	defer e.recoverInternal(&err)

	if !audio.IsMediaFile(req.MediaPath) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedInput, filepath.Ext(req.MediaPath))
	}

	contentHash, err := e.hashFile(req.MediaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint media: %w", err)
	}

	style := e.styleOrDefault(req.Style)
	trim := caption.TrimWindow{}
	if req.Trim != nil {
		trim = *req.Trim
	}

	key := cache.DeriveKey(contentHash, trim, cache.StyleSignature(style))
	if cached := e.lookupCached(key); cached != nil {
		return cached, nil
	}

	audioPath := req.MediaPath
	if audio.IsVideoFile(req.MediaPath) {
		tempDir, err := os.MkdirTemp("", "capline-*")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp directory: %w", err)
		}
		defer os.RemoveAll(tempDir)

		audioPath = filepath.Join(tempDir, "audio.mp3")
		e.log.Infow("extracting audio from video", "input", req.MediaPath)
		if err := e.extractAudio(ctx, req.MediaPath, audioPath, audio.DefaultExtractOptions()); err != nil {
			e.log.Errorw("audio extraction failed", "input", req.MediaPath, "error", err)
			return nil, fmt.Errorf("%w: audio extraction", ErrExternalFailure)
		}
	}

	duration, err := e.getDuration(audioPath)
	if err != nil {
		e.log.Errorw("duration probe failed", "path", audioPath, "error", err)
		return nil, fmt.Errorf("%w: media probe", ErrExternalFailure)
	}

	e.log.Infow("transcribing audio", "path", audioPath, "duration", duration)
	transcript, err := e.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		e.log.Errorw("transcription failed", "path", audioPath, "error", err)
		return nil, fmt.Errorf("%w: transcription", ErrExternalFailure)
	}

	words := caption.ExtractWords(transcript.Segments)
	e.log.Infow("extracted words", "count", len(words))
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: no speech detected", caption.ErrEmptyResult)
	}

	vopts := caption.ValidateOptions{
		MinWordDuration: e.cfg.MinWordDuration,
		TotalDuration:   duration,
	}
	words, err = caption.Validate(words, vopts)
	if err != nil {
		return nil, err
	}

	timeline := duration
	var storedTrim *caption.TrimWindow
	var audioTrim *caption.TrimWindow
	if !trim.Empty() {
		window := trim.Clamp(duration)
		words, err = caption.Reslice(words, window, 0, caption.ValidateOptions{
			MinWordDuration: e.cfg.MinWordDuration,
		})
		if err != nil {
			return nil, err
		}
		timeline = window.Duration()
		storedTrim = &window
		audioTrim = &window
	}

	return e.finish(ctx, finishParams{
		words:       words,
		style:       style,
		cacheKey:    key,
		contentHash: contentHash,
		mediaPath:   req.MediaPath,
		audioPath:   req.MediaPath,
		duration:    duration,
		timeline:    timeline,
		trim:        storedTrim,
		audioTrim:   audioTrim,
	})
}

// Update re-slices a stored output's words onto a new trim window,
// re-segments, refits and re-renders into a fresh output. The old
// output is untouched; the cache maps the new key to the new id.
func (e *Engine) Update(ctx context.Context, req UpdateRequest) (out *Output, err error) {
	defer e.recoverInternal(&err)

	meta, err := e.store.LoadMetadata(req.OutputID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, req.OutputID)
		}
		return nil, fmt.Errorf("failed to load metadata: %w", err)
	}

	chunks, err := e.store.LoadChunks(req.OutputID)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, req.OutputID)
		}
		return nil, fmt.Errorf("failed to load chunks: %w", err)
	}

	var words []caption.Word
	for _, c := range chunks {
		words = append(words, c.Words...)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: stored output has no words", caption.ErrEmptyResult)
	}
	words = caption.EnsureIDs(words)

	// stored words are relative to the previous trim, if any
	priorOffset := 0.0
	if meta.VideoTrim != nil {
		priorOffset = meta.VideoTrim.Start
	}

	window := req.Trim.Clamp(meta.VideoDuration)
	if window.Empty() {
		window = caption.TrimWindow{Start: 0, End: meta.VideoDuration}
	}

	words, err = caption.Reslice(words, window, priorOffset, caption.ValidateOptions{
		MinWordDuration: e.cfg.MinWordDuration,
	})
	if err != nil {
		return nil, err
	}

	style := req.Style
	if style == (caption.Style{}) {
		style = caption.Style{
			Family: meta.Font.Family,
			Size:   meta.Font.Size,
			Color:  meta.Font.Color,
			Weight: meta.Font.Weight,
			Path:   meta.Font.Path,
		}
	}
	style = e.styleOrDefault(style)

	keyTrim := window
	if isFullWindow(window, meta.VideoDuration) {
		keyTrim = caption.TrimWindow{}
	}
	key := cache.DeriveKey(meta.ContentHash, keyTrim, cache.StyleSignature(style))
	if cached := e.lookupCached(key); cached != nil {
		return cached, nil
	}

	var storedTrim, audioTrim *caption.TrimWindow
	if !isFullWindow(window, meta.VideoDuration) {
		storedTrim = &window
		audioTrim = &window
	}

	return e.finish(ctx, finishParams{
		words:       words,
		style:       style,
		cacheKey:    key,
		contentHash: meta.ContentHash,
		mediaPath:   meta.AudioPath,
		audioPath:   meta.AudioPath,
		duration:    meta.VideoDuration,
		timeline:    window.Duration(),
		trim:        storedTrim,
		audioTrim:   audioTrim,
	})
}

type finishParams struct {
	words       []caption.Word
	style       caption.Style
	cacheKey    string
	contentHash string
	mediaPath   string
	audioPath   string
	duration    float64 // original clip duration
	timeline    float64 // rendered timeline duration
	trim        *caption.TrimWindow
	audioTrim   *caption.TrimWindow
}

// finish runs the shared tail of both operations: segmentation, layout
// fitting, rendering, persistence and the cache write, in that order.
func (e *Engine) finish(ctx context.Context, p finishParams) (*Output, error) {
	chunks := caption.Segment(p.words, caption.SegmentOptions{
		GapThreshold:     e.cfg.GapThreshold,
		MaxDuration:      e.cfg.MaxChunkDuration,
		PreferredWords:   e.cfg.PreferredChunkWords,
		MaxWords:         e.cfg.MaxChunkWords,
		BreakPunctuation: e.cfg.BreakPunctuation,
	})
	e.log.Infow("segmented words into chunks", "chunks", len(chunks))

	safe, err := layout.SafeArea(e.cfg.VideoWidth, e.cfg.VideoHeight, e.cfg.SafeAreaFraction)
	if err != nil {
		return nil, err
	}

	fitter := layout.NewFitter(e.measurer, e.cfg.FontSizeStep, e.cfg.MinFontSize)
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	layouts := fitter.FitChunks(texts, p.style.Size, layout.Candidates(p.style), safe)

	outputID := e.store.NewOutputID()
	renderResult, err := e.renderer.Render(ctx, render.Job{
		Chunks:     chunks,
		Layouts:    layouts,
		Style:      p.style,
		AudioPath:  p.audioPath,
		AudioTrim:  p.audioTrim,
		OutputPath: e.store.VideoPath(outputID),
		Width:      e.cfg.VideoWidth,
		Height:     e.cfg.VideoHeight,
		FPS:        e.cfg.VideoFPS,
		Duration:   p.timeline,
	})
	if err != nil {
		e.log.Errorw("render failed", "output_id", outputID, "error", err)
		return nil, fmt.Errorf("%w: render", ErrExternalFailure)
	}

	if err := e.store.WriteChunks(outputID, chunks); err != nil {
		return nil, err
	}
	if err := e.store.WriteTranscript(outputID, chunks); err != nil {
		return nil, err
	}
	if err := e.store.WriteMetadata(outputID, store.Metadata{
		AudioPath:     p.mediaPath,
		ContentHash:   p.contentHash,
		VideoDuration: p.duration,
		VideoTrim:     p.trim,
		Font: store.FontRecord{
			Family:  p.style.Family,
			Size:    p.style.Size,
			Color:   p.style.Color,
			Weight:  p.style.Weight,
			Path:    p.style.Path,
			Applied: renderResult.AppliedFamily,
		},
	}); err != nil {
		return nil, err
	}

	if err := e.index.Set(p.cacheKey, outputID); err != nil {
		return nil, err
	}

	e.log.Infow("output ready",
		"output_id", outputID,
		"cache_key", p.cacheKey,
		"chunks", len(chunks),
		"applied_font", renderResult.AppliedFamily,
	)

	return &Output{
		OutputID:       outputID,
		Chunks:         chunks,
		VideoPath:      e.store.VideoPath(outputID),
		TranscriptPath: e.store.TranscriptPath(outputID),
		AppliedFont:    renderResult.AppliedFamily,
		CacheKey:       p.cacheKey,
	}, nil
}

// lookupCached returns a completed Output when the key maps to an id
// whose assets still exist on disk.
func (e *Engine) lookupCached(cacheKey string) *Output {
	outputID, ok := e.index.Get(cacheKey)
	if !ok || !e.store.HasRenderedOutput(outputID) {
		return nil
	}

	chunks, err := e.store.LoadChunks(outputID)
	if err != nil {
		return nil
	}

	applied := ""
	if meta, err := e.store.LoadMetadata(outputID); err == nil {
		applied = meta.Font.Applied
	}

	e.log.Infow("cache hit, returning existing assets",
		"cache_key", cacheKey, "output_id", outputID)

	return &Output{
		OutputID:       outputID,
		Chunks:         chunks,
		VideoPath:      e.store.VideoPath(outputID),
		TranscriptPath: e.store.TranscriptPath(outputID),
		AppliedFont:    applied,
		CacheKey:       cacheKey,
		Cached:         true,
	}
}

func (e *Engine) styleOrDefault(style caption.Style) caption.Style {
	if style.Family == "" {
		style.Family = e.cfg.Font.Family
	}
	if style.Size <= 0 {
		style.Size = e.cfg.Font.Size
	}
	if style.Color == "" {
		style.Color = e.cfg.Font.Color
	}
	if style.Weight == "" {
		style.Weight = e.cfg.Font.Weight
	}
	if style.Path == "" {
		style.Path = e.cfg.Font.Path
	}
	return style
}

// recoverInternal converts an unanticipated fault into an opaque error
// after logging it in full.
func (e *Engine) recoverInternal(err *error) {
	if r := recover(); r != nil {
		e.log.Errorw("unexpected failure in pipeline", "panic", r)
		*err = fmt.Errorf("internal error")
	}
}

func isFullWindow(w caption.TrimWindow, total float64) bool {
	const epsilon = 0.001
	return w.Start <= epsilon && w.End >= total-epsilon
}
