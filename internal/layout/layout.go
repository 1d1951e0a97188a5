package layout

import (
	"errors"
	"fmt"

	"github.com/jmallik/capline/internal/caption"
)

// ErrUnknownFont is returned by a Measurer that cannot measure a
// candidate at all (missing file, unresolvable family). The fitter
// skips such candidates instead of failing the search.
var ErrUnknownFont = errors.New("font candidate not measurable")

// Box is a measured text extent in pixels.
type Box struct {
	Width  float64
	Height float64
}

func (b Box) FitsIn(r Rect) bool {
	return b.Width <= r.Width && b.Height <= r.Height
}

// Rect is the bounded safe area captions must fit inside.
type Rect struct {
	Width  float64
	Height float64
}

// FontCandidate is one way of resolving the requested style. The zero
// value means "no font specified": the renderer's own default applies.
type FontCandidate struct {
	File   string
	Family string
	Weight string
}

func (c FontCandidate) IsDefault() bool {
	return c.File == "" && c.Family == ""
}

func (c FontCandidate) String() string {
	switch {
	case c.File != "":
		return "file:" + c.File
	case c.Family != "" && c.Weight != "":
		return c.Family + "-" + c.Weight
	case c.Family != "":
		return c.Family
	default:
		return "default"
	}
}

// Candidates expands a style into the fixed fallback order: explicit
// font file, family with weight, bare family, renderer default.
func Candidates(style caption.Style) []FontCandidate {
	var out []FontCandidate
	if style.Path != "" {
		out = append(out, FontCandidate{File: style.Path})
	}
	if style.Family != "" && style.Weight != "" {
		out = append(out, FontCandidate{Family: style.Family, Weight: style.Weight})
	}
	if style.Family != "" {
		out = append(out, FontCandidate{Family: style.Family})
	}
	return append(out, FontCandidate{})
}

// Measurer is the external text-measurement collaborator.
type Measurer interface {
	Measure(candidate FontCandidate, text string, size float64) (Box, error)
}

// Result is the resolved layout for one chunk. Fits is false only when
// the search bottomed out at the floor size; the caller accepts the
// overflow.
type Result struct {
	Size      float64
	Candidate FontCandidate
	Box       Box
	Fits      bool
}

// Fitter searches for the largest font size, not above the requested
// size and not below Floor, whose measured box fits the safe area.
type Fitter struct {
	Measurer Measurer
	Step     float64 // size decrement per iteration
	Floor    float64 // smallest size ever returned
}

func NewFitter(m Measurer, step, floor float64) *Fitter {
	if step <= 0 {
		step = 2
	}
	if floor <= 0 {
		floor = 1
	}
	return &Fitter{Measurer: m, Step: step, Floor: floor}
}

// Fit tries every candidate in priority order at each size, from the
// requested size down to the floor. The first candidate whose measured
// box fits wins. Candidates the measurer rejects are skipped. The
// search never fails: at the floor the best measurable candidate is
// returned even if its box overflows.
func (f *Fitter) Fit(text string, startSize float64, candidates []FontCandidate, safe Rect) Result {
	if len(candidates) == 0 {
		candidates = []FontCandidate{{}}
	}

	for _, size := range f.sizes(startSize) {
		for _, cand := range candidates {
			box, err := f.Measurer.Measure(cand, text, size)
			if err != nil {
				continue
			}
			if box.FitsIn(safe) {
				return Result{Size: size, Candidate: cand, Box: box, Fits: true}
			}
		}
	}

	// nothing fit: floor size with the first measurable candidate
	for _, cand := range candidates {
		box, err := f.Measurer.Measure(cand, text, f.Floor)
		if err != nil {
			continue
		}
		return Result{Size: f.Floor, Candidate: cand, Box: box, Fits: false}
	}
	return Result{Size: f.Floor, Candidate: FontCandidate{}, Fits: false}
}

// FitChunks fits each chunk text independently, but the winner of one
// chunk is tried first for the next, biasing toward a consistent look
// without forcing it.
func (f *Fitter) FitChunks(texts []string, startSize float64, candidates []FontCandidate, safe Rect) []Result {
	results := make([]Result, 0, len(texts))
	ordered := candidates
	for _, text := range texts {
		res := f.Fit(text, startSize, ordered, safe)
		results = append(results, res)
		ordered = preferCandidate(candidates, res.Candidate)
	}
	return results
}

// descending sizes from start to the floor, floor always included
func (f *Fitter) sizes(start float64) []float64 {
	if start <= f.Floor {
		return []float64{f.Floor}
	}
	var sizes []float64
	for s := start; s > f.Floor; s -= f.Step {
		sizes = append(sizes, s)
	}
	return append(sizes, f.Floor)
}

func preferCandidate(candidates []FontCandidate, winner FontCandidate) []FontCandidate {
	out := make([]FontCandidate, 0, len(candidates)+1)
	out = append(out, winner)
	for _, c := range candidates {
		if c != winner {
			out = append(out, c)
		}
	}
	return out
}

// SafeArea derives the centered caption rectangle from the frame
// geometry: a configured fraction of the full frame, leaving margins.
func SafeArea(frameWidth, frameHeight int, fraction float64) (Rect, error) {
	if fraction <= 0 || fraction > 1 {
		return Rect{}, fmt.Errorf("safe area fraction must be in (0, 1], got %g", fraction)
	}
	return Rect{
		Width:  float64(frameWidth) * fraction,
		Height: float64(frameHeight) * fraction,
	}, nil
}
