package pipeline

import (
	"errors"
	"fmt"
	"image"

	"github.com/roomi-fields/obsidian-image-autocrop/internal/imaging"
)

// ErrUnavailable indicates the processing pipeline failed to initialize.
// Every subsequent processing attempt short-circuits with this error instead
// of attempting partial work.
var ErrUnavailable = errors.New("image processing unavailable")

// Pipeline runs the autocrop stages over one image at a time.
//
// Each call processes a single image synchronously, start to finish. A
// Pipeline holds no per-image state, so distinct images may be processed
// concurrently by independent goroutines; exclusion per image identity is the
// Runner's job, not the Pipeline's.
type Pipeline struct {
	cfg imaging.ProcessConfig
}

// New creates a pipeline after validating the processing config.
func New(cfg imaging.ProcessConfig) (*Pipeline, error) {
	if cfg.TargetSize < 1 || cfg.TargetSize > 2000 {
		return nil, fmt.Errorf("target size %d out of range 1-2000", cfg.TargetSize)
	}
	return &Pipeline{cfg: cfg}, nil
}

// Process runs the full autocrop pipeline over encoded PNG bytes.
//
// Stages: decode, background detection, transparency masking, content
// bounds, canvas composition, encode. Detection and masking are skipped
// together when no background color can be estimated.
//
// When the masked image contains no content above the trim threshold — a
// fully solid image masks down to nothing — or composition rejects the
// geometry, Process falls back to a resize-only path: the pristine decoded
// buffer is resized directly to the target size and encoded through the same
// encoder. The fallback recovers only these degenerate-geometry cases;
// decode and encode failures always propagate (wrapping imaging.ErrDecode
// and imaging.ErrEncode) and never produce output bytes.
func (p *Pipeline) Process(data []byte) ([]byte, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	// The masker mutates alpha in place; keep the decoded pixels intact for
	// the fallback path.
	pristine := imaging.Clone(img)

	if bg, ok := imaging.DetectBackground(img); ok {
		imaging.MaskBackground(img, bg, p.cfg.BackgroundTolerance)
	}

	bounds, found := imaging.FindContentBounds(img, p.cfg.TrimThreshold)
	if !found {
		return imaging.Encode(p.fallback(pristine))
	}

	out, err := imaging.Compose(img, bounds, p.cfg)
	if err != nil {
		// Geometry-attributable failure; keep the user's pixels.
		out = p.fallback(pristine)
	}
	return imaging.Encode(out)
}

// fallback is the resize-only degenerate path: no cropping, no padding.
func (p *Pipeline) fallback(pristine *image.NRGBA) *image.NRGBA {
	return imaging.ResizeTo(pristine, p.cfg.TargetSize, p.cfg.TargetSize)
}
