package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// FitMode selects how cropped content is shaped into the final canvas.
type FitMode int

const (
	// FitPadSquare pads the cropped content into a square with the
	// background fill, then resizes it to exactly TargetSize x TargetSize.
	FitPadSquare FitMode = iota

	// FitContain resizes the cropped content to fit within
	// TargetSize x TargetSize preserving aspect ratio. With an opaque fill
	// the result is letterboxed onto a square canvas; with a transparent
	// fill no padding is added and the output is merely bounded. Fit never
	// upscales, so content already smaller than the target keeps its
	// dimensions (unlike FitPadSquare, which always resizes to exactly
	// TargetSize x TargetSize).
	FitContain
)

// String returns the config-file spelling of the fit mode.
func (m FitMode) String() string {
	switch m {
	case FitPadSquare:
		return "pad-square"
	case FitContain:
		return "contain"
	default:
		return fmt.Sprintf("FitMode(%d)", int(m))
	}
}

// ProcessConfig holds the per-run parameters for the autocrop pipeline.
//
// A config is immutable for the duration of one processing call. The zero
// value is not useful; callers normally derive one from the application
// config.
type ProcessConfig struct {
	// TargetSize is the side length of the output, 1-2000 pixels.
	TargetSize int

	// TrimThreshold is the alpha value a pixel must exceed to count as
	// content during bounds detection.
	TrimThreshold uint8

	// BackgroundTolerance is the maximum per-channel color distance still
	// considered background during masking.
	BackgroundTolerance uint8

	// Fill is the color padded areas are filled with. The zero value means
	// fully transparent.
	Fill color.NRGBA

	// FitMode selects between padding to a square and resizing to fit.
	FitMode FitMode
}

// Compose crops an image to the given bounds and shapes the result according
// to the config's fit mode.
//
// For FitPadSquare the cropped content is centered on a square canvas whose
// side is the larger cropped dimension. The padding split is floor-based:
// when the leftover padding is odd, the extra pixel goes to the right/bottom
// edge. This asymmetry is part of the output contract and must not be
// "fixed" to a symmetric split, or outputs stop being reproducible.
//
// All resampling uses the Lanczos filter.
//
// Returns an error when the bounds fall outside the image or describe a
// zero-area region; the caller decides whether that is recoverable.
func Compose(img *image.NRGBA, bounds Region, cfg ProcessConfig) (*image.NRGBA, error) {
	b := img.Bounds()
	if bounds.X1 < 0 || bounds.Y1 < 0 || bounds.X2 > b.Dx() || bounds.Y2 > b.Dy() {
		return nil, fmt.Errorf("bounds (%d,%d)-(%d,%d) outside image %dx%d",
			bounds.X1, bounds.Y1, bounds.X2, bounds.Y2, b.Dx(), b.Dy())
	}
	if bounds.Width() <= 0 || bounds.Height() <= 0 {
		return nil, fmt.Errorf("zero-area crop region (%d,%d)-(%d,%d)",
			bounds.X1, bounds.Y1, bounds.X2, bounds.Y2)
	}

	cropped := imaging.Crop(img, image.Rect(bounds.X1, bounds.Y1, bounds.X2, bounds.Y2))

	switch cfg.FitMode {
	case FitContain:
		fitted := imaging.Fit(cropped, cfg.TargetSize, cfg.TargetSize, imaging.Lanczos)
		if cfg.Fill.A == 0 {
			return fitted, nil
		}
		canvas := imaging.New(cfg.TargetSize, cfg.TargetSize, cfg.Fill)
		return imaging.PasteCenter(canvas, fitted), nil

	default: // FitPadSquare
		cw := bounds.Width()
		ch := bounds.Height()
		side := cw
		if ch > side {
			side = ch
		}
		padLeft := (side - cw) / 2
		padTop := (side - ch) / 2

		square := cropped
		if side != cw || side != ch {
			canvas := imaging.New(side, side, cfg.Fill)
			square = imaging.Paste(canvas, cropped, image.Pt(padLeft, padTop))
		}
		return imaging.Resize(square, cfg.TargetSize, cfg.TargetSize, imaging.Lanczos), nil
	}
}
