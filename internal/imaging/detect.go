package imaging

import "image"

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// cornerSize is the side length of the square corner regions sampled by
// DetectBackground.
const cornerSize = 20

// minCornerSamples is the number of qualifying corner pixels required before
// DetectBackground trusts the corner estimate without consulting the borders.
const minCornerSamples = 100

// edgeSampleStep is the stride used when sampling border pixels in the
// fallback pass.
const edgeSampleStep = 10

// DetectBackground estimates the solid background color of an image by
// sampling its corners.
//
// The estimate is the per-channel mean of the sampled pixels, rounded to the
// nearest integer. Pixels that are already mostly transparent (alpha < 128)
// are not part of a solid background and are skipped.
//
// Parameters:
//   - img: The image to analyze. It is only read, never modified.
//
// Returns:
//   - RGBColor: The estimated background color.
//   - bool: False if no qualifying pixel was found anywhere, in which case
//     the color is meaningless and masking should be skipped.
//
// # Sampling Strategy
//
// Four 20x20 regions, one per corner, are averaged first. Corner regions are
// clamped to the image bounds, so images smaller than 40 pixels in either
// dimension are still sampled correctly (regions may overlap).
//
// If fewer than 100 qualifying pixels were found in the corners — typical for
// images whose corners are already transparent — every 10th pixel along each
// of the four borders is merged into the same running sums before the mean
// is taken.
func DetectBackground(img *image.NRGBA) (RGBColor, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return RGBColor{}, false
	}

	var rSum, gSum, bSum, count uint64

	sample := func(x, y int) {
		i := img.PixOffset(b.Min.X+x, b.Min.Y+y)
		if img.Pix[i+3] < 128 {
			return
		}
		rSum += uint64(img.Pix[i+0])
		gSum += uint64(img.Pix[i+1])
		bSum += uint64(img.Pix[i+2])
		count++
	}

	cw := min(cornerSize, w)
	ch := min(cornerSize, h)
	corners := []image.Rectangle{
		image.Rect(0, 0, cw, ch),     // top-left
		image.Rect(w-cw, 0, w, ch),   // top-right
		image.Rect(0, h-ch, cw, h),   // bottom-left
		image.Rect(w-cw, h-ch, w, h), // bottom-right
	}
	for _, r := range corners {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				sample(x, y)
			}
		}
	}

	// Corners mostly transparent: merge border samples into the same sums.
	if count < minCornerSamples {
		for x := 0; x < w; x += edgeSampleStep {
			sample(x, 0)
			sample(x, h-1)
		}
		for y := 0; y < h; y += edgeSampleStep {
			sample(0, y)
			sample(w-1, y)
		}
	}

	if count == 0 {
		return RGBColor{}, false
	}

	// Mean rounded to nearest.
	return RGBColor{
		R: uint8((rSum + count/2) / count),
		G: uint8((gSum + count/2) / count),
		B: uint8((bSum + count/2) / count),
	}, true
}
