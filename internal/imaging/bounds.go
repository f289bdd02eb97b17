package imaging

import "image"

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//   - Width = X2 - X1, Height = Y2 - Y1
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Width returns the horizontal extent of the region in pixels.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns the vertical extent of the region in pixels.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// FindContentBounds computes the tight bounding box of an image's content.
//
// A pixel counts as content when its alpha strictly exceeds alphaThreshold.
// Each edge of the box is found independently: the top edge is the smallest
// row containing a content pixel, the bottom edge is one past the largest
// such row, and the left/right edges are the column analogues.
//
// Parameters:
//   - img: The image to scan. It is only read, never modified.
//   - alphaThreshold: Alpha value a pixel must exceed to count as content.
//
// Returns:
//   - Region: The bounding box, always satisfying X1 < X2 and Y1 < Y2.
//   - bool: False when no pixel exceeds the threshold. The region then
//     covers the full image extent, so callers never receive a zero-area
//     box; the boolean lets them treat the image as having no content.
//
// Each edge scan visits the full buffer in the worst case, so the cost is
// O(width x height). That is acceptable for thumbnail-sized inputs.
func FindContentBounds(img *image.NRGBA, alphaThreshold uint8) (Region, bool) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	full := Region{X1: 0, Y1: 0, X2: w, Y2: h}

	content := func(x, y int) bool {
		return img.Pix[img.PixOffset(b.Min.X+x, b.Min.Y+y)+3] > alphaThreshold
	}

	top := -1
	for y := 0; y < h && top < 0; y++ {
		for x := 0; x < w; x++ {
			if content(x, y) {
				top = y
				break
			}
		}
	}
	if top < 0 {
		// Fully below threshold: default to the whole image.
		return full, false
	}

	bottom := 0
	for y := h - 1; y >= top && bottom == 0; y-- {
		for x := 0; x < w; x++ {
			if content(x, y) {
				bottom = y + 1
				break
			}
		}
	}

	left := -1
	for x := 0; x < w && left < 0; x++ {
		for y := top; y < bottom; y++ {
			if content(x, y) {
				left = x
				break
			}
		}
	}

	right := 0
	for x := w - 1; x >= left && right == 0; x-- {
		for y := top; y < bottom; y++ {
			if content(x, y) {
				right = x + 1
				break
			}
		}
	}

	return Region{X1: left, Y1: top, X2: right, Y2: bottom}, true
}
