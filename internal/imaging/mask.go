package imaging

import "image"

// MaskBackground sets the alpha of every background-colored pixel to zero.
//
// A pixel matches the background when all three of its channel distances
// |R-bg.R|, |G-bg.G| and |B-bg.B| are <= tolerance. Matching is a hard
// cutoff: a pixel is either fully masked or left untouched, so edges between
// content and background keep a hard transparency boundary rather than an
// anti-aliased falloff.
//
// The image is modified in place in a single linear pass. Alpha is only ever
// lowered to zero, never raised.
func MaskBackground(img *image.NRGBA, bg RGBColor, tolerance uint8) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if channelDiff(img.Pix[i+0], bg.R) <= tolerance &&
				channelDiff(img.Pix[i+1], bg.G) <= tolerance &&
				channelDiff(img.Pix[i+2], bg.B) <= tolerance {
				img.Pix[i+3] = 0
			}
			i += 4
		}
	}
}

// channelDiff returns the absolute difference between two 8-bit channel
// values.
func channelDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
