package imaging

import (
	"image"
	"image/color"
	"testing"
)

// newSolidImage creates an in-memory test image filled with one color.
func newSolidImage(width, height int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// fillRect overwrites a rectangular region of an image with one color.
func fillRect(img *image.NRGBA, x1, y1, x2, y2 int, c color.NRGBA) {
	for y := y1; y < y2; y++ {
		for x := x1; x < x2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

var (
	opaqueWhite = color.NRGBA{255, 255, 255, 255}
	opaqueRed   = color.NRGBA{255, 0, 0, 255}
	transparent = color.NRGBA{}
)

func TestDetectBackground_SolidImage(t *testing.T) {
	img := newSolidImage(100, 100, opaqueWhite)

	bg, ok := DetectBackground(img)
	if !ok {
		t.Fatal("DetectBackground should find a background on a solid image")
	}
	if bg != (RGBColor{255, 255, 255}) {
		t.Errorf("background: got (%d,%d,%d), want (255,255,255)", bg.R, bg.G, bg.B)
	}
}

func TestDetectBackground_Idempotent(t *testing.T) {
	img := newSolidImage(100, 100, color.NRGBA{37, 120, 201, 255})
	fillRect(img, 40, 40, 60, 60, opaqueRed)

	first, ok1 := DetectBackground(img)
	second, ok2 := DetectBackground(img)
	if ok1 != ok2 || first != second {
		t.Errorf("detection is not idempotent: (%v,%v) then (%v,%v)", first, ok1, second, ok2)
	}
}

func TestDetectBackground_IgnoresCenterContent(t *testing.T) {
	// Content in the middle must not influence the corner estimate.
	img := newSolidImage(100, 100, color.NRGBA{10, 20, 30, 255})
	fillRect(img, 25, 25, 75, 75, opaqueRed)

	bg, ok := DetectBackground(img)
	if !ok {
		t.Fatal("expected a background estimate")
	}
	if bg != (RGBColor{10, 20, 30}) {
		t.Errorf("background: got (%d,%d,%d), want (10,20,30)", bg.R, bg.G, bg.B)
	}
}

func TestDetectBackground_SkipsTransparentPixels(t *testing.T) {
	// Corners hold a mix of transparent pixels and opaque blue; only the
	// opaque ones may contribute.
	img := newSolidImage(100, 100, color.NRGBA{0, 0, 255, 255})
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 0})
			}
		}
	}

	bg, ok := DetectBackground(img)
	if !ok {
		t.Fatal("expected a background estimate")
	}
	if bg != (RGBColor{0, 0, 255}) {
		t.Errorf("background: got (%d,%d,%d), want (0,0,255)", bg.R, bg.G, bg.B)
	}
}

func TestDetectBackground_EdgeFallback(t *testing.T) {
	// All four 20x20 corners fully transparent, everything else opaque red:
	// corner sampling finds nothing and the border sampling pass must
	// detect red from the edge pixels outside the corners.
	img := newSolidImage(100, 100, opaqueRed)
	fillRect(img, 0, 0, 20, 20, transparent)
	fillRect(img, 80, 0, 100, 20, transparent)
	fillRect(img, 0, 80, 20, 100, transparent)
	fillRect(img, 80, 80, 100, 100, transparent)

	bg, ok := DetectBackground(img)
	if !ok {
		t.Fatal("edge fallback should find the red border")
	}
	if bg != (RGBColor{255, 0, 0}) {
		t.Errorf("background: got (%d,%d,%d), want (255,0,0)", bg.R, bg.G, bg.B)
	}
}

func TestDetectBackground_FullyTransparent(t *testing.T) {
	img := newSolidImage(100, 100, transparent)

	if _, ok := DetectBackground(img); ok {
		t.Error("DetectBackground should report no background for a fully transparent image")
	}
}

func TestDetectBackground_SmallImage(t *testing.T) {
	// Smaller than 40px per dimension: corner regions clamp and overlap
	// instead of reading out of bounds.
	img := newSolidImage(15, 9, color.NRGBA{50, 60, 70, 255})

	bg, ok := DetectBackground(img)
	if !ok {
		t.Fatal("expected a background estimate")
	}
	if bg != (RGBColor{50, 60, 70}) {
		t.Errorf("background: got (%d,%d,%d), want (50,60,70)", bg.R, bg.G, bg.B)
	}
}

func TestDetectBackground_MeanRounding(t *testing.T) {
	// Half the sampled pixels are 10, half are 11: the mean 10.5 rounds to
	// nearest, i.e. 11.
	img := newSolidImage(40, 40, color.NRGBA{10, 10, 10, 255})
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if x%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{11, 11, 11, 255})
			}
		}
	}

	bg, ok := DetectBackground(img)
	if !ok {
		t.Fatal("expected a background estimate")
	}
	if bg != (RGBColor{11, 11, 11}) {
		t.Errorf("background: got (%d,%d,%d), want rounded mean (11,11,11)", bg.R, bg.G, bg.B)
	}
}
