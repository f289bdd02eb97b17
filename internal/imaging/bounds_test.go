package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestFindContentBounds_TightBox(t *testing.T) {
	img := newSolidImage(100, 100, transparent)
	fillRect(img, 30, 20, 70, 90, opaqueRed)

	bounds, found := FindContentBounds(img, 0)
	if !found {
		t.Fatal("expected content to be found")
	}
	want := Region{X1: 30, Y1: 20, X2: 70, Y2: 90}
	if bounds != want {
		t.Errorf("bounds: got %+v, want %+v", bounds, want)
	}
}

func TestFindContentBounds_SinglePixel(t *testing.T) {
	img := newSolidImage(50, 50, transparent)
	img.SetNRGBA(17, 42, opaqueRed)

	bounds, found := FindContentBounds(img, 0)
	if !found {
		t.Fatal("expected content to be found")
	}
	want := Region{X1: 17, Y1: 42, X2: 18, Y2: 43}
	if bounds != want {
		t.Errorf("bounds: got %+v, want %+v", bounds, want)
	}
}

func TestFindContentBounds_NoContentDefaultsToFullExtent(t *testing.T) {
	// An image fully below the threshold must yield the full image extent,
	// never a zero-area box.
	tests := []struct {
		name      string
		alpha     uint8
		threshold uint8
	}{
		{"fully transparent", 0, 0},
		{"below threshold", 10, 10},
		{"at threshold (strict)", 128, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := newSolidImage(40, 30, color.NRGBA{255, 0, 0, tt.alpha})

			bounds, found := FindContentBounds(img, tt.threshold)
			if found {
				t.Error("no pixel exceeds the threshold, found should be false")
			}
			want := Region{X1: 0, Y1: 0, X2: 40, Y2: 30}
			if bounds != want {
				t.Errorf("bounds: got %+v, want full extent %+v", bounds, want)
			}
		})
	}
}

func TestFindContentBounds_ThresholdStrictlyExceeded(t *testing.T) {
	img := newSolidImage(20, 20, transparent)
	img.SetNRGBA(5, 5, color.NRGBA{255, 0, 0, 50}) // at threshold: background
	img.SetNRGBA(10, 10, color.NRGBA{255, 0, 0, 51})

	bounds, found := FindContentBounds(img, 50)
	if !found {
		t.Fatal("the alpha-51 pixel exceeds the threshold")
	}
	want := Region{X1: 10, Y1: 10, X2: 11, Y2: 11}
	if bounds != want {
		t.Errorf("bounds: got %+v, want %+v", bounds, want)
	}
}

func TestFindContentBounds_Validity(t *testing.T) {
	// For arbitrary content layouts the box must satisfy
	// 0 <= X1 < X2 <= width and 0 <= Y1 < Y2 <= height.
	layouts := []struct {
		name string
		fill func(img *image.NRGBA)
	}{
		{"empty", func(img *image.NRGBA) {}},
		{"full", func(img *image.NRGBA) { fillRect(img, 0, 0, 64, 48, opaqueRed) }},
		{"top-left corner", func(img *image.NRGBA) { img.SetNRGBA(0, 0, opaqueRed) }},
		{"bottom-right corner", func(img *image.NRGBA) { img.SetNRGBA(63, 47, opaqueRed) }},
		{"left column", func(img *image.NRGBA) { fillRect(img, 0, 0, 1, 48, opaqueRed) }},
		{"bottom row", func(img *image.NRGBA) { fillRect(img, 0, 47, 64, 48, opaqueRed) }},
	}

	for _, tt := range layouts {
		t.Run(tt.name, func(t *testing.T) {
			img := newSolidImage(64, 48, transparent)
			tt.fill(img)

			b, _ := FindContentBounds(img, 0)
			if b.X1 < 0 || b.X1 >= b.X2 || b.X2 > 64 {
				t.Errorf("invalid horizontal bounds: %+v", b)
			}
			if b.Y1 < 0 || b.Y1 >= b.Y2 || b.Y2 > 48 {
				t.Errorf("invalid vertical bounds: %+v", b)
			}
		})
	}
}
