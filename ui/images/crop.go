package images

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/soocke/boxlabel/domain/annotation"
)

// CropBox extracts the region of img covered by b (image space), clamped to
// the image bounds. It reports false when nothing of b lies inside img.
func CropBox(img image.Image, b annotation.Box) (*image.NRGBA, bool) {
	if img == nil {
		return nil, false
	}
	bounds := img.Bounds()
	r := image.Rect(
		int(math.Floor(b.X)), int(math.Floor(b.Y)),
		int(math.Ceil(b.X+b.W)), int(math.Ceil(b.Y+b.H)),
	).Add(bounds.Min).Intersect(bounds)
	if r.Empty() {
		return nil, false
	}
	return imaging.Crop(img, r), true
}

// Thumbnail shrinks img to fit within maxW x maxH preserving aspect ratio.
// Images already within bounds are returned unchanged.
func Thumbnail(img image.Image, maxW, maxH int) image.Image {
	if img == nil {
		return nil
	}
	if maxW < 1 {
		maxW = 1
	}
	if maxH < 1 {
		maxH = 1
	}
	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return img
	}
	return imaging.Fit(img, maxW, maxH, imaging.Box)
}
