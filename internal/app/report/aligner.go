package report

import (
	"image"
	"math"
)

// Banner reference colors and dimensions, taken from an unscaled report screenshot.
const (
	sampleBannerWidth  = 273
	sampleBannerHeight = 41
	colorTolerance     = 4
	ratioTolerance     = 0.1
)

var (
	victoryBannerColor = [3]uint8{239, 177, 24}
	defeatBannerColor  = [3]uint8{193, 61, 10}
)

// alignment locates the bottom-right corner of the result banner and the
// scale of the report relative to the reference screenshot.
type alignment struct {
	X     int
	Y     int
	Scale float64
}

// bitmap is a per-pixel boolean grid.
type bitmap struct {
	w, h int
	bits []bool
}

func newBitmap(w, h int) bitmap {
	return bitmap{w: w, h: h, bits: make([]bool, w*h)}
}

func (m bitmap) at(x, y int) bool {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return false
	}
	return m.bits[y*m.w+x]
}

func (m bitmap) set(x, y int) {
	m.bits[y*m.w+x] = true
}

// align searches the image for a result banner. The second return value is
// false when no region matches the banner shape closely enough.
func align(img *image.NRGBA) (alignment, bool) {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	mask := bannerMask(img)

	// Mark transitions from non-banner to banner pixels, scanning right and down.
	xEnter := newBitmap(w, h)
	yEnter := newBitmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if mask.at(x, y) {
				continue
			}
			if mask.at(x+1, y) {
				xEnter.set(x, y)
			}
			if mask.at(x, y+1) {
				yEnter.set(x, y)
			}
		}
	}

	best, ok := findBestCorner(mask, xEnter, yEnter)
	if !ok {
		return alignment{}, false
	}
	// The width is the larger dimension, so its relative error is lower.
	return alignment{
		X:     best.x,
		Y:     best.y,
		Scale: float64(best.width) / sampleBannerWidth,
	}, true
}

type corner struct {
	x, y          int
	width, height int
}

// findBestCorner considers every bottom-right corner candidate, measures the
// banner-colored run extending left and up from it, and keeps the candidate
// whose width to height ratio is closest to the reference banner.
func findBestCorner(mask, xEnter, yEnter bitmap) (corner, bool) {
	var best corner
	bestDiff := math.Inf(1)
	found := false
	for y := 0; y < mask.h; y++ {
		for x := 0; x < mask.w; x++ {
			if !mask.at(x, y) || mask.at(x+1, y) || mask.at(x, y+1) {
				continue
			}
			c := corner{
				x:      x,
				y:      y,
				width:  x - nearestEnterLeft(xEnter, x, y),
				height: y - nearestEnterUp(yEnter, x, y),
			}
			if c.height == 0 {
				continue
			}
			diff := math.Abs(float64(c.width)/float64(c.height) - bannerRatio())
			if diff < bestDiff {
				bestDiff = diff
				best = c
				found = true
			}
		}
	}
	if !found {
		return corner{}, false
	}
	ratio := float64(best.width) / float64(best.height)
	if math.Abs(ratio/bannerRatio()-1) > ratioTolerance {
		return corner{}, false
	}
	return best, true
}

func bannerRatio() float64 {
	return float64(sampleBannerWidth) / float64(sampleBannerHeight)
}

// nearestEnterLeft finds the nearest horizontal banner entry west of x on row y.
func nearestEnterLeft(xEnter bitmap, x, y int) int {
	for pos := x - 1; pos > 0; pos-- {
		if xEnter.at(pos, y) {
			return pos
		}
	}
	return 0
}

// nearestEnterUp finds the nearest vertical banner entry north of y on column x.
func nearestEnterUp(yEnter bitmap, x, y int) int {
	for pos := y - 1; pos > 0; pos-- {
		if yEnter.at(x, pos) {
			return pos
		}
	}
	return 0
}

// bannerMask marks every pixel whose color is within tolerance of either
// result banner color. The difference wraps around in byte arithmetic, so
// values near 0 and near 256 both count as close.
func bannerMask(img *image.NRGBA) bitmap {
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	mask := newBitmap(w, h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			px := [3]uint8{row[x*4], row[x*4+1], row[x*4+2]}
			if nearColor(px, victoryBannerColor) || nearColor(px, defeatBannerColor) {
				mask.set(x, y)
			}
		}
	}
	return mask
}

func nearColor(px, ref [3]uint8) bool {
	for i := range px {
		diff := px[i] - ref[i]
		if diff > colorTolerance && diff < 256-colorTolerance {
			return false
		}
	}
	return true
}
