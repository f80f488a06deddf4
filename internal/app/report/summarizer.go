package report

import (
	"image"
	"image/color"
	"image/draw"
)

// Crop boxes relative to the bottom-right banner corner, at scale 1.0.
// Each pair is the top-left and bottom-right corner of one region.
var summaryBoxes = [][2][2]float64{
	{{-533, -44}, {-413, 109}}, // battle info
	{{-526, 363}, {-391, 465}}, // left player
	{{-197, 363}, {-62, 465}},  // right player
}

// generateSummary crops the battle info and both player panels out of the
// report and joins them into a single strip. The banner color fills the
// space left by panels of unequal height.
func generateSummary(img *image.NRGBA, a alignment) *image.NRGBA {
	crops := make([]*image.NRGBA, 0, len(summaryBoxes))
	for _, box := range summaryBoxes {
		x1 := clampCoord(box[0][0]*a.Scale+float64(a.X), img.Rect.Dx())
		y1 := clampCoord(box[0][1]*a.Scale+float64(a.Y), img.Rect.Dy())
		x2 := clampCoord(box[1][0]*a.Scale+float64(a.X), img.Rect.Dx())
		y2 := clampCoord(box[1][1]*a.Scale+float64(a.Y), img.Rect.Dy())
		crops = append(crops, crop(img, x1, y1, x2, y2))
	}
	// The info panel sits between the player panels.
	return combine(crops[1], crops[0], crops[2], bannerColorAt(img, a))
}

// clampCoord truncates a scaled offset and keeps it inside [0, limit].
func clampCoord(v float64, limit int) int {
	pos := int(v)
	if pos < 0 {
		return 0
	}
	if pos > limit {
		return limit
	}
	return pos
}

func crop(img *image.NRGBA, x1, y1, x2, y2 int) *image.NRGBA {
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	r := image.Rect(x1, y1, x2, y2).Add(img.Rect.Min)
	out := image.NewNRGBA(image.Rect(0, 0, x2-x1, y2-y1))
	draw.Draw(out, out.Rect, img, r.Min, draw.Src)
	return out
}

func bannerColorAt(img *image.NRGBA, a alignment) color.NRGBA {
	c := img.NRGBAAt(img.Rect.Min.X+a.X, img.Rect.Min.Y+a.Y)
	c.A = 255
	return c
}

// combine lays the images out horizontally, each centered vertically.
func combine(left, middle, right *image.NRGBA, bg color.NRGBA) *image.NRGBA {
	height := left.Rect.Dy()
	if middle.Rect.Dy() > height {
		height = middle.Rect.Dy()
	}
	if right.Rect.Dy() > height {
		height = right.Rect.Dy()
	}
	width := left.Rect.Dx() + middle.Rect.Dx() + right.Rect.Dx()

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Rect, image.NewUniform(bg), image.Point{}, draw.Src)
	x := 0
	for _, img := range []*image.NRGBA{left, middle, right} {
		y := (height - img.Rect.Dy()) / 2
		target := image.Rect(x, y, x+img.Rect.Dx(), y+img.Rect.Dy())
		draw.Draw(out, target, img, img.Rect.Min, draw.Src)
		x += img.Rect.Dx()
	}
	return out
}
