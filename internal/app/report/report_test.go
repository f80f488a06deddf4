package report

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
)

var (
	testBackground  = color.NRGBA{R: 50, G: 50, B: 50, A: 255}
	testBannerColor = color.NRGBA{R: 239, G: 177, B: 24, A: 255}
)

// reportImage paints a victory banner whose bottom-right corner sits at the
// given point, scaled relative to the reference banner size.
func reportImage(w, h int, corner image.Point, scale int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, testBackground)
		}
	}
	bannerW := sampleBannerWidth * scale
	bannerH := sampleBannerHeight * scale
	for y := corner.Y - bannerH + 1; y <= corner.Y; y++ {
		for x := corner.X - bannerW + 1; x <= corner.X; x++ {
			img.SetNRGBA(x, y, testBannerColor)
		}
	}
	return img
}

func TestAlign(t *testing.T) {
	img := reportImage(700, 600, image.Pt(560, 100), 1)

	a, ok := align(img)
	require.True(t, ok)
	assert.Equal(t, 560, a.X)
	assert.Equal(t, 100, a.Y)
	assert.Equal(t, 1.0, a.Scale)
}

func TestAlignScaled(t *testing.T) {
	img := reportImage(1400, 1200, image.Pt(1120, 200), 2)

	a, ok := align(img)
	require.True(t, ok)
	assert.Equal(t, 1120, a.X)
	assert.Equal(t, 200, a.Y)
	assert.Equal(t, 2.0, a.Scale)
}

func TestAlignToleratesColorNoise(t *testing.T) {
	img := reportImage(700, 600, image.Pt(560, 100), 1)
	// Shift some banner pixels within the color tolerance.
	img.SetNRGBA(400, 80, color.NRGBA{R: 239 + colorTolerance, G: 177 - colorTolerance, B: 24, A: 255})

	_, ok := align(img)
	assert.True(t, ok)
}

func TestAlignRejectsWrongShape(t *testing.T) {
	// A square patch of banner color is not a banner.
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))
	for y := 100; y < 200; y++ {
		for x := 100; x < 200; x++ {
			img.SetNRGBA(x, y, testBannerColor)
		}
	}

	_, ok := align(img)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, reportImage(700, 600, image.Pt(560, 100), 1)))

	data, err := Summarize(&buf)
	require.NoError(t, err)

	out, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	// Three crops side by side: 135 + 120 + 135 wide, tallest is 153.
	assert.Equal(t, 390, out.Bounds().Dx())
	assert.Equal(t, 153, out.Bounds().Dy())
	// The filler above the shorter player panels carries the banner color.
	r, g, b, _ := out.At(0, 0).RGBA()
	assert.Equal(t, testBannerColor, color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 255})
}

func TestSummarizeNoBanner(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 100, 100))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	_, err := Summarize(&buf)
	assert.ErrorIs(t, err, errtype.ErrNoReport)
}

func TestSummarizeBadImageData(t *testing.T) {
	_, err := Summarize(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errtype.ErrNoReport)
}
