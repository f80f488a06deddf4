// Package report turns full battle report screenshots into compact summary
// images by locating the result banner and cropping the panels around it.
package report

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/beldeveloper/go-errors-context"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/leesiuhin7/gge-utility-bot/internal/app/errtype"
	"github.com/leesiuhin7/gge-utility-bot/internal/app/metrics"
)

// Summarize reads a battle report screenshot and returns a PNG-encoded
// summary strip. Returns errtype.ErrNoReport when no banner is found in
// the image.
func Summarize(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{Path: "report.Summarize.Decode"})
	}
	img := image.NewNRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(img, img.Rect, src, src.Bounds().Min, draw.Src)

	a, ok := align(img)
	if !ok {
		return nil, errors.WrapContext(errtype.ErrNoReport, errors.Context{Path: "report.Summarize.align"})
	}
	var buf bytes.Buffer
	err = png.Encode(&buf, generateSummary(img, a))
	if err != nil {
		return nil, errors.WrapContext(err, errors.Context{Path: "report.Summarize.Encode"})
	}
	metrics.BattleReportSummaries.Inc()
	return buf.Bytes(), nil
}
