package summary

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strconv"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	imageWidth  = 640
	imageHeight = 360
	margin      = 24
	lineHeight  = 18
	barHeight   = 22
	barGap      = 14
	labelWidth  = 200
)

var (
	background = color.RGBA{R: 0xF8, G: 0xFA, B: 0xFC, A: 0xFF}
	foreground = color.RGBA{R: 0x1E, G: 0x29, B: 0x3B, A: 0xFF}
	barColor   = color.RGBA{R: 0x38, G: 0x82, B: 0xF6, A: 0xFF}
)

// PNGRenderer draws the summary as an image with a bar per top country.
type PNGRenderer struct{}

func (PNGRenderer) Ext() string         { return "png" }
func (PNGRenderer) ContentType() string { return "image/png" }

func (PNGRenderer) Render(s Summary, w *bytes.Buffer) error {
	img := image.NewRGBA(image.Rect(0, 0, imageWidth, imageHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(foreground),
		Face: basicfont.Face7x13,
	}
	text := func(x, y int, str string) {
		d.Dot = fixed.P(x, y)
		d.DrawString(str)
	}

	y := margin + lineHeight
	text(margin, y, fmt.Sprintf("Total countries: %d", s.Total))
	y += lineHeight
	text(margin, y, "Last refresh: "+s.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	y += lineHeight * 2
	text(margin, y, "Top countries by estimated GDP")
	y += barGap

	maxGDP := 0.0
	for _, c := range s.Top {
		if c.EstimatedGDP > maxGDP {
			maxGDP = c.EstimatedGDP
		}
	}

	barSpan := imageWidth - margin*2 - labelWidth
	for i, c := range s.Top {
		top := y + i*(barHeight+barGap)
		text(margin, top+barHeight-6, fmt.Sprintf("%d. %s", i+1, truncate(c.Name, 26)))

		width := 1
		if maxGDP > 0 {
			width = max(1, int(float64(barSpan)*c.EstimatedGDP/maxGDP))
		}
		bar := image.Rect(margin+labelWidth, top, margin+labelWidth+width, top+barHeight)
		draw.Draw(img, bar, &image.Uniform{C: barColor}, image.Point{}, draw.Src)

		label := strconv.FormatFloat(c.EstimatedGDP, 'f', 2, 64)
		labelX := min(bar.Max.X+6, imageWidth-margin-len(label)*7)
		text(labelX, top+barHeight-6, label)
	}

	return png.Encode(w, img)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
