package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

// SparklinePNG renders the pixel-canvas variant of the sparkline as an
// encoded PNG. Scaling rules are shared with the SVG renderer.
func SparklinePNG(values []float64, opts ...SparklineOption) ([]byte, error) {
	cfg := &sparklineConfig{
		width:       120,
		height:      40,
		strokeWidth: 1.5,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if len(values) == 0 {
		values = PlaceholderWalk(16)
	}

	stroke := cfg.color
	if stroke == "" {
		stroke = TrendColor(values)
	}

	img := image.NewRGBA(image.Rect(0, 0, cfg.width, cfg.height))
	points := ScalePoints(values, cfg.width-1, cfg.height-1)
	c := parseHexColor(stroke)
	for i := 1; i < len(points); i++ {
		drawLine(img, points[i-1], points[i], c)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawLine(img *image.RGBA, a, b Point, c color.RGBA) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		img.SetRGBA(int(a.X), int(a.Y), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Round(a.X + dx*t))
		y := int(math.Round(a.Y + dy*t))
		img.SetRGBA(x, y, c)
	}
}

func parseHexColor(s string) color.RGBA {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{R: 0x80, G: 0x8a, B: 0x9d, A: 0xff}
	}
	hex := func(hi, lo byte) uint8 {
		toNibble := func(b byte) uint8 {
			switch {
			case b >= '0' && b <= '9':
				return b - '0'
			case b >= 'a' && b <= 'f':
				return b - 'a' + 10
			case b >= 'A' && b <= 'F':
				return b - 'A' + 10
			}
			return 0
		}
		return toNibble(hi)<<4 | toNibble(lo)
	}
	return color.RGBA{
		R: hex(s[1], s[2]),
		G: hex(s[3], s[4]),
		B: hex(s[5], s[6]),
		A: 0xff,
	}
}
