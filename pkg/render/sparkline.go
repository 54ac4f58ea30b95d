package render

import (
	"fmt"
	"math/rand"
	"strings"
)

const (
	// Trend colors matching the dashboard palette.
	ColorUp      = "#16c784"
	ColorDown    = "#ea3943"
	ColorNeutral = "#808a9d"
)

// SparklineOption configures a sparkline.
type SparklineOption func(*sparklineConfig)

type sparklineConfig struct {
	width       int
	height      int
	strokeWidth float64
	color       string
}

// WithSize sets the pixel dimensions.
func WithSize(width, height int) SparklineOption {
	return func(c *sparklineConfig) {
		c.width = width
		c.height = height
	}
}

// WithStrokeWidth sets the polyline stroke width.
func WithStrokeWidth(w float64) SparklineOption {
	return func(c *sparklineConfig) {
		c.strokeWidth = w
	}
}

// WithColor overrides the trend-derived stroke color.
func WithColor(color string) SparklineOption {
	return func(c *sparklineConfig) {
		c.color = color
	}
}

// SparklineSVG renders a value sequence as an axis-less SVG polyline.
// An empty sequence is replaced with a placeholder walk so the chart
// never renders blank. The stroke color follows the first-vs-last
// trend unless overridden.
func SparklineSVG(values []float64, opts ...SparklineOption) string {
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

	points := ScalePoints(values, cfg.width, cfg.height)
	color := cfg.color
	if color == "" {
		color = TrendColor(values)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		cfg.width, cfg.height, cfg.width, cfg.height)
	fmt.Fprintf(&b, `<polyline fill="none" stroke="%s" stroke-width="%.1f" points="%s"/>`,
		color, cfg.strokeWidth, formatPoints(points))
	b.WriteString(`</svg>`)
	return b.String()
}

// Point is a scaled chart coordinate.
type Point struct {
	X float64
	Y float64
}

// ScalePoints maps samples to (x, y) coordinates across the given pixel
// box. X spacing is width/(n-1); y is inverted so higher values sit
// higher on screen. A flat sequence maps to the vertical center and a
// single sample spans the full width as a horizontal line.
func ScalePoints(values []float64, width, height int) []Point {
	n := len(values)
	if n == 0 {
		return nil
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	rng := max - min
	scale := func(v float64) float64 {
		if rng == 0 {
			return float64(height) / 2
		}
		return float64(height) - (v-min)/rng*float64(height)
	}

	if n == 1 {
		y := scale(values[0])
		return []Point{{X: 0, Y: y}, {X: float64(width), Y: y}}
	}

	step := float64(width) / float64(n-1)
	points := make([]Point, n)
	for i, v := range values {
		points[i] = Point{
			X: step * float64(i),
			Y: scale(v),
		}
	}
	return points
}

// TrendColor picks the stroke color from the first-vs-last sample.
func TrendColor(values []float64) string {
	if len(values) < 2 {
		return ColorNeutral
	}
	first, last := values[0], values[len(values)-1]
	switch {
	case last > first:
		return ColorUp
	case last < first:
		return ColorDown
	default:
		return ColorNeutral
	}
}

// PlaceholderWalk synthesizes a random sequence centered at 100 for
// charts with no data yet.
func PlaceholderWalk(n int) []float64 {
	values := make([]float64, n)
	v := 100.0
	for i := range values {
		v += (rand.Float64() - 0.5) * 4
		values[i] = v
	}
	return values
}

func formatPoints(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}
