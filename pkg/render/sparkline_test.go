package render

import (
	"strings"
	"testing"
)

func TestScalePointsFlatSequence(t *testing.T) {
	points := ScalePoints([]float64{1, 1, 1}, 100, 40)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	for _, p := range points {
		if p.Y != 20 {
			t.Fatalf("flat input must sit at the vertical center, got %v", points)
		}
	}
}

func TestScalePointsSingleSample(t *testing.T) {
	points := ScalePoints([]float64{42}, 100, 40)
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Y != 20 || points[1].Y != 20 {
		t.Fatalf("single sample must be a centered horizontal line, got %v", points)
	}
	if points[0].X != 0 || points[1].X != 100 {
		t.Fatalf("single sample must span the full width, got %v", points)
	}
}

func TestScalePointsSpacing(t *testing.T) {
	points := ScalePoints([]float64{1, 2, 3, 4, 5}, 100, 40)
	step := points[1].X - points[0].X
	for i := 1; i < len(points); i++ {
		if got := points[i].X - points[i-1].X; got != step {
			t.Fatalf("x spacing not monotonic: %v vs %v", got, step)
		}
	}
	if step != 25 {
		t.Fatalf("expected step 25, got %v", step)
	}
}

func TestScalePointsAffineInvariance(t *testing.T) {
	base := []float64{3, 7, 2, 9, 5}
	scaled := make([]float64, len(base))
	for i, v := range base {
		scaled[i] = v*1000 + 50
	}

	a := ScalePoints(base, 120, 40)
	b := ScalePoints(scaled, 120, 40)
	for i := range a {
		if diff := a[i].Y - b[i].Y; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("affine transform changed shape at %d: %v vs %v", i, a[i].Y, b[i].Y)
		}
	}
}

func TestTrendColor(t *testing.T) {
	if got := TrendColor([]float64{1, 2}); got != ColorUp {
		t.Fatalf("expected up color, got %s", got)
	}
	if got := TrendColor([]float64{2, 1}); got != ColorDown {
		t.Fatalf("expected down color, got %s", got)
	}
	if got := TrendColor([]float64{5}); got != ColorNeutral {
		t.Fatalf("expected neutral color, got %s", got)
	}
}

func TestSparklineSVGEmptyInput(t *testing.T) {
	svg := SparklineSVG(nil)
	if !strings.Contains(svg, "<polyline") {
		t.Fatalf("empty input must still render a polyline: %s", svg)
	}
}

func TestSparklineSVGColorOverride(t *testing.T) {
	svg := SparklineSVG([]float64{1, 2, 3}, WithColor("#123456"))
	if !strings.Contains(svg, `stroke="#123456"`) {
		t.Fatalf("expected color override in %s", svg)
	}
}

func TestSparklinePNGDoesNotError(t *testing.T) {
	data, err := SparklinePNG([]float64{1, 2, 3, 2, 4}, WithSize(60, 20))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data) == 0 {
		t.Fatalf("expected png bytes")
	}
	if string(data[1:4]) != "PNG" {
		t.Fatalf("expected png signature")
	}
}
