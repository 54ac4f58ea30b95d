package render

import "testing"

func TestFormatPriceBands(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1500.5, "1,500.50"},
		{68245.32, "68,245.32"},
		{3421.15, "3,421.15"},
		{142.87, "142.87"},
		{1.2345, "1.2345"},
		{1.2, "1.20"},
		{0.5423, "0.5423"},
		{0.54, "0.5400"},
		{0.00002341, "0.00002341"},
		{0.0001, "0.000100"},
		{0.00000098, "0.00000098"},
	}
	for _, c := range cases {
		if got := FormatPrice(c.in); got != c.want {
			t.Fatalf("FormatPrice(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPriceNegative(t *testing.T) {
	if got := FormatPrice(-1500.5); got != "-1,500.50" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(2.5); got != "+2.50%" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatPercent(-1.2); got != "-1.20%" {
		t.Fatalf("unexpected %q", got)
	}
}
