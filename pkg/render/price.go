package render

import (
	"math"
	"strconv"
	"strings"
)

// FormatPrice renders a price with precision scaled to its magnitude.
// Large prices get thousands separators and two decimals; sub-cent
// prices keep enough digits to stay meaningful.
func FormatPrice(price float64) string {
	abs := math.Abs(price)

	var minDigits, maxDigits int
	switch {
	case abs >= 1000:
		minDigits, maxDigits = 2, 2
	case abs >= 1:
		minDigits, maxDigits = 2, 4
	case abs >= 0.01:
		minDigits, maxDigits = 4, 6
	case abs >= 0.0001:
		minDigits, maxDigits = 6, 8
	default:
		minDigits, maxDigits = 8, 10
	}

	s := strconv.FormatFloat(price, 'f', maxDigits, 64)
	s = trimFraction(s, minDigits)
	return groupThousands(s)
}

// trimFraction drops trailing zeros but keeps at least min fraction digits.
func trimFraction(s string, min int) string {
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	frac := s[dot+1:]
	keep := len(frac)
	for keep > min && frac[keep-1] == '0' {
		keep--
	}
	return s[:dot+1] + frac[:keep]
}

// groupThousands inserts comma separators into the integer part.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart = s[:dot]
		fracPart = s[dot:]
	}

	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	out := intPart + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a signed change percentage with two decimals.
func FormatPercent(pct float64) string {
	s := strconv.FormatFloat(pct, 'f', 2, 64)
	if pct >= 0 {
		s = "+" + s
	}
	return s + "%"
}
