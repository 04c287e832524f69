package utils

import (
	"math"
	"strconv"
	"strings"
)

// FormatARS formats an amount the way es-AR renders numbers: "." as the
// thousands separator, "," for decimals, at most three fraction digits.
// 12500 -> "12.500", 1234.5 -> "1.234,5". No currency symbol is added.
func FormatARS(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "0"
	}

	neg := amount < 0
	if neg {
		amount = -amount
	}

	scaled := math.Round(amount * 1000)
	whole := math.Floor(scaled / 1000)
	frac := int64(scaled - whole*1000)

	s := strconv.FormatFloat(whole, 'f', 0, 64)

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 5)
	if neg && (whole > 0 || frac > 0) {
		b.WriteByte('-')
	}

	// Insert separators from the left.
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte('.')
		b.WriteString(s[i : i+3])
	}

	if frac > 0 {
		digits := strings.TrimRight(leftPad3(frac), "0")
		b.WriteByte(',')
		b.WriteString(digits)
	}

	return b.String()
}

func leftPad3(n int64) string {
	s := strconv.FormatInt(n, 10)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
