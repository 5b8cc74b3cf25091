package formatter

import (
	"math"
	"strconv"
	"strings"

	"github.com/mcncl/jsonlayer/internal/models"
)

// FormatNumber renders f the way ECMAScript's Number::toString does, using
// the shortest digit string that round-trips. Non-finite values become null.
//
// An integral value beyond ±MaxSafeInteger is written in exponent form even
// where ECMAScript would print plain digits, so that parsing it back yields a
// Number and not a BigInt.
func FormatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := formatECMA(f)
	if f == math.Trunc(f) && math.Abs(f) > models.MaxSafeInteger && !strings.ContainsAny(s, ".e") {
		return formatExponent(f)
	}
	return s
}

// decompose returns the shortest round-trip digits of |f| and the decimal
// exponent n such that |f| = 0.digits × 10^n.
func decompose(f float64) (string, int) {
	s := strconv.FormatFloat(math.Abs(f), 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	return strings.Replace(mant, ".", "", 1), e + 1
}

func formatECMA(f float64) string {
	if f == 0 {
		return "0"
	}
	digits, n := decompose(f)
	k := len(digits)
	sign := ""
	if f < 0 {
		sign = "-"
	}
	switch {
	case k <= n && n <= 21:
		return sign + digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		return sign + digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		return sign + "0." + strings.Repeat("0", -n) + digits
	default:
		return sign + exponentForm(digits, n-1)
	}
}

func formatExponent(f float64) string {
	digits, n := decompose(f)
	sign := ""
	if f < 0 {
		sign = "-"
	}
	return sign + exponentForm(digits, n-1)
}

func exponentForm(digits string, e int) string {
	mant := digits[:1]
	if len(digits) > 1 {
		mant += "." + digits[1:]
	}
	if e < 0 {
		return mant + "e-" + strconv.Itoa(-e)
	}
	return mant + "e+" + strconv.Itoa(e)
}
