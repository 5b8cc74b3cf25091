package formatter

import (
	"math"

	"github.com/mcncl/jsonlayer/internal/models"
)

// ClipboardText renders v as the raw text a user expects when copying it:
// strings without quotes, numbers, booleans and big integers as literals,
// null as the empty string, and containers as JSON (pretty unless compact).
func ClipboardText(v models.Value, compact bool) (string, error) {
	switch x := v.(type) {
	case nil, models.Null:
		return "", nil
	case models.String:
		return string(x), nil
	case models.Bool:
		if x {
			return "true", nil
		}
		return "false", nil
	case models.Number:
		f := float64(x)
		switch {
		case math.IsNaN(f):
			return "NaN", nil
		case math.IsInf(f, 1):
			return "Infinity", nil
		case math.IsInf(f, -1):
			return "-Infinity", nil
		}
		return formatECMA(f), nil
	case models.BigInt:
		return x.String(), nil
	}
	if compact {
		return Compact(v)
	}
	return Pretty(v)
}
