package usecasees

import (
	"math"
	"strings"
)

// PipSizes lists instruments whose pip is not the standard 0.0001.
var PipSizes = map[string]float64{
	"XAUUSD": 0.1,
	"XAGUSD": 0.01,
	"BTCUSD": 1,
	"ETHUSD": 0.1,
	"US30":   1,
	"NAS100": 1,
	"SPX500": 0.1,
	"GER40":  1,
	"UK100":  1,
	"USOIL":  0.01,
}

// PipSize returns the price increment of one pip for a symbol.
func PipSize(symbol string) float64 {
	symbol = strings.ToUpper(symbol)

	if size, ok := PipSizes[symbol]; ok {
		return size
	}

	if strings.Contains(symbol, "JPY") {
		return 0.01
	}

	return 0.0001
}

// ResolveStopPips converts a pip-encoded stop offset to a price. The sign of
// the offset is ignored; a stop always sits below a long entry and above a
// short entry.
func ResolveStopPips(entry, pips, size float64, sell bool) float64 {
	m := math.Abs(pips) * size

	if sell {
		return roundPrice(entry+m, size)
	}

	return roundPrice(entry-m, size)
}

// ResolveTargetPips converts a pip-encoded target offset to a price, on the
// profit side of the entry.
func ResolveTargetPips(entry, pips, size float64, sell bool) float64 {
	m := math.Abs(pips) * size

	if sell {
		return roundPrice(entry-m, size)
	}

	return roundPrice(entry+m, size)
}

// roundPrice clamps float drift to the instrument's precision.
func roundPrice(price, size float64) float64 {
	decimals := 0
	for size < 1 {
		size *= 10
		decimals++
	}

	pow := math.Pow(10, float64(decimals))

	return math.Round(price*pow) / pow
}
