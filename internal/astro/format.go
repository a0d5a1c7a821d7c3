// Package astro provides coordinate formatting and display helpers for
// catalog records.
package astro

import (
	"fmt"
	"math"
	"strings"
)

// minusSign is the Unicode minus (U+2212), not an ASCII hyphen. Persisted
// coordinate strings are compared verbatim downstream, so this is a
// compatibility contract.
const minusSign = "−"

// FormatRADec renders right ascension (hours, [0,24)) and declination
// (degrees, [-90,90]) as a sexagesimal string:
//
//	18h 36m 56.2s +38° 47′ 01″
//
// RA seconds carry one decimal place; dec seconds are rounded to whole
// numbers. Callers are responsible for range validation; out-of-range
// inputs produce unspecified output.
func FormatRADec(raHours, decDeg float64) string {
	raH := int(math.Floor(raHours))
	raRem := (raHours - float64(raH)) * 60
	raM := int(math.Floor(raRem))
	raS := (raRem - float64(raM)) * 60

	// fmt rounds half away from zero; 59.95s and above would print as
	// "60.0", so carry into the minute field instead.
	if raS >= 59.95 {
		raS = 0
		raM++
		if raM == 60 {
			raM = 0
			raH++
		}
		if raH == 24 {
			raH = 0
		}
	}

	sign := "+"
	if decDeg < 0 {
		sign = minusSign
	}
	absDec := math.Abs(decDeg)
	decD := int(math.Floor(absDec))
	decRem := (absDec - float64(decD)) * 60
	decM := int(math.Floor(decRem))
	decS := int(math.Round((decRem - float64(decM)) * 60))
	if decS == 60 {
		decS = 0
		decM++
		if decM == 60 {
			decM = 0
			decD++
		}
	}

	return fmt.Sprintf("%02dh %02dm %04.1fs %s%02d° %02d′ %02d″",
		raH, raM, raS, sign, decD, decM, decS)
}

// SpectralColor maps the leading letter of a spectral classification to a
// display color hint. Unknown or empty classes fall back to plain white.
func SpectralColor(spectralClass string) string {
	s := strings.TrimSpace(spectralClass)
	if s == "" {
		return "#ffffff"
	}
	switch strings.ToUpper(s[:1]) {
	case "O":
		return "#9bb0ff"
	case "B":
		return "#aabfff"
	case "A":
		return "#cad7ff"
	case "F":
		return "#f8f7ff"
	case "G":
		return "#fff4ea"
	case "K":
		return "#ffd2a1"
	case "M":
		return "#ffcc6f"
	default:
		return "#ffffff"
	}
}
