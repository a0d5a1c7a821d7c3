// Package catalog loads the star dataset, indexes it, and guards the load
// behind a single-flight state machine with a sticky failure flag.
package catalog

import "strings"

// Record is one star as parsed from the dataset. Records are owned by the
// Index after construction and are never mutated.
type Record struct {
	ID         int     `json:"id"`
	ProperName string  `json:"proper_name,omitempty"`
	RA         float64 `json:"ra"`  // right ascension, hours [0,24)
	Dec        float64 `json:"dec"` // declination, degrees [-90,90]
	Distance   float64 `json:"distance"`
	Magnitude  float64 `json:"magnitude"`
	AbsMag     float64 `json:"abs_mag"`
	Spectral   string  `json:"spectral_class,omitempty"`
	IsVariable bool    `json:"is_variable"`

	// Cartesian position, taken as given from the dataset and not
	// re-derived from ra/dec/distance.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HasName reports whether the star carries a non-blank proper name.
func (r Record) HasName() bool {
	return strings.TrimSpace(r.ProperName) != ""
}
