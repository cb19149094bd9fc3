// Package units defines the supported length units and the exact scale
// factors between them. Every geometric quantity in the model carries one
// of these units; unit-cascade conversion multiplies by a single factor
// looked up here.
package units

import (
	"fmt"
	"strings"
)

// ErrInvalidUnit reports an unrecognized unit token.
var ErrInvalidUnit = fmt.Errorf("invalid unit")

// Unit is a length unit of measure.
type Unit int

const (
	M  Unit = iota // meters
	MM             // millimeters
)

func (u Unit) String() string {
	switch u {
	case M:
		return "m"
	case MM:
		return "mm"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// FromString parses a unit token. Matching is case-insensitive.
func FromString(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m":
		return M, nil
	case "mm":
		return MM, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, s)
}

// scaleMap holds the canonical factors. The two cross factors are exact
// reciprocals, which is what makes unit round-trips lossless.
var scaleMap = map[[2]Unit]float64{
	{M, M}:   1.0,
	{MM, MM}: 1.0,
	{MM, M}:  0.001,
	{M, MM}:  1000.0,
}

// ScaleFactor returns the multiplier converting a length from one unit to
// another. Exactly one factor exists for every unit pair.
func ScaleFactor(from, to Unit) float64 {
	return scaleMap[[2]Unit{from, to}]
}

// PointTol is the coincidence tolerance for point comparisons in the given
// unit. Used by connectivity resolution and curve deduplication.
func PointTol(u Unit) float64 {
	if u == MM {
		return 0.1
	}
	return 1e-4
}

// ClosureTol is the curve-closure tolerance in the given unit. Boundary
// curves revalidate against this after rescaling.
func ClosureTol(u Unit) float64 {
	if u == MM {
		return 1.0
	}
	return 1e-3
}
