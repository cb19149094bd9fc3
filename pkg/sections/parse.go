package sections

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ferrite-dev/ferrite/pkg/units"
)

// rolledDims holds catalogue dimensions in mm: height, flange width, web
// thickness, flange thickness.
type rolledDims struct {
	h, w, tw, tf float64
}

var rolledProfiles = map[string]rolledDims{
	"IPE100": {100, 55, 4.1, 5.7},
	"IPE160": {160, 82, 5.0, 7.4},
	"IPE200": {200, 100, 5.6, 8.5},
	"IPE300": {300, 150, 7.1, 10.7},
	"IPE400": {400, 180, 8.6, 13.5},
	"IPE500": {500, 200, 10.2, 16},
	"IPE600": {600, 220, 12, 19},
	"HEA200": {190, 200, 6.5, 10},
	"HEA300": {290, 300, 8.5, 14},
	"HEB200": {200, 200, 9, 15},
	"HEB300": {300, 300, 11, 19},
	"HEM300": {340, 310, 21, 39},
	"UNP100": {100, 50, 6, 8.5},
	"UNP200": {200, 75, 8.5, 11.25},
	"UNP300": {300, 100, 10, 16},
}

// FromString parses a section designation like "IPE400", "BG800x400x30x40"
// or "TUB375x35" into a Section with dimensions converted from mm to the
// requested unit. A "/"-separated pair designates a tapered member and
// yields the end-2 section as taper.
func FromString(designation string, unit units.Unit) (sec, taper *Section, err error) {
	designation = strings.TrimSpace(designation)
	if i := strings.IndexByte(designation, '/'); i >= 0 {
		sec, _, err = FromString(designation[:i], unit)
		if err != nil {
			return nil, nil, err
		}
		taper, _, err = FromString(designation[i+1:], unit)
		if err != nil {
			return nil, nil, err
		}
		return sec, taper, nil
	}

	base, prefix, ok := BaseTypeFromPrefix(designation)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unrecognized designation %q", ErrUnsupportedSectionType, designation)
	}
	up := strings.ToUpper(designation)
	scale := units.ScaleFactor(units.MM, unit)

	if d, found := rolledProfiles[up]; found {
		switch base {
		case IProfile:
			sec = NewIProfile(up, d.h*scale, d.w*scale, d.w*scale, d.tw*scale, d.tf*scale, d.tf*scale, unit)
		case Channel:
			sec = NewChannel(up, d.h*scale, d.w*scale, d.tw*scale, d.tf*scale, unit)
		}
		sec.prefix = prefix
		sec.designation = up
		return sec, nil, nil
	}

	dims, err := parseDims(up[len(prefix):], scale)
	if err != nil {
		return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
	}

	switch base {
	case IProfile:
		if len(dims) == 1 {
			return nil, nil, fmt.Errorf("%w: %q is not in the rolled profile catalogue", ErrUnsupportedSectionType, designation)
		}
		if err := wantDims(dims, 4); err != nil {
			return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
		}
		sec = NewIProfile(up, dims[0], dims[1], dims[1], dims[2], dims[3], dims[3], unit)
	case TProfile:
		if err := wantDims(dims, 4); err != nil {
			return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
		}
		sec = NewTProfile(up, dims[0], dims[1], dims[2], dims[3], unit)
	case Box:
		switch prefix {
		case "SHS":
			// SHS200x10 is shorthand for SHS200x200x10.
			if len(dims) == 2 {
				dims = []float64{dims[0], dims[0], dims[1]}
			}
			fallthrough
		case "RHS":
			if err := wantDims(dims, 3); err != nil {
				return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
			}
			sec = NewBox(up, dims[0], dims[1], dims[2], dims[2], unit)
		default:
			if err := wantDims(dims, 4); err != nil {
				return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
			}
			sec = NewBox(up, dims[0], dims[1], dims[2], dims[3], unit)
		}
	case Tubular:
		if err := wantDims(dims, 2); err != nil {
			return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
		}
		r := dims[0]
		if prefix == "OD" {
			r /= 2
		}
		sec = NewTubular(up, r, dims[1], unit)
	case Circular:
		if err := wantDims(dims, 1); err != nil {
			return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
		}
		sec = NewCircular(up, dims[0], unit)
	case Channel:
		if len(dims) == 1 {
			return nil, nil, fmt.Errorf("%w: %q is not in the rolled profile catalogue", ErrUnsupportedSectionType, designation)
		}
		if err := wantDims(dims, 4); err != nil {
			return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
		}
		sec = NewChannel(up, dims[0], dims[1], dims[2], dims[3], unit)
	case Angular:
		// Bulb flat convention: height and thickness only. Flange width
		// and thickness fall back to h/2 and the web thickness.
		if err := wantDims(dims, 2); err != nil {
			return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
		}
		sec = NewAngular(up, dims[0], dims[0]/2, dims[1], dims[1], unit)
	case Flatbar:
		if err := wantDims(dims, 2); err != nil {
			return nil, nil, fmt.Errorf("designation %q: %w", designation, err)
		}
		sec = NewFlatbar(up, dims[0], dims[1], unit)
	default:
		return nil, nil, fmt.Errorf("%w: designation %q carries no dimensions", ErrUnsupportedSectionType, designation)
	}
	sec.prefix = prefix
	return sec, nil, nil
}

func parseDims(s string, scale float64) ([]float64, error) {
	if s == "" {
		return nil, fmt.Errorf("missing dimensions")
	}
	parts := strings.Split(s, "X")
	dims := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad dimension %q", p)
		}
		dims = append(dims, v*scale)
	}
	return dims, nil
}

func wantDims(dims []float64, n int) error {
	if len(dims) != n {
		return fmt.Errorf("expected %d dimensions, got %d", n, len(dims))
	}
	return nil
}
