package sections

import "strings"

// BaseType is the closed taxonomy of cross-section categories. Profile
// construction, sec_str formatting and property calculation all dispatch
// exhaustively on this enum.
type BaseType int

const (
	IProfile BaseType = iota
	TProfile
	Box
	Tubular
	Circular
	Channel
	Angular
	Flatbar
	Poly
	General
)

func (b BaseType) String() string {
	switch b {
	case IProfile:
		return "IProfile"
	case TProfile:
		return "TProfile"
	case Box:
		return "Box"
	case Tubular:
		return "Tubular"
	case Circular:
		return "Circular"
	case Channel:
		return "Channel"
	case Angular:
		return "Angular"
	case Flatbar:
		return "Flatbar"
	case Poly:
		return "Poly"
	case General:
		return "General"
	}
	return "Unknown"
}

// Designation prefixes per category. Rolled profiles (IPE, HEA, ...) map
// to IProfile; the welded girder prefixes (IG, HG) do too.
var prefixMap = []struct {
	prefix string
	base   BaseType
}{
	{"IPE", IProfile},
	{"HEA", IProfile},
	{"HEB", IProfile},
	{"HEM", IProfile},
	{"IG", IProfile},
	{"HG", IProfile},
	{"TG", TProfile},
	{"BG", Box},
	{"CG", Box},
	{"SHS", Box},
	{"RHS", Box},
	{"TUB", Tubular},
	{"PIPE", Tubular},
	{"OD", Tubular},
	{"CIRC", Circular},
	{"UNP", Channel},
	{"HP", Angular},
	{"FB", Flatbar},
	{"GENBEAM", General},
	{"GENERAL", General},
}

// BaseTypeFromPrefix maps a designation string to its category by the
// longest matching known prefix. ok is false for unknown designations.
func BaseTypeFromPrefix(designation string) (base BaseType, prefix string, ok bool) {
	up := strings.ToUpper(strings.TrimSpace(designation))
	best := -1
	for i, e := range prefixMap {
		if strings.HasPrefix(up, e.prefix) {
			if best < 0 || len(e.prefix) > len(prefixMap[best].prefix) {
				best = i
			}
		}
	}
	if best < 0 {
		return 0, "", false
	}
	return prefixMap[best].base, prefixMap[best].prefix, true
}

// HasFlanges reports whether the category defines named web/flange
// sub-parts for shell thickness assignment.
func (b BaseType) HasFlanges() bool {
	return b == IProfile || b == TProfile
}
