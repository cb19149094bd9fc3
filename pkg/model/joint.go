package model

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
)

// Joint is a connection concept: a centre point plus the members meeting
// there. The main member governs eccentricity discovery for the others.
type Joint struct {
	Name   string
	GUID   string
	Centre v3.Vec

	Members    []*Beam
	MainMember *Beam
}

// NewJoint creates a joint and registers it on every member.
func NewJoint(name string, centre v3.Vec, members []*Beam, mainMember *Beam) *Joint {
	j := &Joint{
		Name: name, GUID: uuid.NewString(), Centre: centre,
		Members: members, MainMember: mainMember,
	}
	for _, m := range members {
		m.connectedTo = append(m.connectedTo, j)
	}
	return j
}

// ConnClass classifies where along a member a joint binds.
type ConnClass int

const (
	ConnEnd1 ConnClass = iota
	ConnEnd2
	ConnInterior
)

func (c ConnClass) String() string {
	switch c {
	case ConnEnd1:
		return "end1"
	case ConnEnd2:
		return "end2"
	case ConnInterior:
		return "interior"
	}
	return "unknown"
}

// JointRef is a non-owning back-reference from a member to a joint and
// the classification of where it occurs.
type JointRef struct {
	Joint *Joint
	Class ConnClass
	Point v3.Vec
}
