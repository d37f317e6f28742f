package marking

import "fmt"

// Policy tells a renderer how to paint a marking.
type Policy int

const (
	// PolicyNone paints a plain changed-lines pair.
	PolicyNone Policy = iota
	// PolicyAdd paints an inserted block.
	PolicyAdd
	// PolicyCollapse paints a collapsed block with a label substitution.
	PolicyCollapse
	// PolicyExtract links a call site to a newly extracted method.
	PolicyExtract
)

var policyNames = map[Policy]string{
	PolicyNone:     "NONE",
	PolicyAdd:      "ADD",
	PolicyCollapse: "COLLAPSE",
	PolicyExtract:  "EXTRACT",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the policy by name.
func (p Policy) MarshalText() ([]byte, error) {
	s, ok := policyNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown policy %d", int(p))
	}
	return []byte(s), nil
}

// UnmarshalText decodes a policy name.
func (p *Policy) UnmarshalText(b []byte) error {
	for k, v := range policyNames {
		if v == string(b) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown policy %q", string(b))
}

// Side selects one of the ranges of a marking.
type Side int

const (
	SideBefore Side = iota
	SideAfter
	SideIntermediate
)

var sideNames = map[Side]string{
	SideBefore:       "before",
	SideAfter:        "after",
	SideIntermediate: "intermediate",
}

func (s Side) String() string {
	if n, ok := sideNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText encodes the side by name.
func (s Side) MarshalText() ([]byte, error) {
	n, ok := sideNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown side %d", int(s))
	}
	return []byte(n), nil
}

// UnmarshalText decodes a side name.
func (s *Side) UnmarshalText(b []byte) error {
	for k, v := range sideNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown side %q", string(b))
}

// Orientation says which pane of a three-pane view the intermediate range
// pairs with.
type Orientation int

const (
	OrientationLeft Orientation = iota
	OrientationRight
)

func (o Orientation) String() string {
	switch o {
	case OrientationLeft:
		return "left"
	case OrientationRight:
		return "right"
	default:
		return "unknown"
	}
}

// MarshalText encodes the orientation by name.
func (o Orientation) MarshalText() ([]byte, error) {
	switch o {
	case OrientationLeft, OrientationRight:
		return []byte(o.String()), nil
	default:
		return nil, fmt.Errorf("unknown orientation %d", int(o))
	}
}

// UnmarshalText decodes an orientation name.
func (o *Orientation) UnmarshalText(b []byte) error {
	switch string(b) {
	case "left":
		*o = OrientationLeft
	case "right":
		*o = OrientationRight
	default:
		return fmt.Errorf("unknown orientation %q", string(b))
	}
	return nil
}
