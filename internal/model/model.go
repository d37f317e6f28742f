// Package model defines the core data types shared across refmark.
package model

import "fmt"

// RiskLevel categorizes how serious a consistency finding is.
type RiskLevel int

const (
	RiskInfo RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r RiskLevel) String() string {
	switch r {
	case RiskInfo:
		return "info"
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Severity for findings.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Group is the coarse classification of a refactoring. It drives display
// truncation and history folding.
type Group int

const (
	GroupMethod Group = iota
	GroupVariable
	GroupAttribute
	GroupClass
	GroupAbstractClass
	GroupInterface
	GroupPackage
)

var groupNames = map[Group]string{
	GroupMethod:        "METHOD",
	GroupVariable:      "VARIABLE",
	GroupAttribute:     "ATTRIBUTE",
	GroupClass:         "CLASS",
	GroupAbstractClass: "ABSTRACT_CLASS",
	GroupInterface:     "INTERFACE",
	GroupPackage:       "PACKAGE",
}

func (g Group) String() string {
	if s, ok := groupNames[g]; ok {
		return s
	}
	return "unknown"
}

// MarshalText encodes the group by name.
func (g Group) MarshalText() ([]byte, error) {
	s, ok := groupNames[g]
	if !ok {
		return nil, fmt.Errorf("unknown group %d", int(g))
	}
	return []byte(s), nil
}

// UnmarshalText decodes a group name.
func (g *Group) UnmarshalText(b []byte) error {
	for k, v := range groupNames {
		if v == string(b) {
			*g = k
			return nil
		}
	}
	return fmt.Errorf("unknown group %q", string(b))
}

// Sidedness counts the distinct code locations a refactoring relates.
type Sidedness int

const (
	TwoSided Sidedness = iota
	ThreeSided
	MultiSided
)

var sidednessNames = map[Sidedness]string{
	TwoSided:   "TWO_SIDED",
	ThreeSided: "THREE_SIDED",
	MultiSided: "MULTI_SIDED",
}

func (s Sidedness) String() string {
	if n, ok := sidednessNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText encodes the sidedness by name.
func (s Sidedness) MarshalText() ([]byte, error) {
	n, ok := sidednessNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown sidedness %d", int(s))
	}
	return []byte(n), nil
}

// UnmarshalText decodes a sidedness name.
func (s *Sidedness) UnmarshalText(b []byte) error {
	for k, v := range sidednessNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown sidedness %q", string(b))
}
