// Package extract maps the mining engine's kind-specific detections onto
// canonical model events.
package extract

import (
	"strings"

	"github.com/sprite-ai/refmark/internal/marking"
)

// Roles used as keys in the detection bundles.
const (
	RoleBefore    = "before"
	RoleAfter     = "after"
	RoleExtracted = "extracted"
	RoleInlined   = "inlined"
)

// Range keys used in Detection.Ranges.
const (
	RangeExtractedFromSource = "extracted_from_source"
	RangeExtractedToTarget   = "extracted_to_target"
	RangeInvocations         = "invocations"
	RangeInlinedToTarget     = "inlined_to_target"
	RangeExtractedFrom       = "extracted_from"
	RangeInlinedTo           = "inlined_to"
)

// CodeRange is a one-based inclusive line range in a file.
type CodeRange struct {
	File      string `json:"file" yaml:"file"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line" yaml:"end_line"`
}

// Span converts the range into a marking span; nil stays nil.
func (r *CodeRange) Span() *marking.Span {
	if r == nil {
		return nil
	}
	return &marking.Span{Path: r.File, Start: r.StartLine, End: r.EndLine}
}

// Operation describes a method as seen by the mining engine.
type Operation struct {
	Class  string     `json:"class" yaml:"class"`
	Name   string     `json:"name" yaml:"name"`
	Params []string   `json:"params,omitempty" yaml:"params,omitempty"`
	Range  *CodeRange `json:"range,omitempty" yaml:"range,omitempty"`
	Body   *CodeRange `json:"body,omitempty" yaml:"body,omitempty"`
}

// Signature returns "pkg.Class.name(T1, T2)".
func (o Operation) Signature() string {
	if o.Class == "" {
		return o.ShortSignature()
	}
	return o.Class + "." + o.ShortSignature()
}

// ShortSignature returns "name(T1, T2)".
func (o Operation) ShortSignature() string {
	return o.Name + "(" + strings.Join(o.Params, ", ") + ")"
}

// Class describes a type declaration.
type Class struct {
	Name      string     `json:"name" yaml:"name"`
	Package   string     `json:"package,omitempty" yaml:"package,omitempty"`
	Interface bool       `json:"interface,omitempty" yaml:"interface,omitempty"`
	Abstract  bool       `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	Range     *CodeRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// ShortName returns the last segment of the qualified name.
func (c Class) ShortName() string {
	if i := strings.LastIndex(c.Name, "."); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// Variable describes an attribute, local variable or parameter.
type Variable struct {
	Name      string     `json:"name" yaml:"name"`
	Type      string     `json:"type,omitempty" yaml:"type,omitempty"`
	Class     string     `json:"class,omitempty" yaml:"class,omitempty"`
	Parameter bool       `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Range     *CodeRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// Declaration returns "name : Type", or the bare name without a type.
func (v Variable) Declaration() string {
	if v.Type == "" {
		return v.Name
	}
	return v.Name + " : " + v.Type
}

// Annotation is an annotation attached to an operation.
type Annotation struct {
	Text  string     `json:"text" yaml:"text"`
	Range *CodeRange `json:"range,omitempty" yaml:"range,omitempty"`
}

// Detection is one raw finding of the mining engine. Only the bundles the
// kind needs are populated.
type Detection struct {
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	GroupID     string `json:"group_id,omitempty" yaml:"group_id,omitempty"`

	Operations  map[string]Operation   `json:"operations,omitempty" yaml:"operations,omitempty"`
	Classes     map[string]Class       `json:"classes,omitempty" yaml:"classes,omitempty"`
	Attributes  map[string]Variable    `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Variables   map[string]Variable    `json:"variables,omitempty" yaml:"variables,omitempty"`
	Annotations map[string]Annotation  `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	Packages    map[string]string      `json:"packages,omitempty" yaml:"packages,omitempty"`
	Ranges      map[string][]CodeRange `json:"ranges,omitempty" yaml:"ranges,omitempty"`

	Subclasses      []Class    `json:"subclasses,omitempty" yaml:"subclasses,omitempty"`
	SplitVariables  []Variable `json:"split_variables,omitempty" yaml:"split_variables,omitempty"`
	MergedVariables []Variable `json:"merged_variables,omitempty" yaml:"merged_variables,omitempty"`
}

// firstRange returns the first range stored under key, or nil.
func (d Detection) firstRange(key string) *CodeRange {
	rs := d.Ranges[key]
	if len(rs) == 0 {
		return nil
	}
	r := rs[0]
	return &r
}
