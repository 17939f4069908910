package disloc

import "strings"

// Status is the set of conditions recorded for one station/patch pair
type Status uint8

const (
	// AboveSurface means the station elevation is positive
	AboveSurface Status = 1 << iota
	// Unphysical means the patch has length <= 0, width <= 0 or depth < 0
	Unphysical
	// Singular means the station lies on a patch edge
	Singular
)

// Has reports whether every condition in c is set
func (s Status) Has(c Status) bool {
	return s&c == c
}

// Code returns the additive legacy code: 1 above surface, 10 unphysical,
// 100 singular, summed when several apply.
func (s Status) Code() int32 {
	var code int32
	if s.Has(AboveSurface) {
		code++
	}
	if s.Has(Unphysical) {
		code += 10
	}
	if s.Has(Singular) {
		code += 100
	}
	return code
}

// StatusFromCode decodes a legacy code. Digits other than 0 and 1 are
// ignored, as no valid code produces them.
func StatusFromCode(code int32) Status {
	var s Status
	if code%10 == 1 {
		s |= AboveSurface
	}
	if code/10%10 == 1 {
		s |= Unphysical
	}
	if code/100%10 == 1 {
		s |= Singular
	}
	return s
}

func (s Status) String() string {
	if s == 0 {
		return "normal"
	}
	var parts []string
	if s.Has(AboveSurface) {
		parts = append(parts, "above-surface")
	}
	if s.Has(Unphysical) {
		parts = append(parts, "unphysical")
	}
	if s.Has(Singular) {
		parts = append(parts, "singular")
	}
	return strings.Join(parts, "+")
}
