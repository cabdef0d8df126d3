// Package format rewrites folder names for display. Rules are applied in order and
// never change the names stored in a template.
package format

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the rewrite operation of a rule.
type Kind string

const (
	KindDelete  Kind = "delete"
	KindReplace Kind = "replace"
)

// Rule is a single display rewrite.
type Rule struct {
	Kind        Kind   `json:"kind"`
	Target      string `json:"target"`
	Replacement string `json:"replacement,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Delete returns an enabled rule removing every occurrence of target.
func Delete(target string) Rule {
	return Rule{Kind: KindDelete, Target: target, Enabled: true}
}

// Replace returns an enabled rule substituting every occurrence of target.
func Replace(target, replacement string) Rule {
	return Rule{Kind: KindReplace, Target: target, Replacement: replacement, Enabled: true}
}

// Validate checks the rule is well formed.
func (r Rule) Validate() error {
	if r.Target == "" {
		return &InvalidRuleError{Rule: r, Reason: "target is required"}
	}
	switch r.Kind {
	case KindDelete:
		if r.Replacement != "" {
			return &InvalidRuleError{Rule: r, Reason: "delete rules take no replacement"}
		}
	case KindReplace:
	default:
		return &InvalidRuleError{Rule: r, Reason: fmt.Sprintf("unknown kind %q (must be delete or replace)", r.Kind)}
	}
	return nil
}

// Apply rewrites name. Disabled rules return name unchanged.
func (r Rule) Apply(name string) string {
	if !r.Enabled || r.Target == "" {
		return name
	}
	switch r.Kind {
	case KindDelete:
		return strings.ReplaceAll(name, r.Target, "")
	case KindReplace:
		return strings.ReplaceAll(name, r.Target, r.Replacement)
	}
	return name
}

// String renders the rule for listings.
func (r Rule) String() string {
	state := "on"
	if !r.Enabled {
		state = "off"
	}
	if r.Kind == KindReplace {
		return fmt.Sprintf("replace %q -> %q [%s]", r.Target, r.Replacement, state)
	}
	return fmt.Sprintf("%s %q [%s]", r.Kind, r.Target, state)
}

// ErrIndexOutOfRange is matched by IndexOutOfRangeError via errors.Is.
var ErrIndexOutOfRange = errors.New("rule index out of range")

// IndexOutOfRangeError indicates a rule index outside the pipeline.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("rule index %d out of range (have %d rules)", e.Index, e.Len)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// InvalidRuleError indicates a malformed rule.
type InvalidRuleError struct {
	Rule   Rule
	Reason string
}

func (e *InvalidRuleError) Error() string {
	return fmt.Sprintf("invalid formatting rule: %s", e.Reason)
}
