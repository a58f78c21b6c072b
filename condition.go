package pysetup

import (
	"fmt"
	"strings"
)

// Condition decides whether an extension should be built in the probed
// environment. Implementations must be stateless: evaluating the same
// condition against the same capabilities twice yields the same answer.
//
// Evaluate returns an error only for genuine faults (for example a
// malformed manifest expression). "The capability is absent" is a false
// answer, not an error; a fault aborts the whole build configuration.
//
// String returns the condition in expression syntax, the same syntax
// ParseCondition accepts, so descriptor tables stay inspectable instead
// of carrying opaque function values.
type Condition interface {
	Evaluate(caps Capabilities) (bool, error)
	String() string
}

// Always returns a condition that is true in every environment. This is
// the implicit condition of descriptors that declare none.
func Always() Condition {
	return alwaysCondition{}
}

// PlatformIs returns a condition that is true when the probed platform
// identifier equals name ("win32", "darwin", ...).
func PlatformIs(name string) Condition {
	return platformCondition{name: name}
}

// OnCPython returns a condition that is true only on the reference
// interpreter implementation.
func OnCPython() Condition {
	return cpythonCondition{}
}

// HasHeader returns a condition that is true when the named system
// header is available to the C toolchain.
func HasHeader(name string) Condition {
	return headerCondition{name: name}
}

// LegacyOnly returns a condition that is true only when the build
// targets the legacy runtime generation.
func LegacyOnly() Condition {
	return legacyCondition{}
}

// Not negates a condition. Faults from the wrapped condition propagate.
func Not(c Condition) Condition {
	return notCondition{inner: c}
}

// AllOf is true when every given condition is true. Evaluation is
// short-circuit and in declaration order; the first fault propagates.
func AllOf(conditions ...Condition) Condition {
	return allCondition{conditions: conditions}
}

type alwaysCondition struct{}

func (alwaysCondition) Evaluate(Capabilities) (bool, error) { return true, nil }
func (alwaysCondition) String() string                      { return "true" }

type platformCondition struct {
	name string
}

func (c platformCondition) Evaluate(caps Capabilities) (bool, error) {
	return caps.Platform() == c.name, nil
}

func (c platformCondition) String() string {
	return fmt.Sprintf("platform == %q", c.name)
}

type cpythonCondition struct{}

func (cpythonCondition) Evaluate(caps Capabilities) (bool, error) {
	return caps.IsCPython(), nil
}

func (cpythonCondition) String() string { return "cpython" }

type headerCondition struct {
	name string
}

func (c headerCondition) Evaluate(caps Capabilities) (bool, error) {
	return caps.HasHeader(c.name), nil
}

func (c headerCondition) String() string {
	return fmt.Sprintf("hasHeader(%q)", c.name)
}

type legacyCondition struct{}

func (legacyCondition) Evaluate(caps Capabilities) (bool, error) {
	return caps.Generation() == GenerationLegacy, nil
}

func (legacyCondition) String() string { return "legacy" }

type notCondition struct {
	inner Condition
}

func (c notCondition) Evaluate(caps Capabilities) (bool, error) {
	ok, err := c.inner.Evaluate(caps)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (c notCondition) String() string {
	return fmt.Sprintf("!(%s)", c.inner)
}

type allCondition struct {
	conditions []Condition
}

func (c allCondition) Evaluate(caps Capabilities) (bool, error) {
	for _, cond := range c.conditions {
		ok, err := cond.Evaluate(caps)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func (c allCondition) String() string {
	if len(c.conditions) == 0 {
		return "true"
	}
	parts := make([]string, len(c.conditions))
	for i, cond := range c.conditions {
		parts[i] = cond.String()
	}
	return "(" + strings.Join(parts, " && ") + ")"
}
