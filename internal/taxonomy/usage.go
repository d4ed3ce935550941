// Package taxonomy defines the closed set of labels attached to API usage facts.
package taxonomy

import (
	"fmt"
)

// UsageType classifies a single recorded use of an API.
type UsageType int

const (
	ImplementsInterface UsageType = iota + 1
	ExtendsType
	Field
	MethodArgument
	LocalVariable
	ReturnArgument
	ThrowsException
	AnnotatedType
	AnnotatedField
	AnnotatedMethod
	AnnotatedMethodArgument
	SpringConfiguration
	DeploymentDescriptor
)

// labels is indexed by UsageType; index 0 is the invalid zero value.
var labels = [...]string{
	"",
	"IMPLEMENTS_INTERFACE",
	"EXTENDS_TYPE",
	"FIELD",
	"METHOD_ARGUMENT",
	"LOCAL_VARIABLE",
	"RETURN_ARGUMENT",
	"THROWS_EXCEPTION",
	"ANNOTATED_TYPE",
	"ANNOTATED_FIELD",
	"ANNOTATED_METHOD",
	"ANNOTATED_METHOD_ARGUMENT",
	"SPRING_CONFIGURATION",
	"DEPLOYMENT_DESCRIPTOR",
}

var byLabel = func() map[string]UsageType {
	m := make(map[string]UsageType, len(labels)-1)
	for i := 1; i < len(labels); i++ {
		m[labels[i]] = UsageType(i)
	}
	return m
}()

// All returns every usage type in declaration order
func All() []UsageType {
	all := make([]UsageType, 0, len(labels)-1)
	for i := 1; i < len(labels); i++ {
		all = append(all, UsageType(i))
	}
	return all
}

// Valid reports whether t is one of the declared usage types
func (t UsageType) Valid() bool {
	return t > 0 && int(t) < len(labels)
}

// String returns the stable label, e.g. "DEPLOYMENT_DESCRIPTOR"
func (t UsageType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("UsageType(%d)", int(t))
	}
	return labels[t]
}

// Parse returns the usage type carrying the given label.
// Labels are matched exactly; anything outside the closed set is rejected.
func Parse(label string) (UsageType, error) {
	if t, ok := byLabel[label]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown usage type %q", label)
}

// MarshalText implements encoding.TextMarshaler
func (t UsageType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid usage type %d", int(t))
	}
	return []byte(labels[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (t *UsageType) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
