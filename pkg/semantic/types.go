package semantic

import (
	"fmt"
	"math"
	"strings"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

// Flags is the Java modifier set of a type or method.
type Flags uint32

const (
	FlagPublic Flags = 1 << iota
	FlagProtected
	FlagPrivate
	FlagStatic
	FlagFinal
	FlagAbstract
	FlagInterface
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagPublic, "public"},
	{FlagProtected, "protected"},
	{FlagPrivate, "private"},
	{FlagStatic, "static"},
	{FlagFinal, "final"},
	{FlagAbstract, "abstract"},
	{FlagInterface, "interface"},
}

// ParseFlags converts modifier keywords into Flags.
func ParseFlags(names []string) (Flags, error) {
	var out Flags
Next:
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		for _, entry := range flagNames {
			if entry.name == name {
				out |= entry.flag
				continue Next
			}
		}
		return 0, fmt.Errorf("semantic: unknown modifier %q", raw)
	}
	return out, nil
}

// Has reports whether all bits of f are set.
func (fl Flags) Has(f Flags) bool { return fl&f == f }

func (fl Flags) String() string {
	var parts []string
	for _, entry := range flagNames {
		if fl.Has(entry.flag) {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, " ")
}

// Annotation is an annotation instance with its attribute values. Values are
// normalised to string, float64, bool or []any.
type Annotation struct {
	Type   string
	Values map[string]any
}

// Value returns the raw attribute value.
func (a Annotation) Value(key string) (any, bool) {
	v, ok := a.Values[key]
	return v, ok
}

// String returns a string attribute.
func (a Annotation) String(key string) (string, bool) {
	v, ok := a.Values[key].(string)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Float returns a numeric attribute.
func (a Annotation) Float(key string) (float64, bool) {
	switch v := a.Values[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

// Int returns a numeric attribute truncated to an int.
func (a Annotation) Int(key string) (int, bool) {
	f, ok := a.Float(key)
	if !ok || math.IsNaN(f) {
		return 0, false
	}
	return int(f), true
}

// Strings returns a list attribute; a single string is promoted to a list.
func (a Annotation) Strings(key string) []string {
	switch v := a.Values[key].(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		return out
	}
	return nil
}

// Class returns a class-literal attribute ("com.acme.Foo" or
// "com.acme.Foo.class").
func (a Annotation) Class(key string) (jtype.Ref, bool, error) {
	raw, ok := a.String(key)
	if !ok {
		return jtype.Ref{}, false, nil
	}
	ref, err := jtype.Parse(strings.TrimSuffix(raw, ".class"))
	if err != nil {
		return jtype.Ref{}, true, err
	}
	return ref, true, nil
}

// Classes returns a list of class-literal attributes.
func (a Annotation) Classes(key string) ([]jtype.Ref, error) {
	var out []jtype.Ref
	for _, raw := range a.Strings(key) {
		ref, err := jtype.Parse(strings.TrimSuffix(raw, ".class"))
		if err != nil {
			return nil, err
		}
		out = append(out, ref)
	}
	return out, nil
}

// TypeParam is a declared type parameter.
type TypeParam struct {
	Name   string
	Bounds []jtype.Ref
}

// Param is a method parameter.
type Param struct {
	Name string
	Type jtype.Ref
}

// Method is a declared method.
type Method struct {
	Name        string
	Flags       Flags
	Return      jtype.Ref
	Params      []Param
	Annotations []Annotation
	Doc         string
	Index       int
}

// Annotation returns the first annotation of the given type.
func (m Method) Annotation(name string) (Annotation, bool) {
	return findAnnotation(m.Annotations, name)
}

// Type is a declared class or interface. Nested types keep a back link to
// their declaring type.
type Type struct {
	Name        string
	Flags       Flags
	Super       *jtype.Ref
	Interfaces  []jtype.Ref
	TypeParams  []TypeParam
	Annotations []Annotation
	Methods     []Method
	Members     []*Type
	Doc         string
	Source      string

	declaring *Type
	index     int
}

// Ref returns the raw class reference of t.
func (t *Type) Ref() jtype.Ref {
	return jtype.Class(t.Name)
}

// SimpleName returns the innermost simple name.
func (t *Type) SimpleName() string {
	return t.Ref().SimpleName()
}

// Declaring returns the enclosing type or nil for top-level types.
func (t *Type) Declaring() *Type {
	return t.declaring
}

// Index is the declaration position among the enclosing type's members.
func (t *Type) Index() int {
	return t.index
}

// Outermost returns the top-level type enclosing t (t itself when top level).
func (t *Type) Outermost() *Type {
	out := t
	for out.declaring != nil {
		out = out.declaring
	}
	return out
}

func (t *Type) IsInterface() bool { return t.Flags.Has(FlagInterface) }

func (t *Type) IsAbstract() bool { return t.Flags.Has(FlagAbstract) }

// TypeParamNames lists the declared type parameter names in order.
func (t *Type) TypeParamNames() []string {
	names := make([]string, len(t.TypeParams))
	for i, p := range t.TypeParams {
		names[i] = p.Name
	}
	return names
}

// Annotation returns the first annotation of the given type.
func (t *Type) Annotation(name string) (Annotation, bool) {
	return findAnnotation(t.Annotations, name)
}

// HasAnnotation reports whether t is annotated with name.
func (t *Type) HasAnnotation(name string) bool {
	_, ok := t.Annotation(name)
	return ok
}

// Member returns the nested type with the given simple name.
func (t *Type) Member(simple string) (*Type, bool) {
	for _, m := range t.Members {
		if m.SimpleName() == simple {
			return m, true
		}
	}
	return nil, false
}

// SuperRefs returns the superclass (when present) followed by interfaces.
func (t *Type) SuperRefs() []jtype.Ref {
	out := make([]jtype.Ref, 0, len(t.Interfaces)+1)
	if t.Super != nil {
		out = append(out, *t.Super)
	}
	return append(out, t.Interfaces...)
}

func findAnnotation(list []Annotation, name string) (Annotation, bool) {
	for _, a := range list {
		if a.Type == name {
			return a, true
		}
	}
	return Annotation{}, false
}
