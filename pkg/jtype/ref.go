package jtype

import (
	"strings"
)

// Kind classifies a Ref.
type Kind uint8

const (
	KindClass Kind = iota
	KindPrimitive
	KindTypeVar
	KindWildcard
)

// Bound describes the bound of a wildcard reference.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExtends
	BoundSuper
)

var primitives = map[string]struct{}{
	"boolean": {}, "byte": {}, "char": {}, "short": {}, "int": {},
	"long": {}, "float": {}, "double": {}, "void": {},
}

// boxed maps primitive keywords to their java.lang wrapper.
var boxed = map[string]string{
	"boolean": "java.lang.Boolean",
	"byte":    "java.lang.Byte",
	"char":    "java.lang.Character",
	"short":   "java.lang.Short",
	"int":     "java.lang.Integer",
	"long":    "java.lang.Long",
	"float":   "java.lang.Float",
	"double":  "java.lang.Double",
	"void":    "java.lang.Void",
}

// Ref is an immutable reference to a Java type. Class names use the binary
// form: package segments separated by '.', nesting separated by '$'
// (com.acme.PersonForm$MainBox). The zero value is not a valid reference.
type Ref struct {
	kind  Kind
	name  string
	args  []Ref
	dims  int
	bound Bound
	inner *Ref
}

// Class returns a class reference with optional generic arguments.
func Class(name string, args ...Ref) Ref {
	return Ref{kind: KindClass, name: strings.TrimSpace(name), args: cloneRefs(args)}
}

// Primitive returns a reference to a primitive keyword such as int or void.
func Primitive(name string) Ref {
	return Ref{kind: KindPrimitive, name: name}
}

// TypeVar returns a reference to a type variable.
func TypeVar(name string) Ref {
	return Ref{kind: KindTypeVar, name: name}
}

// Wildcard returns the unbounded wildcard '?'.
func Wildcard() Ref {
	return Ref{kind: KindWildcard}
}

// Extends returns '? extends bound'.
func Extends(bound Ref) Ref {
	b := bound
	return Ref{kind: KindWildcard, bound: BoundExtends, inner: &b}
}

// Super returns '? super bound'.
func Super(bound Ref) Ref {
	b := bound
	return Ref{kind: KindWildcard, bound: BoundSuper, inner: &b}
}

// IsPrimitiveName reports whether name is a Java primitive keyword.
func IsPrimitiveName(name string) bool {
	_, ok := primitives[name]
	return ok
}

// IsValid reports whether r was constructed (the zero Ref is invalid).
func (r Ref) IsValid() bool {
	return r.kind == KindWildcard || r.name != ""
}

func (r Ref) Kind() Kind { return r.kind }

// Name returns the binary name for classes, the keyword for primitives and
// the variable name for type variables. Array dimensions are not included.
func (r Ref) Name() string { return r.name }

// Args returns a copy of the generic arguments.
func (r Ref) Args() []Ref { return cloneRefs(r.args) }

// Arg returns the generic argument at index i.
func (r Ref) Arg(i int) (Ref, bool) {
	if i < 0 || i >= len(r.args) {
		return Ref{}, false
	}
	return r.args[i], true
}

func (r Ref) Dims() int { return r.dims }

func (r Ref) IsArray() bool { return r.dims > 0 }

// Bound returns the wildcard bound kind and the bound type when present.
func (r Ref) Bound() (Bound, Ref, bool) {
	if r.kind != KindWildcard || r.inner == nil {
		return BoundNone, Ref{}, false
	}
	return r.bound, *r.inner, true
}

// Array returns r with additional array dimensions.
func (r Ref) Array(dims int) Ref {
	out := r.clone()
	out.dims += dims
	return out
}

// Elem strips all array dimensions.
func (r Ref) Elem() Ref {
	out := r.clone()
	out.dims = 0
	return out
}

// Raw strips generic arguments (array dimensions are kept).
func (r Ref) Raw() Ref {
	out := r.clone()
	out.args = nil
	return out
}

// WithArgs returns r with its generic arguments replaced.
func (r Ref) WithArgs(args ...Ref) Ref {
	out := r.clone()
	out.args = cloneRefs(args)
	return out
}

// Nested returns a reference to the member type simple declared inside r.
func (r Ref) Nested(simple string) Ref {
	return Class(r.name + "$" + simple)
}

// Boxed returns the wrapper class of a primitive, or r itself.
func (r Ref) Boxed() Ref {
	if r.kind != KindPrimitive || r.dims > 0 {
		return r
	}
	if wrapper, ok := boxed[r.name]; ok {
		return Class(wrapper)
	}
	return r
}

// IsPrimitive reports whether r is a non-array primitive.
func (r Ref) IsPrimitive() bool {
	return r.kind == KindPrimitive && r.dims == 0
}

// Package returns the package of a class reference ("" for the default
// package and for non-class references).
func (r Ref) Package() string {
	if r.kind != KindClass {
		return ""
	}
	top := r.TopLevel()
	if idx := strings.LastIndexByte(top, '.'); idx >= 0 {
		return top[:idx]
	}
	return ""
}

// TopLevel returns the binary name of the outermost enclosing class.
func (r Ref) TopLevel() string {
	if idx := strings.IndexByte(r.name, '$'); idx >= 0 {
		return r.name[:idx]
	}
	return r.name
}

// IsNested reports whether r is a member type.
func (r Ref) IsNested() bool {
	return r.kind == KindClass && strings.IndexByte(r.name, '$') >= 0
}

// Declaring returns the enclosing class of a member type.
func (r Ref) Declaring() (Ref, bool) {
	idx := strings.LastIndexByte(r.name, '$')
	if r.kind != KindClass || idx < 0 {
		return Ref{}, false
	}
	return Class(r.name[:idx]), true
}

// SimpleName returns the innermost simple name.
func (r Ref) SimpleName() string {
	name := r.name
	if idx := strings.LastIndexAny(name, ".$"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

// CanonicalName returns the dotted source form of the class name without
// generic arguments or array dimensions.
func (r Ref) CanonicalName() string {
	return strings.ReplaceAll(r.name, "$", ".")
}

// Equal reports structural equality.
func (r Ref) Equal(o Ref) bool {
	if r.kind != o.kind || r.name != o.name || r.dims != o.dims || r.bound != o.bound {
		return false
	}
	if len(r.args) != len(o.args) {
		return false
	}
	for i := range r.args {
		if !r.args[i].Equal(o.args[i]) {
			return false
		}
	}
	if (r.inner == nil) != (o.inner == nil) {
		return false
	}
	if r.inner != nil && !r.inner.Equal(*o.inner) {
		return false
	}
	return true
}

// String renders the fully qualified source form, e.g.
// java.util.Map<java.lang.String, ? extends a.B>[].
func (r Ref) String() string {
	var b strings.Builder
	r.write(&b, func(ref Ref) string { return ref.CanonicalName() })
	return b.String()
}

// Format renders r using name to turn each raw class reference into text.
// Import resolvers use it to render composite references.
func (r Ref) Format(name func(Ref) string) string {
	var b strings.Builder
	r.write(&b, name)
	return b.String()
}

func (r Ref) write(b *strings.Builder, name func(Ref) string) {
	switch r.kind {
	case KindWildcard:
		b.WriteByte('?')
		if r.inner != nil {
			if r.bound == BoundSuper {
				b.WriteString(" super ")
			} else {
				b.WriteString(" extends ")
			}
			r.inner.write(b, name)
		}
	case KindClass:
		b.WriteString(name(Class(r.name)))
		if len(r.args) > 0 {
			b.WriteByte('<')
			for i, arg := range r.args {
				if i > 0 {
					b.WriteString(", ")
				}
				arg.write(b, name)
			}
			b.WriteByte('>')
		}
	default:
		b.WriteString(r.name)
	}
	for i := 0; i < r.dims; i++ {
		b.WriteString("[]")
	}
}

// MarkTypeVars converts package-less class references whose name is listed
// in vars into type variables, recursively.
func (r Ref) MarkTypeVars(vars ...string) Ref {
	if len(vars) == 0 {
		return r
	}
	set := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		set[v] = struct{}{}
	}
	return r.markTypeVars(set)
}

func (r Ref) markTypeVars(set map[string]struct{}) Ref {
	out := r.clone()
	if out.kind == KindClass && len(out.args) == 0 && strings.IndexAny(out.name, ".$") < 0 {
		if _, ok := set[out.name]; ok {
			out.kind = KindTypeVar
			return out
		}
	}
	for i := range out.args {
		out.args[i] = out.args[i].markTypeVars(set)
	}
	if out.inner != nil {
		inner := out.inner.markTypeVars(set)
		out.inner = &inner
	}
	return out
}

// Substitute replaces type variables using bindings. Unbound variables are
// kept as they are.
func (r Ref) Substitute(bindings map[string]Ref) Ref {
	if len(bindings) == 0 {
		return r
	}
	if r.kind == KindTypeVar {
		if bound, ok := bindings[r.name]; ok {
			return bound.Array(r.dims)
		}
		return r
	}
	out := r.clone()
	for i := range out.args {
		out.args[i] = out.args[i].Substitute(bindings)
	}
	if out.inner != nil {
		inner := out.inner.Substitute(bindings)
		out.inner = &inner
	}
	return out
}

// Walk calls fn for r and every reference nested in it (arguments, wildcard
// bounds), depth first.
func (r Ref) Walk(fn func(Ref)) {
	fn(r)
	for _, arg := range r.args {
		arg.Walk(fn)
	}
	if r.inner != nil {
		r.inner.Walk(fn)
	}
}

func (r Ref) clone() Ref {
	out := r
	out.args = cloneRefs(r.args)
	if r.inner != nil {
		inner := *r.inner
		out.inner = &inner
	}
	return out
}

func cloneRefs(refs []Ref) []Ref {
	if len(refs) == 0 {
		return nil
	}
	out := make([]Ref, len(refs))
	copy(out, refs)
	return out
}
