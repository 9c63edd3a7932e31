// Package imports maps type references to the shortest source text that is
// unambiguous inside one compilation unit and records the import lines that
// text depends on.
package imports

import (
	"sort"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

const javaLang = "java.lang"

// Resolver is the import set of one compilation unit. It is not safe for
// concurrent use; create one per unit.
type Resolver struct {
	pkg      string
	claimed  map[string]string
	imports  map[string]struct{}
	reserved map[string]struct{}
}

// New returns a resolver for a unit declared in package pkg.
func New(pkg string) *Resolver {
	return &Resolver{
		pkg:      pkg,
		claimed:  make(map[string]string),
		imports:  make(map[string]struct{}),
		reserved: make(map[string]struct{}),
	}
}

// Package returns the package of the unit.
func (r *Resolver) Package() string { return r.pkg }

// Reserve claims the simple name of a type declared by the unit itself. The
// type and every type nested in its outermost class never need an import.
// Reserving a name that another type already claimed has no effect on the
// claim; the reserved type is then rendered qualified.
func (r *Resolver) Reserve(ref jtype.Ref) {
	if ref.Kind() != jtype.KindClass || ref.Name() == "" {
		return
	}
	r.reserved[ref.TopLevel()] = struct{}{}
	simple := ref.SimpleName()
	if _, taken := r.claimed[simple]; !taken {
		r.claimed[simple] = ref.CanonicalName()
	}
}

// RequestName returns the source text for ref. Generic arguments, wildcard
// bounds and array dimensions are resolved recursively. A simple name is
// returned when it is free or already claimed by the same type; otherwise the
// qualified name is returned. Type variables, primitives and names without a
// package are returned unchanged.
func (r *Resolver) RequestName(ref jtype.Ref) string {
	if !ref.IsValid() {
		return ""
	}
	return ref.Format(r.resolve)
}

// ImportsToCreate returns the qualified names that need an import line,
// sorted. Types of the unit's own package, java.lang and types declared in
// the unit are excluded.
func (r *Resolver) ImportsToCreate() []string {
	out := make([]string, 0, len(r.imports))
	for name := range r.imports {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Claimed reports the qualified name that owns simple, if any.
func (r *Resolver) Claimed(simple string) (string, bool) {
	name, ok := r.claimed[simple]
	return name, ok
}

func (r *Resolver) resolve(ref jtype.Ref) string {
	if ref.Package() == "" {
		if ref.IsNested() {
			return ref.CanonicalName()
		}
		return ref.Name()
	}

	simple := ref.SimpleName()
	canonical := ref.CanonicalName()
	if owner, ok := r.claimed[simple]; ok {
		if owner == canonical {
			return simple
		}
		return canonical
	}
	r.claimed[simple] = canonical
	if r.needsImport(ref) {
		r.imports[canonical] = struct{}{}
	}
	return simple
}

func (r *Resolver) needsImport(ref jtype.Ref) bool {
	if _, ok := r.reserved[ref.TopLevel()]; ok {
		return false
	}
	if ref.IsNested() {
		return true
	}
	pkg := ref.Package()
	return pkg != r.pkg && pkg != javaLang
}
