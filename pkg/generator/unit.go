package generator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/imports"
)

// Unit is a rendered compilation unit.
type Unit struct {
	Package string
	Name    string
	Source  string
	Imports []string
}

// CompilationUnitGenerator owns one primary type plus optional secondary
// top-level types of the same package.
type CompilationUnitGenerator struct {
	Package string
	// Header is written verbatim before the package declaration.
	Header string

	primary   *TypeGenerator
	secondary []*TypeGenerator
}

// NewCompilationUnit returns a unit for primary in package pkg.
func NewCompilationUnit(pkg string, primary *TypeGenerator) *CompilationUnitGenerator {
	u := &CompilationUnitGenerator{Package: pkg}
	u.SetPrimary(primary)
	return u
}

// SetPrimary replaces the primary type.
func (u *CompilationUnitGenerator) SetPrimary(t *TypeGenerator) {
	if t != nil {
		t.pkg = u.Package
		t.declaring = nil
	}
	u.primary = t
}

// Primary returns the primary type.
func (u *CompilationUnitGenerator) Primary() *TypeGenerator { return u.primary }

// AddSecondary appends a non-public top-level type.
func (u *CompilationUnitGenerator) AddSecondary(t *TypeGenerator) {
	if t == nil {
		return
	}
	t.pkg = u.Package
	t.declaring = nil
	u.secondary = append(u.secondary, t)
}

// Render writes the unit. The body is produced first so the resolver has
// seen every name before the import block is written. A nil resolver is
// replaced by a fresh one for the unit's package.
func (u *CompilationUnitGenerator) Render(resolver *imports.Resolver) (Unit, error) {
	if u.primary == nil {
		return Unit{}, errors.New("generator: compilation unit has no primary type")
	}
	if resolver == nil {
		resolver = imports.New(u.Package)
	}
	if resolver.Package() != u.Package {
		return Unit{}, fmt.Errorf("generator: resolver package %q does not match unit package %q", resolver.Package(), u.Package)
	}

	types := append([]*TypeGenerator{u.primary}, u.secondary...)
	for _, t := range types {
		if err := validateType(t); err != nil {
			return Unit{}, err
		}
		reserveAll(resolver, t)
	}

	body := NewSourceBuilder(resolver)
	for i, t := range types {
		if i > 0 {
			body.NewLine()
		}
		t.Generate(body)
	}

	importList := resolver.ImportsToCreate()
	var out strings.Builder
	if header := strings.TrimRight(u.Header, "\n"); header != "" {
		out.WriteString(header)
		out.WriteString("\n")
	}
	if u.Package != "" {
		out.WriteString("package ")
		out.WriteString(u.Package)
		out.WriteString(";\n\n")
	}
	if len(importList) > 0 {
		for i, group := range groupImports(importList) {
			if i > 0 {
				out.WriteByte('\n')
			}
			for _, name := range group {
				out.WriteString("import ")
				out.WriteString(name)
				out.WriteString(";\n")
			}
		}
		out.WriteByte('\n')
	}
	out.WriteString(body.String())

	return Unit{
		Package: u.Package,
		Name:    u.primary.BinaryName(),
		Source:  out.String(),
		Imports: importList,
	}, nil
}

func reserveAll(resolver *imports.Resolver, t *TypeGenerator) {
	resolver.Reserve(t.Ref())
	for _, nested := range t.Types() {
		reserveAll(resolver, nested)
	}
}

func validateType(t *TypeGenerator) error {
	if strings.TrimSpace(t.Name) == "" {
		return errors.New("generator: type name is required")
	}
	seen := make(map[string]struct{})
	for _, nested := range t.Types() {
		if _, dup := seen[nested.Name]; dup {
			return fmt.Errorf("generator: type %s declares nested type %s twice", t.BinaryName(), nested.Name)
		}
		seen[nested.Name] = struct{}{}
		if err := validateType(nested); err != nil {
			return err
		}
	}
	for _, m := range t.members {
		if f, ok := m.(*FieldGenerator); ok && !f.Type.IsValid() {
			return fmt.Errorf("generator: field %s.%s has no type", t.BinaryName(), f.Name)
		}
	}
	return nil
}

// groupImports splits a sorted import list into blocks sharing the first
// package segment.
func groupImports(list []string) [][]string {
	var out [][]string
	prev := ""
	for _, name := range list {
		seg := name
		if i := strings.IndexByte(name, '.'); i >= 0 {
			seg = name[:i]
		}
		if len(out) == 0 || seg != prev {
			out = append(out, nil)
			prev = seg
		}
		out[len(out)-1] = append(out[len(out)-1], name)
	}
	return out
}
