package generator

import (
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

// TypeParam is a declared type parameter of a generated type.
type TypeParam struct {
	Name   string
	Bounds []jtype.Ref
}

// TypeGenerator writes a class or, with the Interface flag, an interface.
// Members are written in the order they were added.
type TypeGenerator struct {
	Flags       Flags
	Name        string
	TypeParams  []TypeParam
	Super       *jtype.Ref
	Interfaces  []jtype.Ref
	Annotations []*AnnotationGenerator
	Javadoc     *JavadocGenerator

	pkg       string
	members   []Member
	declaring *TypeGenerator
}

// NewType returns a type generator with simple name.
func NewType(flags Flags, name string) *TypeGenerator {
	return &TypeGenerator{Flags: flags, Name: name}
}

// Extends sets the superclass.
func (t *TypeGenerator) Extends(ref jtype.Ref) *TypeGenerator {
	t.Super = &ref
	return t
}

// Implements appends interfaces.
func (t *TypeGenerator) Implements(refs ...jtype.Ref) *TypeGenerator {
	t.Interfaces = append(t.Interfaces, refs...)
	return t
}

// Annotate appends an annotation.
func (t *TypeGenerator) Annotate(a *AnnotationGenerator) *TypeGenerator {
	t.Annotations = append(t.Annotations, a)
	return t
}

// AddField appends a field and returns it.
func (t *TypeGenerator) AddField(f *FieldGenerator) *FieldGenerator {
	t.add(f)
	return f
}

// AddMethod appends a method and returns it.
func (t *TypeGenerator) AddMethod(m *MethodGenerator) *MethodGenerator {
	t.add(m)
	return m
}

// AddType appends a nested type and returns it.
func (t *TypeGenerator) AddType(nested *TypeGenerator) *TypeGenerator {
	t.add(nested)
	return nested
}

func (t *TypeGenerator) add(m Member) {
	m.setDeclaring(t)
	t.members = append(t.members, m)
}

// Members returns the members in declaration order.
func (t *TypeGenerator) Members() []Member {
	return append([]Member(nil), t.members...)
}

// Types returns the nested types in declaration order.
func (t *TypeGenerator) Types() []*TypeGenerator {
	var out []*TypeGenerator
	for _, m := range t.members {
		if nested, ok := m.(*TypeGenerator); ok {
			out = append(out, nested)
		}
	}
	return out
}

// Methods returns the methods in declaration order.
func (t *TypeGenerator) Methods() []*MethodGenerator {
	var out []*MethodGenerator
	for _, m := range t.members {
		if method, ok := m.(*MethodGenerator); ok {
			out = append(out, method)
		}
	}
	return out
}

func (t *TypeGenerator) Declaring() *TypeGenerator { return t.declaring }

func (t *TypeGenerator) setDeclaring(d *TypeGenerator) { t.declaring = d }

// Package returns the package of the outermost type.
func (t *TypeGenerator) Package() string {
	out := t
	for out.declaring != nil {
		out = out.declaring
	}
	return out.pkg
}

// BinaryName returns the qualified name using '$' for nesting.
func (t *TypeGenerator) BinaryName() string {
	if t.declaring != nil {
		return t.declaring.BinaryName() + "$" + t.Name
	}
	if t.pkg == "" {
		return t.Name
	}
	return t.pkg + "." + t.Name
}

// Ref returns the raw reference to the generated type.
func (t *TypeGenerator) Ref() jtype.Ref {
	return jtype.Class(t.BinaryName())
}

func (t *TypeGenerator) Generate(b *SourceBuilder) {
	t.Javadoc.Generate(b)
	writeAnnotations(b, t.Annotations)
	flags := t.Flags
	if flags.Has(Interface) {
		flags = flags.Clear(Abstract)
	}
	writeModifiers(b, flags)
	if t.Flags.Has(Interface) {
		b.Append("interface ")
	} else {
		b.Append("class ")
	}
	b.Append(t.Name)
	writeTypeParams(b, t.TypeParams)

	supers := t.Interfaces
	if t.Flags.Has(Interface) {
		if t.Super != nil {
			supers = append([]jtype.Ref{*t.Super}, supers...)
		}
		writeRefList(b, " extends ", supers)
	} else {
		if t.Super != nil {
			b.Append(" extends ").Ref(*t.Super)
		}
		writeRefList(b, " implements ", supers)
	}
	b.Line(" {")
	b.Indent()
	for i, m := range t.members {
		if i > 0 && !(isField(t.members[i-1]) && isField(m)) {
			b.NewLine()
		}
		m.Generate(b)
	}
	b.Outdent()
	b.Line("}")
}

// isField reports whether m is a field; consecutive fields are not separated
// by blank lines.
func isField(m Member) bool {
	_, ok := m.(*FieldGenerator)
	return ok
}

func writeTypeParams(b *SourceBuilder, params []TypeParam) {
	if len(params) == 0 {
		return
	}
	b.Append("<")
	for i, p := range params {
		if i > 0 {
			b.Append(", ")
		}
		b.Append(p.Name)
		for j, bound := range p.Bounds {
			if j == 0 {
				b.Append(" extends ")
			} else {
				b.Append(" & ")
			}
			b.Ref(bound)
		}
	}
	b.Append(">")
}

func writeRefList(b *SourceBuilder, keyword string, refs []jtype.Ref) {
	if len(refs) == 0 {
		return
	}
	b.Append(keyword)
	for i, r := range refs {
		if i > 0 {
			b.Append(", ")
		}
		b.Ref(r)
	}
}
