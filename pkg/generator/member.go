package generator

import (
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

// Member is an element owned by a TypeGenerator.
type Member interface {
	// Generate writes the member including its javadoc and annotations.
	Generate(b *SourceBuilder)
	// Declaring returns the type the member was added to.
	Declaring() *TypeGenerator
	setDeclaring(t *TypeGenerator)
}

// FieldGenerator writes a field declaration.
type FieldGenerator struct {
	Flags       Flags
	Type        jtype.Ref
	Name        string
	Value       Expr
	Annotations []*AnnotationGenerator
	Javadoc     *JavadocGenerator

	declaring *TypeGenerator
}

// NewField returns a field generator.
func NewField(flags Flags, typ jtype.Ref, name string) *FieldGenerator {
	return &FieldGenerator{Flags: flags, Type: typ, Name: name}
}

// WithValue sets the initializer.
func (f *FieldGenerator) WithValue(value Expr) *FieldGenerator {
	f.Value = value
	return f
}

func (f *FieldGenerator) Declaring() *TypeGenerator { return f.declaring }

func (f *FieldGenerator) setDeclaring(t *TypeGenerator) { f.declaring = t }

func (f *FieldGenerator) Generate(b *SourceBuilder) {
	f.Javadoc.Generate(b)
	writeAnnotations(b, f.Annotations)
	writeModifiers(b, f.Flags)
	b.Ref(f.Type).Append(" ").Append(f.Name)
	if f.Value != nil {
		b.Append(" = ")
		f.Value(b)
	}
	b.Line(";")
}

// Param is a method parameter.
type Param struct {
	Type jtype.Ref
	Name string
}

// MethodGenerator writes a method or, without a return type, a constructor.
// A nil Body produces a declaration terminated by a semicolon.
type MethodGenerator struct {
	Flags       Flags
	Return      *jtype.Ref
	Name        string
	Params      []Param
	Body        Expr
	Annotations []*AnnotationGenerator
	Javadoc     *JavadocGenerator

	declaring *TypeGenerator
}

// NewMethod returns a method generator with the given return type.
func NewMethod(flags Flags, ret jtype.Ref, name string, params ...Param) *MethodGenerator {
	return &MethodGenerator{Flags: flags, Return: &ret, Name: name, Params: params}
}

// NewConstructor returns a constructor generator. The name is taken from the
// declaring type when the constructor is written.
func NewConstructor(flags Flags, params ...Param) *MethodGenerator {
	return &MethodGenerator{Flags: flags, Params: params}
}

// WithBody sets the method body.
func (m *MethodGenerator) WithBody(body Expr) *MethodGenerator {
	m.Body = body
	return m
}

// Annotate appends an annotation.
func (m *MethodGenerator) Annotate(a *AnnotationGenerator) *MethodGenerator {
	m.Annotations = append(m.Annotations, a)
	return m
}

// IsConstructor reports whether m has no return type.
func (m *MethodGenerator) IsConstructor() bool { return m.Return == nil }

func (m *MethodGenerator) Declaring() *TypeGenerator { return m.declaring }

func (m *MethodGenerator) setDeclaring(t *TypeGenerator) { m.declaring = t }

func (m *MethodGenerator) Generate(b *SourceBuilder) {
	m.Javadoc.Generate(b)
	writeAnnotations(b, m.Annotations)
	writeModifiers(b, m.Flags)
	name := m.Name
	if m.IsConstructor() {
		if m.declaring != nil {
			name = m.declaring.Name
		}
	} else {
		b.Ref(*m.Return).Append(" ")
	}
	b.Append(name).Append("(")
	for i, p := range m.Params {
		if i > 0 {
			b.Append(", ")
		}
		b.Ref(p.Type).Append(" ").Append(p.Name)
	}
	b.Append(")")
	if m.Body == nil {
		b.Line(";")
		return
	}
	b.Line(" {")
	b.Indent()
	m.Body(b)
	b.Outdent()
	b.Line("}")
}

func writeModifiers(b *SourceBuilder, flags Flags) {
	if mods := flags.String(); mods != "" {
		b.Append(mods).Append(" ")
	}
}
