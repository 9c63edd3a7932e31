package generator

import (
	"strings"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

type annotationElement struct {
	name  string
	value Expr
}

// AnnotationGenerator writes one annotation instance.
type AnnotationGenerator struct {
	Type     jtype.Ref
	elements []annotationElement
}

// NewAnnotation returns a generator for an annotation of type ref.
func NewAnnotation(ref jtype.Ref) *AnnotationGenerator {
	return &AnnotationGenerator{Type: ref}
}

// With adds an element. Elements keep their insertion order.
func (a *AnnotationGenerator) With(name string, value Expr) *AnnotationGenerator {
	a.elements = append(a.elements, annotationElement{name: name, value: value})
	return a
}

// Generate writes the annotation without a trailing line break.
func (a *AnnotationGenerator) Generate(b *SourceBuilder) {
	b.Append("@").Ref(a.Type.Raw())
	if len(a.elements) == 0 {
		return
	}
	b.Append("(")
	if len(a.elements) == 1 && a.elements[0].name == "value" {
		a.elements[0].value(b)
		b.Append(")")
		return
	}
	for i, el := range a.elements {
		if i > 0 {
			b.Append(", ")
		}
		b.Append(el.name).Append(" = ")
		el.value(b)
	}
	b.Append(")")
}

// JavadocGenerator writes a javadoc block.
type JavadocGenerator struct {
	Lines []string
}

// NewJavadoc splits text into javadoc lines. Blank text yields nil.
func NewJavadoc(text string) *JavadocGenerator {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return &JavadocGenerator{Lines: lines}
}

// Generate writes the block followed by a line break.
func (j *JavadocGenerator) Generate(b *SourceBuilder) {
	if j == nil || len(j.Lines) == 0 {
		return
	}
	b.Line("/**")
	for _, l := range j.Lines {
		if l == "" {
			b.Line(" *")
			continue
		}
		b.Line(" * ", strings.ReplaceAll(l, "*/", "*&#47;"))
	}
	b.Line(" */")
}

func writeAnnotations(b *SourceBuilder, list []*AnnotationGenerator) {
	for _, a := range list {
		a.Generate(b)
		b.NewLine()
	}
}
