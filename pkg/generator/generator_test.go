package generator

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/imports"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

func TestFlags_WithVisibilityReplaces(t *testing.T) {
	f := Public | Static | Final
	f = f.WithVisibility(Private)
	if f.Has(Public) || !f.Has(Private|Static|Final) {
		t.Fatalf("unexpected flags %q", f)
	}
	if got := f.Set(Protected).String(); got != "protected static final" {
		t.Fatalf("set visibility: %q", got)
	}
	if got := f.WithVisibility(0).Clear(Final).String(); got != "static" {
		t.Fatalf("package private: %q", got)
	}
}

func TestCompilationUnit_RenderWritesImportsAfterBody(t *testing.T) {
	primary := NewType(Public, "PersonFormData").
		Extends(jtype.Class("org.eclipse.scout.rt.shared.data.form.AbstractFormData"))
	unit := NewCompilationUnit("com.acme.shared", primary)
	unit.Header = "// header"

	primary.Annotate(NewAnnotation(jtype.Class("javax.annotation.Generated")).
		With("value", StringLit("com.acme.client.PersonForm")).
		With("comments", StringLit("x")))
	primary.AddField(NewField(Private|Static|Final, jtype.Primitive("long"), "serialVersionUID").WithValue(Literal("1L")))
	nested := primary.AddType(NewType(Public|Static, "Name").
		Extends(jtype.Class("org.eclipse.scout.rt.shared.data.form.fields.AbstractValueFieldData", jtype.Class("java.lang.String"))))
	nested.AddField(NewField(Private|Static|Final, jtype.Primitive("long"), "serialVersionUID").WithValue(Literal("1L")))
	primary.AddMethod(NewMethod(Public, nested.Ref(), "getName").WithBody(func(b *SourceBuilder) {
		b.Line("return getFieldByClass(", ClassLit(nested.Ref()), ");")
	}))

	out, err := unit.Render(nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := strings.Join([]string{
		"// header",
		"package com.acme.shared;",
		"",
		"import javax.annotation.Generated;",
		"",
		"import org.eclipse.scout.rt.shared.data.form.AbstractFormData;",
		"import org.eclipse.scout.rt.shared.data.form.fields.AbstractValueFieldData;",
		"",
		`@Generated(value = "com.acme.client.PersonForm", comments = "x")`,
		"public class PersonFormData extends AbstractFormData {",
		"  private static final long serialVersionUID = 1L;",
		"",
		"  public static class Name extends AbstractValueFieldData<String> {",
		"    private static final long serialVersionUID = 1L;",
		"  }",
		"",
		"  public Name getName() {",
		"    return getFieldByClass(Name.class);",
		"  }",
		"}",
		"",
	}, "\n")
	if diff := cmp.Diff(want, out.Source); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}
	if out.Name != "com.acme.shared.PersonFormData" {
		t.Fatalf("name: %q", out.Name)
	}
	if diff := cmp.Diff([]string{
		"javax.annotation.Generated",
		"org.eclipse.scout.rt.shared.data.form.AbstractFormData",
		"org.eclipse.scout.rt.shared.data.form.fields.AbstractValueFieldData",
	}, out.Imports); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestCompilationUnit_DeclaredNamesWinOverImports(t *testing.T) {
	primary := NewType(Public, "Holder")
	unit := NewCompilationUnit("com.acme", primary)
	primary.AddType(NewType(Public|Static, "Item"))
	primary.AddField(NewField(Private, jtype.Class("com.other.Item"), "foreign"))

	out, err := unit.Render(imports.New("com.acme"))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.Source, "private com.other.Item foreign;") {
		t.Fatalf("expected qualified foreign type:\n%s", out.Source)
	}
	if len(out.Imports) != 0 {
		t.Fatalf("unexpected imports %v", out.Imports)
	}
}

func TestMethodGenerator_ConstructorAndAbstract(t *testing.T) {
	typ := NewType(Public|Abstract, "Base")
	typ.TypeParams = []TypeParam{{Name: "T", Bounds: []jtype.Ref{jtype.Class("java.lang.Comparable", jtype.TypeVar("T"))}}}
	typ.AddMethod(NewConstructor(Protected, Param{Type: jtype.TypeVar("T"), Name: "seed"}).WithBody(func(b *SourceBuilder) {
		b.Line("super();")
	}))
	typ.AddMethod(NewMethod(Public|Abstract, jtype.Primitive("boolean"), "isEmpty"))

	b := NewSourceBuilder(imports.New("com.acme"))
	typ.Generate(b)
	want := strings.Join([]string{
		"public abstract class Base<T extends Comparable<T>> {",
		"  protected Base(T seed) {",
		"    super();",
		"  }",
		"",
		"  public abstract boolean isEmpty();",
		"}",
		"",
	}, "\n")
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}
}

func TestJavadocAndAnnotationValue(t *testing.T) {
	typ := NewType(Public|Interface, "Marker")
	typ.Javadoc = NewJavadoc("First line\n\nclosing */ here")
	typ.Annotate(NewAnnotation(jtype.Class("com.acme.Tag")).With("value", ClassLit(jtype.MustParse("java.util.List<java.lang.String>"))))
	typ.Implements(jtype.Class("java.io.Serializable"))

	b := NewSourceBuilder(imports.New("com.acme"))
	typ.Generate(b)
	want := strings.Join([]string{
		"/**",
		" * First line",
		" *",
		" * closing *&#47; here",
		" */",
		"@Tag(List.class)",
		"public interface Marker extends Serializable {",
		"}",
		"",
	}, "\n")
	if diff := cmp.Diff(want, b.String()); diff != "" {
		t.Fatalf("source mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := (&CompilationUnitGenerator{Package: "a"}).Render(nil); err == nil {
		t.Fatalf("expected error without primary type")
	}
	unit := NewCompilationUnit("a", NewType(Public, "A"))
	if _, err := unit.Render(imports.New("b")); err == nil {
		t.Fatalf("expected package mismatch error")
	}
	dup := NewType(Public, "A")
	dup.AddType(NewType(Public, "X"))
	dup.AddType(NewType(Public, "X"))
	if _, err := NewCompilationUnit("a", dup).Render(nil); err == nil {
		t.Fatalf("expected duplicate nested type error")
	}
}

func TestQuote(t *testing.T) {
	if got := quote("a\"b\\c\n\x01"); got != `"a\"b\\c\n\u0001"` {
		t.Fatalf("quote: %s", got)
	}
}
