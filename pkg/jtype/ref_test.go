package jtype

import (
	"testing"
)

func TestParse_RoundTripsSourceForm(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"java.lang.String", "java.lang.String"},
		{"int[]", "int[]"},
		{"java.util.Map<java.lang.String, java.util.List<com.acme.Foo$Bar>>", "java.util.Map<java.lang.String, java.util.List<com.acme.Foo.Bar>>"},
		{"java.util.List<? extends java.lang.Number>[][]", "java.util.List<? extends java.lang.Number>[][]"},
		{"java.util.Comparator<? super T>", "java.util.Comparator<? super T>"},
		{"java.util.List<?>", "java.util.List<?>"},
		{"java.lang.Object...", "java.lang.Object[]"},
	}
	for _, tc := range cases {
		ref, err := Parse(tc.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got := ref.String(); got != tc.want {
			t.Fatalf("parse %q: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	for _, in := range []string{"", "java.util.List<", "a.B<c.D", "a.B[", "a.B c"} {
		if _, err := Parse(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestRef_NameParts(t *testing.T) {
	ref := MustParse("com.acme.ui.PersonForm$MainBox$NameField")

	if got := ref.Package(); got != "com.acme.ui" {
		t.Fatalf("package: got %q", got)
	}
	if got := ref.SimpleName(); got != "NameField" {
		t.Fatalf("simple name: got %q", got)
	}
	if got := ref.TopLevel(); got != "com.acme.ui.PersonForm" {
		t.Fatalf("top level: got %q", got)
	}
	if !ref.IsNested() {
		t.Fatalf("expected nested reference")
	}
	outer, ok := ref.Declaring()
	if !ok || outer.Name() != "com.acme.ui.PersonForm$MainBox" {
		t.Fatalf("declaring: got %q (%v)", outer.Name(), ok)
	}
	if got := ref.CanonicalName(); got != "com.acme.ui.PersonForm.MainBox.NameField" {
		t.Fatalf("canonical: got %q", got)
	}
}

func TestRef_MarkTypeVarsAndSubstitute(t *testing.T) {
	ref := MustParse("java.util.Map<K, java.util.List<V>>").MarkTypeVars("K", "V")

	bound := ref.Substitute(map[string]Ref{
		"K": Class("java.lang.String"),
		"V": Class("java.lang.Long"),
	})
	if got, want := bound.String(), "java.util.Map<java.lang.String, java.util.List<java.lang.Long>>"; got != want {
		t.Fatalf("substitute: got %q, want %q", got, want)
	}
	if got := ref.String(); got != "java.util.Map<K, java.util.List<V>>" {
		t.Fatalf("original mutated: %q", got)
	}
}

func TestRef_EqualAndBoxed(t *testing.T) {
	a := MustParse("java.util.List<java.lang.String>")
	b := Class("java.util.List", Class("java.lang.String"))
	if !a.Equal(b) {
		t.Fatalf("expected equal refs")
	}
	if a.Equal(a.Raw()) {
		t.Fatalf("raw ref must differ from parameterized ref")
	}
	if got := Primitive("int").Boxed().Name(); got != "java.lang.Integer" {
		t.Fatalf("boxed int: %q", got)
	}
	if got := Primitive("int").Array(1).Boxed().String(); got != "int[]" {
		t.Fatalf("arrays stay unboxed: %q", got)
	}
}
