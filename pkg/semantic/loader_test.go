package semantic

import (
	"errors"
	"os"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFS_YAMLAndHCL(t *testing.T) {
	idx, err := LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	form, err := idx.Lookup("com.acme.ui.PersonForm")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if form.Doc != "Edits a person." {
		t.Fatalf("doc: %q", form.Doc)
	}
	ann, ok := form.Annotation("org.eclipse.scout.rt.client.dto.FormData")
	if !ok {
		t.Fatalf("expected FormData annotation")
	}
	target, present, err := ann.Class("value")
	if err != nil || !present {
		t.Fatalf("value attribute: %v %v", present, err)
	}
	if target.Name() != "com.acme.shared.PersonFormData" {
		t.Fatalf("value: %q", target.Name())
	}
	if ord, ok := ann.Int("genericOrdinal"); !ok || ord != 2 {
		t.Fatalf("genericOrdinal: %d %v", ord, ok)
	}
	if diff := cmp.Diff([]string{"com.acme.shared.IPersonData"}, ann.Strings("interfaces")); diff != "" {
		t.Fatalf("interfaces mismatch (-want +got):\n%s", diff)
	}

	field, ok := idx.Find("com.acme.ui.PersonForm$MainBox$NameField")
	if !ok {
		t.Fatalf("expected nested type")
	}
	if field.Declaring().Name != "com.acme.ui.PersonForm$MainBox" || field.Outermost() != form {
		t.Fatalf("declaring links not set")
	}

	page, err := idx.Lookup("com.acme.ui.PersonTablePage")
	if err != nil {
		t.Fatalf("lookup page: %v", err)
	}
	pageAnn, ok := page.Annotation("org.eclipse.scout.rt.client.dto.PageData")
	if !ok {
		t.Fatalf("expected PageData annotation")
	}
	if v, _ := pageAnn.String("value"); v != "com.acme.shared.PersonTablePageData" {
		t.Fatalf("page value: %q", v)
	}
	if n, _ := pageAnn.Int("ordinal"); n != 3 {
		t.Fatalf("ordinal: %d", n)
	}
	if diff := cmp.Diff([]string{"a", "b"}, pageAnn.Strings("tags")); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if got := page.Methods[0].Return.String(); got != "boolean" {
		t.Fatalf("return: %q", got)
	}
	table, _ := page.Member("Table")
	if table == nil || table.TypeParams[0].Name != "R" {
		t.Fatalf("expected nested Table with type param")
	}

	if diff := cmp.Diff([]string{"com.acme.ui.PersonTablePage"}, idx.TypesFromSource("page.hcl")); diff != "" {
		t.Fatalf("sources mismatch (-want +got):\n%s", diff)
	}
}

func TestTypeArguments_SubstitutesThroughChain(t *testing.T) {
	idx, err := LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	box, _ := idx.Find("com.acme.ui.PersonForm$MainBox")

	args, ok := TypeArguments(idx, box, "com.acme.ui.AbstractField")
	if !ok || len(args) != 1 {
		t.Fatalf("expected one argument, got %v (%v)", args, ok)
	}
	if got := args[0].String(); got != "java.util.List<java.lang.Long>" {
		t.Fatalf("argument: %q", got)
	}
	if !IsSubtypeOf(idx, box, "com.acme.ui.AbstractField") {
		t.Fatalf("expected subtype relation")
	}

	abstractBox, _ := idx.Find("com.acme.ui.AbstractBox")
	own, ok := TypeArguments(idx, abstractBox, "com.acme.ui.AbstractBox")
	if !ok || len(own) != 1 || own[0].String() != "T" {
		t.Fatalf("own arguments: %v", own)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]string{
		"empty.yaml":     "   ",
		"dup.yaml":       "types:\n  - name: a.B\n  - name: a.B\n",
		"nested.yaml":    "types:\n  - name: a.B\n    types:\n      - name: c.D\n",
		"flags.yaml":     "types:\n  - name: a.B\n    flags: [sealed]\n",
		"signature.yaml": "types:\n  - name: a.B\n    super: a.C<\n",
		"broken.hcl":     "type \"a.B\" {\n",
	}
	for name, content := range cases {
		fsys := fstest.MapFS{name: &fstest.MapFile{Data: []byte(content)}}
		if _, err := LoadFS(fsys); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLookup_NotFound(t *testing.T) {
	idx, _ := NewIndex()
	_, err := idx.Lookup("a.Missing")
	if !errors.Is(err, ErrTypeNotFound) {
		t.Fatalf("expected ErrTypeNotFound, got %v", err)
	}
}
