package imports

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

func TestRequestName_FirstClaimWins(t *testing.T) {
	r := New("com.acme.shared")

	if got := r.RequestName(jtype.Class("java.util.List")); got != "List" {
		t.Fatalf("first: %q", got)
	}
	if got := r.RequestName(jtype.Class("java.awt.List")); got != "java.awt.List" {
		t.Fatalf("second: %q", got)
	}
	if got := r.RequestName(jtype.Class("java.util.List")); got != "List" {
		t.Fatalf("repeat: %q", got)
	}
	if diff := cmp.Diff([]string{"java.util.List"}, r.ImportsToCreate()); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestName_ImplicitPackages(t *testing.T) {
	r := New("com.acme.shared")

	got := []string{
		r.RequestName(jtype.Class("java.lang.String")),
		r.RequestName(jtype.Class("com.acme.shared.Other")),
		r.RequestName(jtype.Class("Short")),
		r.RequestName(jtype.TypeVar("T")),
		r.RequestName(jtype.Primitive("int").Array(2)),
	}
	want := []string{"String", "Other", "Short", "T", "int[][]"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if imports := r.ImportsToCreate(); len(imports) != 0 {
		t.Fatalf("expected no imports, got %v", imports)
	}
}

func TestRequestName_Composite(t *testing.T) {
	r := New("com.acme.shared")
	ref := jtype.MustParse("java.util.Map<java.lang.String, ? extends java.util.List<java.math.BigDecimal>>[]")

	if got := r.RequestName(ref); got != "Map<String, ? extends List<BigDecimal>>[]" {
		t.Fatalf("composite: %q", got)
	}
	want := []string{"java.math.BigDecimal", "java.util.List", "java.util.Map"}
	if diff := cmp.Diff(want, r.ImportsToCreate()); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestName_NestedTypes(t *testing.T) {
	r := New("com.acme.shared")
	r.Reserve(jtype.Class("com.acme.shared.PersonFormData"))

	if got := r.RequestName(jtype.Class("com.acme.shared.PersonFormData$Name")); got != "Name" {
		t.Fatalf("own nested: %q", got)
	}
	if got := r.RequestName(jtype.Class("com.acme.shared.AddressData$Street")); got != "Street" {
		t.Fatalf("foreign nested: %q", got)
	}
	if got := r.RequestName(jtype.Class("com.acme.other.Holder$Name")); got != "com.acme.other.Holder.Name" {
		t.Fatalf("colliding nested: %q", got)
	}
	if got := r.RequestName(jtype.Class("com.acme.shared.PersonFormData")); got != "PersonFormData" {
		t.Fatalf("reserved: %q", got)
	}
	want := []string{"com.acme.shared.AddressData.Street"}
	if diff := cmp.Diff(want, r.ImportsToCreate()); diff != "" {
		t.Fatalf("imports mismatch (-want +got):\n%s", diff)
	}
}

func TestReserve_BlocksForeignShortName(t *testing.T) {
	r := New("com.acme.shared")
	r.Reserve(jtype.Class("com.acme.shared.Person"))

	if got := r.RequestName(jtype.Class("com.acme.crm.Person")); got != "com.acme.crm.Person" {
		t.Fatalf("expected qualified name, got %q", got)
	}
	if owner, ok := r.Claimed("Person"); !ok || owner != "com.acme.shared.Person" {
		t.Fatalf("claim: %q %v", owner, ok)
	}
	if imports := r.ImportsToCreate(); len(imports) != 0 {
		t.Fatalf("expected no imports, got %v", imports)
	}
}

func TestRequestName_Deterministic(t *testing.T) {
	refs := []jtype.Ref{
		jtype.MustParse("java.util.List<com.b.Item>"),
		jtype.Class("com.a.Item"),
		jtype.Class("java.util.Date"),
	}
	run := func() ([]string, []string) {
		r := New("com.acme")
		var names []string
		for _, ref := range refs {
			names = append(names, r.RequestName(ref))
		}
		return names, r.ImportsToCreate()
	}
	names1, imports1 := run()
	names2, imports2 := run()
	if diff := cmp.Diff(names1, names2); diff != "" {
		t.Fatalf("names differ:\n%s", diff)
	}
	if diff := cmp.Diff(imports1, imports2); diff != "" {
		t.Fatalf("imports differ:\n%s", diff)
	}
	if diff := cmp.Diff([]string{"List<Item>", "com.a.Item", "Date"}, names1); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
