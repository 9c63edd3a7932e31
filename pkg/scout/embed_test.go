package scout

import (
	"testing"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

func TestPlatform_ValueFieldMarker(t *testing.T) {
	idx, err := Platform()
	if err != nil {
		t.Fatalf("load platform: %v", err)
	}

	vf, err := idx.Lookup(AbstractValueField)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	ann, ok := vf.Annotation(FormDataAnnotation)
	if !ok {
		t.Fatalf("expected %s on %s", FormDataAnnotation, vf.Name)
	}
	if v, _ := ann.String(AttrValue); v != AbstractValueFieldData {
		t.Fatalf("value: %q", v)
	}
	if ord, ok := ann.Int(AttrGenericOrdinal); !ok || ord != 0 {
		t.Fatalf("genericOrdinal: %d %v", ord, ok)
	}

	str, err := idx.Lookup("org.eclipse.scout.rt.client.ui.form.fields.stringfield.AbstractStringField")
	if err != nil {
		t.Fatalf("lookup string field: %v", err)
	}
	args, ok := semantic.TypeArguments(idx, str, AbstractValueField)
	if !ok || len(args) != 1 || args[0].Name() != "java.lang.String" {
		t.Fatalf("value type: %v %v", args, ok)
	}
	if !semantic.IsSubtypeOf(idx, str, IValueField) {
		t.Fatalf("expected %s", IValueField)
	}
}

func TestPlatform_DataTypesPresent(t *testing.T) {
	idx, err := Platform()
	if err != nil {
		t.Fatalf("load platform: %v", err)
	}
	for _, name := range []string{
		AbstractFormData, AbstractFormFieldData, AbstractValueFieldData,
		AbstractTableFieldBeanData, AbstractTablePageData, AbstractTableRowData,
		AbstractPropertyData, IPageWithTable, ITable, IColumn,
	} {
		if _, ok := idx.Find(name); !ok {
			t.Errorf("missing %s", name)
		}
	}
}
