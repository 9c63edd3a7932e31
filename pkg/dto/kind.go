package dto

import (
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// Kind is the structural role of a model node.
type Kind uint8

const (
	KindOther Kind = iota
	KindForm
	KindTablePage
	KindComposite
	KindValueField
	KindTableField
	KindField
	KindTable
	KindColumn
	KindProperty
)

func (k Kind) String() string {
	switch k {
	case KindForm:
		return "form"
	case KindTablePage:
		return "table page"
	case KindComposite:
		return "composite"
	case KindValueField:
		return "value field"
	case KindTableField:
		return "table field"
	case KindField:
		return "field"
	case KindTable:
		return "table"
	case KindColumn:
		return "column"
	case KindProperty:
		return "property"
	default:
		return "other"
	}
}

// IsField reports whether k is any kind of form field.
func (k Kind) IsField() bool {
	switch k {
	case KindComposite, KindValueField, KindTableField, KindField:
		return true
	}
	return false
}

// priority breaks ordering ties: properties, then fields, then the rest.
func (k Kind) priority() int {
	switch {
	case k == KindProperty:
		return 0
	case k.IsField():
		return 1
	default:
		return 2
	}
}

var kindChecks = []struct {
	iface string
	kind  Kind
}{
	{scout.IForm, KindForm},
	{scout.IPageWithTable, KindTablePage},
	{scout.ITableField, KindTableField},
	{scout.IValueField, KindValueField},
	{scout.ICompositeField, KindComposite},
	{scout.IFormField, KindField},
	{scout.ITable, KindTable},
	{scout.IColumn, KindColumn},
}

func classify(env semantic.Environment, t *semantic.Type) Kind {
	for _, check := range kindChecks {
		if semantic.IsSubtypeOf(env, t, check.iface) {
			return check.kind
		}
	}
	return KindOther
}
