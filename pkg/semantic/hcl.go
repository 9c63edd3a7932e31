package semantic

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// HCL descriptors mirror the YAML schema with blocks:
//
//	type "com.acme.client.PersonForm" {
//	  super = "org.eclipse.scout.rt.client.ui.form.AbstractForm"
//	  annotation "org.eclipse.scout.rt.client.dto.FormData" {
//	    value      = "com.acme.shared.PersonFormData"
//	    sdkCommand = "CREATE"
//	  }
//	  method "getName" {
//	    returns = "java.lang.String"
//	  }
//	  type "MainBox" { ... }
//	}

type hclFile struct {
	Types []hclType `hcl:"type,block"`
}

type hclType struct {
	Name        string          `hcl:"name,label"`
	Flags       []string        `hcl:"flags,optional"`
	Super       string          `hcl:"super,optional"`
	Interfaces  []string        `hcl:"interfaces,optional"`
	Doc         string          `hcl:"doc,optional"`
	TypeParams  []hclTypeParam  `hcl:"type_param,block"`
	Annotations []hclAnnotation `hcl:"annotation,block"`
	Methods     []hclMethod     `hcl:"method,block"`
	Types       []hclType       `hcl:"type,block"`
}

type hclTypeParam struct {
	Name   string   `hcl:"name,label"`
	Bounds []string `hcl:"bounds,optional"`
}

type hclAnnotation struct {
	Type string   `hcl:"type,label"`
	Body hcl.Body `hcl:",remain"`
}

type hclMethod struct {
	Name        string          `hcl:"name,label"`
	Flags       []string        `hcl:"flags,optional"`
	Returns     string          `hcl:"returns,optional"`
	Doc         string          `hcl:"doc,optional"`
	Params      []hclParam      `hcl:"param,block"`
	Annotations []hclAnnotation `hcl:"annotation,block"`
}

type hclParam struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

func decodeHCL(data []byte, source string) (documentFile, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, source)
	if diags.HasErrors() {
		return documentFile{}, fmt.Errorf("semantic: parse %s: %s", source, diags.Error())
	}
	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return documentFile{}, fmt.Errorf("semantic: decode %s: %s", source, diags.Error())
	}

	doc := documentFile{Types: make([]typeFile, 0, len(raw.Types))}
	for _, t := range raw.Types {
		converted, err := t.toTypeFile()
		if err != nil {
			return documentFile{}, fmt.Errorf("semantic: decode %s: %w", source, err)
		}
		doc.Types = append(doc.Types, converted)
	}
	return doc, nil
}

func (h hclType) toTypeFile() (typeFile, error) {
	out := typeFile{
		Name:       h.Name,
		Flags:      h.Flags,
		Super:      h.Super,
		Interfaces: h.Interfaces,
		Doc:        h.Doc,
	}
	for _, p := range h.TypeParams {
		out.TypeParams = append(out.TypeParams, typeParamFile{Name: p.Name, Bounds: p.Bounds})
	}
	annotations, err := hclAnnotations(h.Annotations)
	if err != nil {
		return typeFile{}, fmt.Errorf("type %s: %w", h.Name, err)
	}
	out.Annotations = annotations
	for _, m := range h.Methods {
		method := methodFile{
			Name:    m.Name,
			Flags:   m.Flags,
			Returns: m.Returns,
			Doc:     m.Doc,
		}
		for _, p := range m.Params {
			method.Params = append(method.Params, paramFile{Name: p.Name, Type: p.Type})
		}
		if method.Annotations, err = hclAnnotations(m.Annotations); err != nil {
			return typeFile{}, fmt.Errorf("method %s.%s: %w", h.Name, m.Name, err)
		}
		out.Methods = append(out.Methods, method)
	}
	for _, nested := range h.Types {
		member, err := nested.toTypeFile()
		if err != nil {
			return typeFile{}, err
		}
		out.Types = append(out.Types, member)
	}
	return out, nil
}

func hclAnnotations(list []hclAnnotation) ([]annotationFile, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]annotationFile, 0, len(list))
	for _, a := range list {
		attrs, diags := a.Body.JustAttributes()
		if diags.HasErrors() {
			return nil, fmt.Errorf("annotation %s: %s", a.Type, diags.Error())
		}
		values := make(map[string]any, len(attrs))
		for name, attr := range attrs {
			val, diags := attr.Expr.Value(nil)
			if diags.HasErrors() {
				return nil, fmt.Errorf("annotation %s attribute %q: %s", a.Type, name, diags.Error())
			}
			converted, err := ctyToGo(val)
			if err != nil {
				return nil, fmt.Errorf("annotation %s attribute %q: %w", a.Type, name, err)
			}
			values[name] = converted
		}
		out = append(out, annotationFile{Type: a.Type, Values: values})
	}
	return out, nil
}

func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, fmt.Errorf("value must be known and not null")
	}
	ty := val.Type()
	switch {
	case ty.Equals(cty.String):
		return val.AsString(), nil
	case ty.Equals(cty.Number):
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty.Equals(cty.Bool):
		return val.True(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for _, item := range val.AsValueSlice() {
			converted, err := ctyToGo(item)
			if err != nil {
				return nil, err
			}
			out = append(out, converted)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
