package dto

import (
	"sort"
	"strings"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// ModelNode is one UI-model construct of a request-scoped model tree.
type ModelNode struct {
	// Type is nil for property nodes.
	Type     *semantic.Type
	Property *Property
	Kind     Kind
	// Order is the @Order value, or the declaration index when HasOrder is
	// false. Unused for properties.
	Order    float64
	HasOrder bool
	// Index is the declaration index among nested types, or the method
	// index for properties.
	Index    int
	Parent   *ModelNode
	Children []*ModelNode
	// Replaces is the node overridden through @Replace.
	Replaces *semantic.Type
	// Bindings are the generic arguments of the superclass reference.
	Bindings []jtype.Ref
}

// Name returns the simple type name or the property name.
func (n *ModelNode) Name() string {
	if n.Property != nil {
		return n.Property.Name
	}
	return n.Type.SimpleName()
}

// Property is a bean property of a model type exposed through accessor
// methods carrying the FormData marker.
type Property struct {
	Name  string
	Type  jtype.Ref
	Index    int
	Doc   string
}

// Tree builds the model tree rooted at t. Children are ordered by order
// key, then declaration index, then kind priority.
func (s *Session) Tree(t *semantic.Type) (*ModelNode, error) {
	return s.node(t, nil)
}

func (s *Session) node(t *semantic.Type, parent *ModelNode) (*ModelNode, error) {
	n := &ModelNode{
		Type:   t,
		Kind:   s.Kind(t),
		Index:  t.Index(),
		Parent: parent,
	}
	n.Order, n.HasOrder = orderOf(t)
	if t.Super != nil {
		n.Bindings = t.Super.Args()
		if t.HasAnnotation(scout.ReplaceAnnotation) {
			n.Replaces, _ = s.env.Find(t.Super.Name())
		}
	}

	props, err := properties(t)
	if err != nil {
		return nil, err
	}
	for i := range props {
		p := props[i]
		n.Children = append(n.Children, &ModelNode{
			Property: &p,
			Kind:     KindProperty,
			Index:    p.Index,
			Parent:   n,
		})
	}
	for _, member := range t.Members {
		if s.Kind(member) == KindOther {
			continue
		}
		child, err := s.node(member, n)
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, child)
	}
	sortNodes(n.Children)
	return n, nil
}

func orderOf(t *semantic.Type) (float64, bool) {
	if ann, ok := t.Annotation(scout.OrderAnnotation); ok {
		if v, ok := ann.Float(scout.AttrValue); ok {
			return v, true
		}
	}
	return float64(t.Index()), false
}

// sortNodes puts properties first in method order. Type nodes follow by
// order key, then declaration index, then kind priority. Method indices are
// never compared with order keys.
func sortNodes(nodes []*ModelNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		ap, bp := a.Kind == KindProperty, b.Kind == KindProperty
		if ap != bp {
			return ap
		}
		if ap {
			return a.Index < b.Index
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Index != b.Index {
			return a.Index < b.Index
		}
		return a.Kind.priority() < b.Kind.priority()
	})
}

// properties collects the accessor pairs of t marked with FormData. A
// marker with sdkCommand IGNORE hides the property.
func properties(t *semantic.Type) ([]Property, error) {
	var out []Property
	byName := make(map[string]int)
	ignored := make(map[string]struct{})
	for _, m := range t.Methods {
		ann, ok := m.Annotation(scout.FormDataAnnotation)
		if !ok {
			continue
		}
		name, typ, ok := accessor(m)
		if !ok {
			return nil, newError(t.Name, ReasonInvalidAttribute,
				"method %s carries %s but is not a bean getter or setter", m.Name, scout.FormDataAnnotation)
		}
		if raw, ok := ann.String(scout.AttrSdkCommand); ok {
			cmd, err := ParseCommand(raw)
			if err != nil {
				return nil, newError(t.Name, ReasonInvalidAttribute, "method %s sdkCommand: %v", m.Name, err)
			}
			if cmd == CommandIgnore {
				ignored[name] = struct{}{}
				continue
			}
		}
		if idx, seen := byName[name]; seen {
			if out[idx].Doc == "" {
				out[idx].Doc = m.Doc
			}
			continue
		}
		byName[name] = len(out)
		out = append(out, Property{Name: name, Type: typ, Index: m.Index, Doc: m.Doc})
	}
	if len(ignored) == 0 {
		return out, nil
	}
	kept := out[:0]
	for _, p := range out {
		if _, skip := ignored[p.Name]; !skip {
			kept = append(kept, p)
		}
	}
	return kept, nil
}

// accessor derives the property name and type from a getter (getX, isX) or
// setter (setX).
func accessor(m semantic.Method) (string, jtype.Ref, bool) {
	switch {
	case strings.HasPrefix(m.Name, "get") && len(m.Params) == 0 && !isVoid(m.Return):
		return propertyName(m.Name[3:]), m.Return, len(m.Name) > 3
	case strings.HasPrefix(m.Name, "is") && len(m.Params) == 0 && m.Return.IsPrimitive() && m.Return.Name() == "boolean":
		return propertyName(m.Name[2:]), m.Return, len(m.Name) > 2
	case strings.HasPrefix(m.Name, "set") && len(m.Params) == 1:
		return propertyName(m.Name[3:]), m.Params[0].Type, len(m.Name) > 3
	}
	return "", jtype.Ref{}, false
}

func isVoid(r jtype.Ref) bool {
	return !r.IsValid() || (r.IsPrimitive() && r.Name() == "void")
}

func propertyName(raw string) string {
	return upperFirst(raw)
}
