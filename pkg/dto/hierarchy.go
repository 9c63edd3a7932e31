package dto

import (
	"context"
	"fmt"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// MemberKind is the kind of generated member a DtoNode stands for.
type MemberKind uint8

const (
	MemberProperty MemberKind = iota
	MemberField
	MemberTable
	MemberColumn
)

func (k MemberKind) String() string {
	switch k {
	case MemberProperty:
		return "property"
	case MemberField:
		return "field"
	case MemberTable:
		return "table"
	default:
		return "column"
	}
}

// DtoType is a generated class: the root DTO, a nested field DTO, a property
// holder or a table row.
type DtoType struct {
	Ref        jtype.Ref
	Super      jtype.Ref
	Interfaces []jtype.Ref
	TypeParams []string
	Abstract   bool
	Replace    bool
	Doc        string
	Model      *ModelNode
	Declaring  *DtoType
	Members    []*DtoNode
	// Rows is the row class of table DTOs.
	Rows *DtoType

	names map[string]struct{}
}

// Name returns the simple class name.
func (t *DtoType) Name() string { return t.Ref.SimpleName() }

// DtoNode is one member of a generated class.
type DtoNode struct {
	Name     string
	Kind     MemberKind
	Owner    *DtoType
	DataType jtype.Ref
	// Nested is the class generated for the member; nil for columns.
	Nested *DtoType
	Model  *ModelNode
}

func (t *DtoType) add(n *DtoNode) error {
	if t.names == nil {
		t.names = make(map[string]struct{})
	}
	if _, dup := t.names[n.Name]; dup {
		return newError(t.Ref.Name(), ReasonDuplicateMember, "member %s is declared twice", n.Name)
	}
	t.names[n.Name] = struct{}{}
	n.Owner = t
	t.Members = append(t.Members, n)
	return nil
}

// DtoRef returns the DTO class generated for t: the declared value for
// annotated top-level types and a nested class of the enclosing DTO for
// nested types. ok is false when t produces no DTO.
func (s *Session) DtoRef(t *semantic.Type) (ref jtype.Ref, ok bool, err error) {
	d, err := s.Decide(t)
	if err != nil {
		return jtype.Ref{}, false, err
	}
	if d.Command != CommandCreate {
		return jtype.Ref{}, false, nil
	}
	if t.Declaring() == nil {
		if !d.Annotated || d.Target == nil {
			return jtype.Ref{}, false, nil
		}
		return d.Target.Raw(), true, nil
	}
	for p := t.Declaring(); p != nil; p = p.Declaring() {
		pd, err := s.Decide(p)
		if err != nil {
			return jtype.Ref{}, false, err
		}
		switch pd.Command {
		case CommandIgnore:
			return jtype.Ref{}, false, nil
		case CommandCreate:
			container, ok, err := s.DtoRef(p)
			if err != nil || !ok {
				return jtype.Ref{}, false, err
			}
			return container.Nested(derivedName(t.SimpleName())), true, nil
		}
	}
	return jtype.Ref{}, false, nil
}

// dtoSuper walks the superclass chain of t. The first ancestor with a
// generated DTO provides the superclass; the first ancestor with an own USE
// marker provides its bound target. Without either the root class of t's
// kind is used.
func (s *Session) dtoSuper(t *semantic.Type) (jtype.Ref, *semantic.Type, error) {
	for _, anc := range semantic.SuperclassChain(s.env, t) {
		if anc.Type == nil {
			break
		}
		ref, ok, err := s.DtoRef(anc.Type)
		if err != nil {
			return jtype.Ref{}, nil, err
		}
		if ok {
			if len(anc.Type.TypeParams) > 0 && anc.Type.Declaring() == nil {
				args, _ := semantic.TypeArguments(s.env, t, anc.Type.Name)
				for i := range args {
					args[i] = s.concreteArg(t, args[i])
				}
				ref = ref.WithArgs(args...)
			}
			return ref, anc.Type, nil
		}
		m, err := s.marker(anc.Type)
		if err != nil {
			return jtype.Ref{}, nil, err
		}
		if m.present && m.command == CommandUse {
			if m.target == nil {
				return jtype.Ref{}, nil, newError(t.Name, ReasonMissingAttribute, "USE on %s requires a value", anc.Type.Name)
			}
			ref, err := s.bindGeneric(t, anc.Type, m)
			return ref, nil, err
		}
	}
	return s.defaultRoot(t), nil, nil
}

func (s *Session) defaultRoot(t *semantic.Type) jtype.Ref {
	switch s.Kind(t) {
	case KindForm:
		return jtype.Class(scout.AbstractFormData)
	case KindTablePage:
		return jtype.Class(scout.AbstractTablePageData)
	case KindTableField:
		return jtype.Class(scout.AbstractTableFieldBeanData)
	case KindValueField:
		args, ok := semantic.TypeArguments(s.env, t, scout.IValueField)
		if ok && len(args) == 1 {
			return jtype.Class(scout.AbstractValueFieldData, s.concreteArg(t, args[0]))
		}
		return jtype.Class(scout.AbstractValueFieldData, objectRef)
	case KindColumn:
		return jtype.Class(scout.AbstractTableRowData)
	default:
		return jtype.Class(scout.AbstractFormFieldData)
	}
}

// Build maps the CREATE root t onto its DTO class tree.
func (s *Session) Build(ctx context.Context, t *semantic.Type) (*DtoType, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrNotRoot)
	}
	if t.Declaring() != nil {
		return nil, fmt.Errorf("%w: %s is a nested type", ErrNotRoot, t.Name)
	}
	d, err := s.Decide(t)
	if err != nil {
		return nil, err
	}
	if d.Command != CommandCreate {
		return nil, fmt.Errorf("%w: %s resolves to %s", ErrNotRoot, t.Name, d.Command)
	}
	if !isRoot(d) {
		return nil, fmt.Errorf("%w: %s inherits CREATE without a marker naming its DTO", ErrNotRoot, t.Name)
	}
	if d.Target == nil {
		return nil, newError(t.Name, ReasonMissingAttribute, "CREATE requires a value naming the DTO class")
	}

	tree, err := s.Tree(t)
	if err != nil {
		return nil, err
	}
	root := &DtoType{
		Ref:        d.Target.Raw(),
		Super:      *d.SuperType,
		Interfaces: d.Interfaces,
		TypeParams: t.TypeParamNames(),
		Abstract:   t.IsAbstract(),
		Doc:        s.doc(t.Doc),
		Model:      tree,
	}
	if err := s.fill(ctx, root, tree, d); err != nil {
		return nil, err
	}
	return root, nil
}

func (s *Session) fill(ctx context.Context, dto *DtoType, node *ModelNode, d Decision) error {
	if node.Kind == KindTableField || node.Kind == KindTablePage {
		if err := s.rows(ctx, dto, node, d); err != nil {
			return err
		}
	}
	return s.collect(ctx, dto, node.Children)
}

// collect adds the directly owned CREATE children of a node. Composites
// without a CREATE or IGNORE decision are transparent: their children are
// lifted into dto at the composite's position.
func (s *Session) collect(ctx context.Context, dto *DtoType, children []*ModelNode) error {
	for _, child := range children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if child.Kind == KindProperty {
			if err := s.addProperty(dto, child); err != nil {
				return err
			}
			continue
		}
		if !child.Kind.IsField() {
			continue
		}
		cd, err := s.Decide(child.Type)
		if err != nil {
			return err
		}
		switch cd.Command {
		case CommandIgnore:
		case CommandCreate:
			name := derivedName(child.Type.SimpleName())
			nested := &DtoType{
				Ref:        dto.Ref.Nested(name),
				Super:      *cd.SuperType,
				Interfaces: cd.Interfaces,
				Abstract:   child.Type.IsAbstract(),
				Replace:    child.Replaces != nil,
				Doc:        s.doc(child.Type.Doc),
				Model:      child,
				Declaring:  dto,
			}
			kind := MemberField
			if child.Kind == KindTableField {
				kind = MemberTable
			}
			if err := dto.add(&DtoNode{Name: name, Kind: kind, DataType: nested.Ref, Nested: nested, Model: child}); err != nil {
				return err
			}
			if err := s.fill(ctx, nested, child, cd); err != nil {
				return err
			}
		default:
			if child.Kind == KindComposite {
				if err := s.collect(ctx, dto, child.Children); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Session) addProperty(dto *DtoType, node *ModelNode) error {
	p := node.Property
	holder := &DtoType{
		Ref:       dto.Ref.Nested(p.Name + "Property"),
		Super:     jtype.Class(scout.AbstractPropertyData, p.Type.Boxed()),
		Doc:       s.doc(p.Doc),
		Model:     node,
		Declaring: dto,
	}
	return dto.add(&DtoNode{Name: p.Name, Kind: MemberProperty, DataType: p.Type, Nested: holder, Model: node})
}

// rows builds the row class of a table field or table page from the columns
// of its directly declared table.
func (s *Session) rows(ctx context.Context, dto *DtoType, node *ModelNode, d Decision) error {
	var table *ModelNode
	for _, c := range node.Children {
		if c.Kind == KindTable {
			table = c
			break
		}
	}
	if table == nil {
		return nil
	}
	row := &DtoType{
		Ref:       dto.Ref.Nested(rowTypeName(dto.Name())),
		Super:     s.rowSuper(d),
		Model:     table,
		Declaring: dto,
	}
	for _, col := range table.Children {
		if err := ctx.Err(); err != nil {
			return err
		}
		if col.Kind != KindColumn {
			continue
		}
		include, err := s.columnIncluded(col.Type)
		if err != nil {
			return err
		}
		if !include {
			continue
		}
		node := &DtoNode{
			Name:     lowerFirst(derivedName(col.Type.SimpleName())),
			Kind:     MemberColumn,
			DataType: s.columnType(col.Type),
			Model:    col,
		}
		if err := row.add(node); err != nil {
			return err
		}
	}
	dto.Rows = row
	return nil
}

// rowSuper extends the row class of the DTO superclass when that DTO was
// generated for a table with its own rows.
func (s *Session) rowSuper(d Decision) jtype.Ref {
	if src := d.SuperSource; src != nil && d.SuperType != nil {
		if k := s.Kind(src); k == KindTableField || k == KindTablePage {
			for _, m := range src.Members {
				if s.Kind(m) == KindTable {
					base := d.SuperType.Raw()
					return base.Nested(rowTypeName(base.SimpleName()))
				}
			}
		}
	}
	return jtype.Class(scout.AbstractTableRowData)
}

func (s *Session) columnType(col *semantic.Type) jtype.Ref {
	args, ok := semantic.TypeArguments(s.env, col, scout.IColumn)
	if !ok || len(args) != 1 {
		return objectRef
	}
	return s.concreteArg(col, args[0])
}

// columnIncluded reads the nearest ColumnData marker of col; only IGNORE
// excludes the column.
func (s *Session) columnIncluded(col *semantic.Type) (bool, error) {
	check := func(t *semantic.Type) (bool, bool, error) {
		ann, ok := t.Annotation(scout.ColumnDataAnnotation)
		if !ok {
			return false, false, nil
		}
		raw, _ := ann.String(scout.AttrValue)
		cmd, err := ParseCommand(raw)
		if err != nil {
			return false, true, newError(col.Name, ReasonInvalidAttribute, "%s.value: %v", scout.ColumnDataAnnotation, err)
		}
		return cmd != CommandIgnore, true, nil
	}
	if include, found, err := check(col); found || err != nil {
		return include, err
	}
	for _, anc := range semantic.Ancestors(s.env, col) {
		if anc.Type == nil {
			continue
		}
		if include, found, err := check(anc.Type); found || err != nil {
			return include, err
		}
	}
	return true, nil
}
