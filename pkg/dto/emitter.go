package dto

import (
	"context"
	"fmt"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/generator"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/imports"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/semantic"
)

// Result is the emitted source of one DTO root.
type Result struct {
	ModelType string
	DtoType   string
	Package   string
	Source    string
	Imports   []string
}

// EmitOption customises emission.
type EmitOption func(*emitConfig)

type emitConfig struct {
	header string
	seed   []jtype.Ref
}

// WithHeader sets the text written before the package declaration.
func WithHeader(header string) EmitOption {
	return func(c *emitConfig) {
		c.header = header
	}
}

// WithSeed marks types as already in scope of the unit: their simple names
// are claimed before emission and never imported. Identical seeds and input
// produce identical output.
func WithSeed(refs ...jtype.Ref) EmitOption {
	return func(c *emitConfig) {
		c.seed = append(c.seed, refs...)
	}
}

var (
	serialVersionUID = "serialVersionUID"
	longType         = jtype.Primitive("long")
	intType          = jtype.Primitive("int")
	voidType         = jtype.Primitive("void")
	stringType       = jtype.Class("java.lang.String")
	overrideType     = jtype.Class("java.lang.Override")
)

// Emit renders dto into Java source.
func (s *Session) Emit(ctx context.Context, dto *DtoType, opts ...EmitOption) (Result, error) {
	if dto == nil || dto.Model == nil || dto.Model.Type == nil {
		return Result{}, fmt.Errorf("%w: nothing to emit", ErrNotRoot)
	}
	var cfg emitConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	flags := generator.Public
	if dto.Abstract {
		flags = flags.Set(generator.Abstract)
	}
	primary := generator.NewType(flags, dto.Name())
	unit := generator.NewCompilationUnit(dto.Ref.Package(), primary)
	unit.Header = cfg.header

	for _, name := range dto.TypeParams {
		primary.TypeParams = append(primary.TypeParams, generator.TypeParam{Name: name})
	}
	primary.Javadoc = generator.NewJavadoc(dto.Doc)
	primary.Annotate(generator.NewAnnotation(jtype.Class(scout.Generated)).
		With("value", generator.StringLit(dto.Model.Type.Ref().CanonicalName())).
		With("comments", generator.StringLit(scout.GeneratedComment)))
	if err := s.emitType(ctx, primary, dto); err != nil {
		return Result{}, err
	}

	resolver := imports.New(unit.Package)
	for _, ref := range cfg.seed {
		resolver.Reserve(ref)
	}
	out, err := unit.Render(resolver)
	if err != nil {
		return Result{}, err
	}
	return Result{
		ModelType: dto.Model.Type.Name,
		DtoType:   dto.Ref.Name(),
		Package:   out.Package,
		Source:    out.Source,
		Imports:   out.Imports,
	}, nil
}

// emitType fills tg: serialVersionUID, accessors in member order, table row
// API, then nested classes in member order.
func (s *Session) emitType(ctx context.Context, tg *generator.TypeGenerator, dto *DtoType) error {
	tg.Extends(dto.Super)
	tg.Implements(dto.Interfaces...)
	if dto.Replace {
		tg.Annotate(generator.NewAnnotation(jtype.Class(scout.ReplaceAnnotation)))
	}
	tg.AddField(generator.NewField(generator.Private|generator.Static|generator.Final, longType, serialVersionUID).
		WithValue(generator.Literal("1L")))

	for _, m := range dto.Members {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch m.Kind {
		case MemberProperty:
			emitPropertyAccessors(tg, m)
		case MemberField, MemberTable:
			emitFieldAccessor(tg, m)
		}
	}
	if dto.Rows != nil {
		emitRowAPI(tg, dto.Rows.Ref)
	}

	for _, m := range dto.Members {
		if m.Nested == nil {
			continue
		}
		nested := tg.AddType(nestedType(m.Nested))
		if m.Kind == MemberProperty {
			nested.Extends(m.Nested.Super)
			nested.AddField(generator.NewField(generator.Private|generator.Static|generator.Final, longType, serialVersionUID).
				WithValue(generator.Literal("1L")))
			continue
		}
		if err := s.emitType(ctx, nested, m.Nested); err != nil {
			return err
		}
	}
	if dto.Rows != nil {
		row := tg.AddType(nestedType(dto.Rows))
		emitRow(row, dto.Rows)
	}
	return nil
}

func nestedType(dto *DtoType) *generator.TypeGenerator {
	flags := generator.Public | generator.Static
	if dto.Abstract {
		flags = flags.Set(generator.Abstract)
	}
	tg := generator.NewType(flags, dto.Name())
	tg.Javadoc = generator.NewJavadoc(dto.Doc)
	return tg
}

func emitFieldAccessor(tg *generator.TypeGenerator, m *DtoNode) {
	ref := m.Nested.Ref
	tg.AddMethod(generator.NewMethod(generator.Public, ref, "get"+m.Name)).
		WithBody(func(b *generator.SourceBuilder) {
			b.Line("return getFieldByClass(", generator.ClassLit(ref), ");")
		})
}

func emitPropertyAccessors(tg *generator.TypeGenerator, m *DtoNode) {
	holder := m.Nested.Ref
	holderGetter := "get" + m.Name + "Property"
	param := javaIdentifier(lowerFirst(m.Name))
	doc := generator.NewJavadoc("access method for property " + m.Name + ".")

	tg.AddMethod(generator.NewMethod(generator.Public, holder, holderGetter)).
		WithBody(func(b *generator.SourceBuilder) {
			b.Line("return getPropertyByClass(", generator.ClassLit(holder), ");")
		})

	getter := tg.AddMethod(generator.NewMethod(generator.Public, m.DataType, accessorName(m.DataType, m.Name)))
	getter.Javadoc = doc
	if m.DataType.IsPrimitive() {
		fallback := primitiveDefault(m.DataType.Name())
		getter.WithBody(func(b *generator.SourceBuilder) {
			b.Line("return (", holderGetter, "().getValue() == null) ? (", fallback, ") : (", holderGetter, "().getValue());")
		})
	} else {
		getter.WithBody(func(b *generator.SourceBuilder) {
			b.Line("return ", holderGetter, "().getValue();")
		})
	}

	setter := tg.AddMethod(generator.NewMethod(generator.Public, voidType, "set"+m.Name,
		generator.Param{Type: m.DataType, Name: param}))
	setter.Javadoc = doc
	setter.WithBody(func(b *generator.SourceBuilder) {
		b.Line(holderGetter, "().setValue(", param, ");")
	})
}

// emitRowAPI writes the typed row accessors of a table DTO.
func emitRowAPI(tg *generator.TypeGenerator, row jtype.Ref) {
	rows := row.Array(1)
	override := func(m *generator.MethodGenerator) *generator.MethodGenerator {
		return tg.AddMethod(m.Annotate(generator.NewAnnotation(overrideType)))
	}

	override(generator.NewMethod(generator.Public, row, "addRow")).WithBody(func(b *generator.SourceBuilder) {
		b.Line("return (", row, ") super.addRow();")
	})
	override(generator.NewMethod(generator.Public, row, "addRow", generator.Param{Type: intType, Name: "rowState"})).
		WithBody(func(b *generator.SourceBuilder) {
			b.Line("return (", row, ") super.addRow(rowState);")
		})
	override(generator.NewMethod(generator.Public, row, "createRow")).WithBody(func(b *generator.SourceBuilder) {
		b.Line("return new ", row, "();")
	})
	rowType := jtype.Class("java.lang.Class", jtype.Extends(jtype.Class(scout.AbstractTableRowData)))
	override(generator.NewMethod(generator.Public, rowType, "getRowType")).WithBody(func(b *generator.SourceBuilder) {
		b.Line("return ", generator.ClassLit(row), ";")
	})
	override(generator.NewMethod(generator.Public, rows, "getRows")).WithBody(func(b *generator.SourceBuilder) {
		b.Line("return (", rows, ") super.getRows();")
	})
	override(generator.NewMethod(generator.Public, row, "rowAt", generator.Param{Type: intType, Name: "index"})).
		WithBody(func(b *generator.SourceBuilder) {
			b.Line("return (", row, ") super.rowAt(index);")
		})
	tg.AddMethod(generator.NewMethod(generator.Public, voidType, "setRows", generator.Param{Type: rows, Name: "rows"})).
		WithBody(func(b *generator.SourceBuilder) {
			b.Line("super.setRows(rows);")
		})
}

// emitRow writes column name constants, backing fields and accessors.
func emitRow(tg *generator.TypeGenerator, row *DtoType) {
	tg.Extends(row.Super)
	tg.AddField(generator.NewField(generator.Private|generator.Static|generator.Final, longType, serialVersionUID).
		WithValue(generator.Literal("1L")))
	for _, col := range row.Members {
		tg.AddField(generator.NewField(generator.Public|generator.Static|generator.Final, stringType, javaIdentifier(col.Name)).
			WithValue(generator.StringLit(col.Name)))
	}
	for _, col := range row.Members {
		tg.AddField(generator.NewField(generator.Private, col.DataType, "m_"+col.Name))
	}
	for _, col := range row.Members {
		field := "m_" + col.Name
		upper := upperFirst(col.Name)
		tg.AddMethod(generator.NewMethod(generator.Public, col.DataType, accessorName(col.DataType, upper))).
			WithBody(func(b *generator.SourceBuilder) {
				b.Line("return ", field, ";")
			})
		param := javaIdentifier("new" + upper)
		tg.AddMethod(generator.NewMethod(generator.Public, voidType, "set"+upper, generator.Param{Type: col.DataType, Name: param})).
			WithBody(func(b *generator.SourceBuilder) {
				b.Line(field, " = ", param, ";")
			})
	}
}

// accessorName is isX for primitive booleans and getX otherwise.
func accessorName(typ jtype.Ref, name string) string {
	if typ.IsPrimitive() && typ.Name() == "boolean" {
		return "is" + name
	}
	return "get" + name
}

func primitiveDefault(name string) string {
	switch name {
	case "boolean":
		return "false"
	case "char":
		return `'\u0000'`
	case "long":
		return "0L"
	case "float":
		return "0.0f"
	case "double":
		return "0.0"
	default:
		return "0"
	}
}

// Generate resolves, maps and emits the DTO of the named model type.
func (s *Session) Generate(ctx context.Context, name string, opts ...EmitOption) (Result, error) {
	t, err := semantic.Lookup(s.env, name)
	if err != nil {
		return Result{}, err
	}
	dto, err := s.Build(ctx, t)
	if err != nil {
		return Result{}, err
	}
	return s.Emit(ctx, dto, opts...)
}

// Roots lists the top-level model types that produce a DTO, sorted by name.
// Types whose decision fails are included so callers report the failure, as
// are types declaring CREATE themselves without a value.
func (s *Session) Roots() []string {
	var out []string
	for _, t := range s.env.Types() {
		if t.Declaring() != nil {
			continue
		}
		m, err := s.marker(t)
		if err != nil {
			out = append(out, t.Name)
			continue
		}
		if !m.present {
			continue
		}
		d, err := s.Decide(t)
		if err != nil || isRoot(d) {
			out = append(out, t.Name)
		}
	}
	return out
}

// isRoot reports whether d makes its owner a generation root: the owner
// carries a marker and either names the DTO or declares CREATE itself.
func isRoot(d Decision) bool {
	return d.Command == CommandCreate && d.Annotated && (d.Target != nil || d.Origin == OriginOwn)
}
