package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/imports"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/jtype"
)

// DefaultIndent is the indentation unit of generated source.
const DefaultIndent = "  "

// Expr writes an expression or statement fragment into a builder.
type Expr func(b *SourceBuilder)

// SourceBuilder is an indentation aware writer that resolves type references
// through the resolver of the unit being generated.
type SourceBuilder struct {
	buf       strings.Builder
	resolver  *imports.Resolver
	tab       string
	depth     int
	lineStart bool
}

// NewSourceBuilder returns a builder bound to resolver.
func NewSourceBuilder(resolver *imports.Resolver) *SourceBuilder {
	if resolver == nil {
		resolver = imports.New("")
	}
	return &SourceBuilder{resolver: resolver, tab: DefaultIndent, lineStart: true}
}

// Resolver returns the resolver names are requested from.
func (b *SourceBuilder) Resolver() *imports.Resolver { return b.resolver }

// Append writes text on the current line.
func (b *SourceBuilder) Append(text string) *SourceBuilder {
	if text == "" {
		return b
	}
	if b.lineStart {
		b.buf.WriteString(strings.Repeat(b.tab, b.depth))
		b.lineStart = false
	}
	b.buf.WriteString(text)
	return b
}

// Ref writes the name the resolver hands out for ref.
func (b *SourceBuilder) Ref(ref jtype.Ref) *SourceBuilder {
	return b.Append(b.resolver.RequestName(ref))
}

// StringLiteral writes v as a quoted Java string literal.
func (b *SourceBuilder) StringLiteral(v string) *SourceBuilder {
	return b.Append(quote(v))
}

// NewLine ends the current line.
func (b *SourceBuilder) NewLine() *SourceBuilder {
	b.buf.WriteByte('\n')
	b.lineStart = true
	return b
}

// Line writes parts followed by a line break. Parts may be strings,
// jtype.Ref values or Expr values.
func (b *SourceBuilder) Line(parts ...any) *SourceBuilder {
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			b.Append(v)
		case jtype.Ref:
			b.Ref(v)
		case Expr:
			if v != nil {
				v(b)
			}
		case func(*SourceBuilder):
			if v != nil {
				v(b)
			}
		default:
			b.Append(fmt.Sprint(v))
		}
	}
	return b.NewLine()
}

// Indent increases the indentation of following lines.
func (b *SourceBuilder) Indent() *SourceBuilder {
	b.depth++
	return b
}

// Outdent decreases the indentation of following lines.
func (b *SourceBuilder) Outdent() *SourceBuilder {
	if b.depth > 0 {
		b.depth--
	}
	return b
}

// String returns the text written so far.
func (b *SourceBuilder) String() string { return b.buf.String() }

// Literal is an expression written verbatim.
func Literal(text string) Expr {
	return func(b *SourceBuilder) { b.Append(text) }
}

// StringLit is a quoted string literal expression.
func StringLit(v string) Expr {
	return func(b *SourceBuilder) { b.StringLiteral(v) }
}

// ClassLit is a class literal expression such as PersonFormData.class.
func ClassLit(ref jtype.Ref) Expr {
	return func(b *SourceBuilder) {
		b.Ref(ref.Raw())
		b.Append(".class")
	}
}

// quote produces a Java string literal; control characters become \u escapes.
func quote(v string) string {
	var out strings.Builder
	out.WriteByte('"')
	for _, r := range v {
		switch {
		case r == '"':
			out.WriteString(`\"`)
		case r == '\\':
			out.WriteString(`\\`)
		case r == '\n':
			out.WriteString(`\n`)
		case r == '\r':
			out.WriteString(`\r`)
		case r == '\t':
			out.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			out.WriteString(`\u`)
			out.WriteString(pad4(strconv.FormatInt(int64(r), 16)))
		default:
			out.WriteRune(r)
		}
	}
	out.WriteByte('"')
	return out.String()
}

func pad4(hex string) string {
	for len(hex) < 4 {
		hex = "0" + hex
	}
	return hex
}
