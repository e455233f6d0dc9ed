package dsl

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Axis", Pattern: `(?:HV|VH|H|V|C):`},
		{Name: "Op", Pattern: `==|>=|<=`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
		{Name: "Symbol", Pattern: `[\[\]()|,~@*/+.;\-]`},
	})

	specParser = participle.MustBuild[Spec](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment"),
	)
)

// Spec is the root AST node of a layout constraint spec.
type Spec struct {
	Statements []*Statement `parser:"Newline* ( @@ ( ';' | Newline )* )*"`
}

// Statement is either an explicit attribute relation (C:) or a VFL cascade.
type Statement struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Relation *Relation      `parser:"  'C:' @@"`
	Cascade  *Cascade       `parser:"| @@"`
}

// Cascade 是一行视觉格式语言，例如 H:|-8-[a]-(>=4)-[b]|。
// Items 只按词法顺序记录边界、视图与间距，序列形状由 layout 校验。
type Cascade struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Axis  Axis           `parser:"@Axis?"`
	Items []*Item        `parser:"@@+"`
}

// Item is one element of a cascade.
type Item struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Edge bool           `parser:"  @'|'"`
	View *View          `parser:"| @@"`
	Gap  *Connection    `parser:"| @@"`
}

// View references a named box, optionally with size predicates: [name(>=10,==b)].
type View struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Name       string         `parser:"'[' @Ident"`
	Predicates []*Predicate   `parser:"( '(' @@ ( ',' @@ )* ')' )? ']'"`
}

// Connection is a gap between two cascade items. Kind is "-" for an ordinary
// gap and "~" for a gap that shares its value with every other "~" gap of the
// same cascade.
type Connection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Kind  string         `parser:"@( '-' | '~' )"`
	Value *Gap           `parser:"( @@"`
	Close string         `parser:"  @( '-' | '~' ) )?"`
}

// Gap is the explicit value of a connection: a number or a predicate list.
type Gap struct {
	Number     *float64     `parser:"  @Number"`
	Predicates []*Predicate `parser:"| '(' @@ ( ',' @@ )* ')'"`
}

// Predicate is a single relation inside a view or gap: [==|>=|<=] operand [@priority].
type Predicate struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Op       string         `parser:"@Op?"`
	Operand  *Operand       `parser:"@@"`
	Priority *Priority      `parser:"( '@' @@ )?"`
}

// Operand is a constant or a reference to another view's size along the same
// axis, with an optional factor and offset: b*2+4.
type Operand struct {
	Negative bool     `parser:"@'-'?"`
	Number   *float64 `parser:"( @Number"`
	Ref      string   `parser:"| @Ident )"`
	Factor   *Factor  `parser:"@@?"`
	Offset   *Offset  `parser:"@@?"`
}

// Factor multiplies or divides a reference.
type Factor struct {
	Op    string  `parser:"@( '*' | '/' )"`
	Value float64 `parser:"@Number"`
}

// Offset adds a constant.
type Offset struct {
	Sign  string  `parser:"@( '+' | '-' )"`
	Value float64 `parser:"@Number"`
}

// Priority is a strength name (required/strong/medium/weak) or a number 0..1000.
type Priority struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Number *float64       `parser:"  @Number"`
	Name   string         `parser:"| @Ident"`
}

// Relation is an explicit linear relation between two box attributes:
// C:label.centerX == |.centerX + 4 @strong
type Relation struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Left     *AttrRef       `parser:"@@"`
	Op       string         `parser:"@Op"`
	Right    *Expr          `parser:"@@"`
	Priority *Priority      `parser:"( '@' @@ )?"`
}

// AttrRef names one attribute of a box; View "|" is the container.
type AttrRef struct {
	Pos  lexer.Position `parser:"" json:"-"`
	View string         `parser:"( @Ident | @'|' )"`
	Attr Attribute      `parser:"'.' @Ident"`
}

// Expr is the right-hand side of a relation.
type Expr struct {
	Ref    *AttrRef `parser:"( @@"`
	Factor *Factor  `parser:"  @@?"`
	Offset *Offset  `parser:"  @@? )"`
	Const  *Signed  `parser:"| @@"`
}

// Signed is a possibly negative constant.
type Signed struct {
	Negative bool    `parser:"@'-'?"`
	Value    float64 `parser:"@Number"`
}

// Axis captures the orientation prefix without its colon.
type Axis string

const (
	AxisNone       Axis = ""
	AxisHorizontal Axis = "H"
	AxisVertical   Axis = "V"
	AxisBoth       Axis = "HV"
	AxisRelation   Axis = "C"
)

// Capture implements participle.Capture.
func (a *Axis) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("axis capture requires value")
	}
	v := strings.TrimSuffix(values[0], ":")
	if v == "VH" {
		v = "HV"
	}
	*a = Axis(v)
	return nil
}

// Attribute is a box attribute name used by relations.
type Attribute string

const (
	AttrLeft    Attribute = "left"
	AttrRight   Attribute = "right"
	AttrTop     Attribute = "top"
	AttrBottom  Attribute = "bottom"
	AttrWidth   Attribute = "width"
	AttrHeight  Attribute = "height"
	AttrCenterX Attribute = "centerX"
	AttrCenterY Attribute = "centerY"
)

// Capture implements participle.Capture and rejects unknown attribute names.
func (a *Attribute) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("attribute capture requires value")
	}
	switch attr := Attribute(values[0]); attr {
	case AttrLeft, AttrRight, AttrTop, AttrBottom, AttrWidth, AttrHeight, AttrCenterX, AttrCenterY:
		*a = attr
		return nil
	default:
		return fmt.Errorf("未知的属性 %q", values[0])
	}
}

// Signed returns the constant with its sign applied.
func (s *Signed) Signed() float64 {
	if s.Negative {
		return -s.Value
	}
	return s.Value
}

// Signed returns the offset with its sign applied.
func (o *Offset) Signed() float64 {
	if o.Sign == "-" {
		return -o.Value
	}
	return o.Value
}

// Parse parses a constraint spec from an io.Reader.
func Parse(r io.Reader) (*Spec, error) {
	return specParser.Parse("", r)
}

// ParseString parses a constraint spec from a string.
func ParseString(input string) (*Spec, error) {
	return specParser.ParseString("", input)
}
