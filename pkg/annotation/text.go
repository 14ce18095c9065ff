package annotation

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/dd0wney/cluso-timing/pkg/timing"
)

// textLexer tokenizes the line-oriented declaration format:
//
//	# comment
//	divider "/"
//	node "A"
//	arc "A" -> "B" 2.0 interconnect "buf"
//
// Bare names may carry backslash escapes such as a\[0\]/Q; the backslashes
// are kept so every reference to the pin spells it the same way.
var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "Number", Pattern: `[-+]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `(?:[A-Za-z_]|\\.)(?:[A-Za-z0-9_./\[\]$]|\\.)*`},
})

// textFile is the parse tree of a text declaration file.
type textFile struct {
	Statements []*textStatement `@@*`
}

type textStatement struct {
	Pos lexer.Position

	Divider *string   `  "divider" @String`
	Node    *textName `| "node" @@`
	Arc     *textArc  `| "arc" @@`
}

// textName is a bare or quoted pin name.
type textName struct {
	Value string `@( String | Ident )`
}

// textArc carries an optional arc kind and a quoted cell type.
type textArc struct {
	From  textName `@@`
	To    textName `Arrow @@`
	Delay float64  `@Number`
	Kind  string   `@( "interconnect" | "iopath" | "INTERCONNECT" | "IOPATH" )?`
	Cell  *string  `@String?`
}

var textParser = participle.MustBuild[textFile](
	participle.Lexer(textLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// ParseText reads the text declaration format. Statements become
// declarations in file order. A divider statement may appear anywhere; the
// last one wins.
func ParseText(name string, r io.Reader) (*Document, error) {
	tree, err := textParser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return fromText(tree)
}

// ParseTextString is ParseText over a string.
func ParseTextString(name, input string) (*Document, error) {
	return ParseText(name, strings.NewReader(input))
}

func fromText(tree *textFile) (*Document, error) {
	doc := &Document{decls: make([]Declaration, 0, len(tree.Statements))}

	for _, st := range tree.Statements {
		switch {
		case st.Divider != nil:
			if *st.Divider == "" {
				return nil, fmt.Errorf("%s: %w", st.Pos, timing.InvalidArgumentError("ParseText", "divider", "empty divider"))
			}
			doc.divider = *st.Divider
		case st.Node != nil:
			doc.decls = append(doc.decls, NodeDecl(timing.NodeID(st.Node.Value)))
		case st.Arc != nil:
			d := ArcDecl(timing.NodeID(st.Arc.From.Value), timing.NodeID(st.Arc.To.Value), st.Arc.Delay)
			d.ArcKind = timing.ParseArcKind(st.Arc.Kind)
			if st.Arc.Cell != nil {
				d.Cell = *st.Arc.Cell
			}
			doc.decls = append(doc.decls, d)
		}
	}

	return doc, nil
}
