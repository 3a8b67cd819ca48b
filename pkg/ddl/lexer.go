// Package ddl parses the CREATE TABLE statement text SQLite stores in
// sqlite_master into a structured form the introspector can map onto
// schema.Column/schema.Table, instead of hand-rolling balanced-paren
// matching over raw SQL text (spec.md Design Notes, "hand-rolled SQL
// parsing"). Tokenizing and paren-nesting are delegated to
// github.com/alecthomas/participle/v2; the column/constraint-keyword
// interpretation on top of that token tree is plain Go.
package ddl

import "github.com/alecthomas/participle/v2/lexer"

var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "String", Pattern: `'(?:[^']|'')*'`},
	{Name: "QuotedIdent", Pattern: `"(?:[^"]|"")*"`},
	{Name: "BracketIdent", Pattern: `\[[^\]]*\]`},
	{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Dot", Pattern: `\.`},
	{Name: "Op", Pattern: `[<>=!~+\-*/%|&^]+`},
})
