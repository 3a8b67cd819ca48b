package ddl

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
)

// CreateTableStmt is the parsed shape of a CREATE TABLE statement: a name,
// a parenthesized body of comma-separated column/constraint items, and the
// optional WITHOUT ROWID suffix. The body is left as a token tree — see
// Paren/Atom — for Interpret to walk.
type CreateTableStmt struct {
	IfNotExists  bool   `"CREATE" "TABLE" (@"IF" "NOT" "EXISTS")?`
	Name         string `@(Ident|QuotedIdent|BracketIdent)`
	Body         *Paren `@@`
	WithoutRowID bool   `("WITHOUT" @"ROWID")?`
}

// Paren is a parenthesized, comma-aware token group. Nested parentheses
// are captured recursively as Atoms whose Paren field is set, so arbitrary
// nesting (e.g. CHECK(col IN (1, 2, (3+4)))) round-trips without the
// grammar needing to know what the parens mean.
type Paren struct {
	Atoms []*Atom `"(" @@* ")"`
}

// Atom is one token of a Paren's contents: either a nested Paren, the
// comma that separates top-level items, or a single lexical token (an
// identifier, literal, operator, or dot).
type Atom struct {
	Paren *Paren  `  @@`
	Comma *string `| @","`
	Token *string `| @(Ident|QuotedIdent|BracketIdent|String|Number|Op|Dot)`
}

// IsComma reports whether this atom is a top-level separator rather than
// content.
func (a *Atom) IsComma() bool {
	return a.Comma != nil
}

// Text returns the atom's literal text: the token text, or a
// parenthesized reconstruction of a nested Paren's contents.
func (a *Atom) Text() string {
	if a.Paren != nil {
		return a.Paren.Raw()
	}
	if a.Comma != nil {
		return *a.Comma
	}
	if a.Token != nil {
		return *a.Token
	}
	return ""
}

// Raw reconstructs the parenthesized text this Paren was parsed from,
// without attempting to preserve the original whitespace.
func (p *Paren) Raw() string {
	s := "("
	for i, a := range p.Atoms {
		if a.IsComma() {
			s += ","
			continue
		}
		if i > 0 && !p.Atoms[i-1].IsComma() {
			s += " "
		}
		s += a.Text()
	}
	s += ")"
	return s
}

// Items splits a Paren's contents into top-level comma-separated groups,
// dropping the separating commas themselves.
func (p *Paren) Items() [][]*Atom {
	var items [][]*Atom
	var current []*Atom
	for _, a := range p.Atoms {
		if a.IsComma() {
			items = append(items, current)
			current = nil
			continue
		}
		current = append(current, a)
	}
	items = append(items, current)
	return items
}

var parser = participle.MustBuild[CreateTableStmt](
	participle.Lexer(sqlLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.CaseInsensitive("Ident"),
	participle.UseLookahead(2),
)

// Parse parses a single CREATE TABLE statement.
func Parse(sql string) (*CreateTableStmt, error) {
	stmt, err := parser.ParseString("", sql)
	if err != nil {
		return nil, fmt.Errorf("ddl: parse %q: %w", sql, err)
	}
	return stmt, nil
}
