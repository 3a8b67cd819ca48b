package ddl

import "strings"

// ExtractChoices recognizes the CHECK(<col> IN (<literal>, <literal>, …))
// shape Column.Render produces for a column's choices and returns the
// unquoted literal values. ok is false if check is nil or doesn't match
// that exact shape, in which case the caller should keep the CHECK clause
// as opaque constraint text instead.
func ExtractChoices(check *Paren, columnName string) (choices []string, ok bool) {
	if check == nil {
		return nil, false
	}
	atoms := nonCommaAtoms(check)
	if len(atoms) != 3 {
		return nil, false
	}
	nameTok, inTok, valuesParen := atoms[0], atoms[1], atoms[2]
	if nameTok.Token == nil || UnquoteIdent(*nameTok.Token) != columnName {
		return nil, false
	}
	if inTok.Token == nil || strings.ToUpper(*inTok.Token) != "IN" {
		return nil, false
	}
	if valuesParen.Paren == nil {
		return nil, false
	}

	for _, item := range valuesParen.Paren.Items() {
		if len(item) != 1 || item[0].Token == nil {
			return nil, false
		}
		raw := *item[0].Token
		if !IsStringLiteral(raw) {
			return nil, false
		}
		choices = append(choices, UnquoteString(raw))
	}
	return choices, true
}

// nonCommaAtoms returns a Paren's top-level atoms with the separating
// commas removed.
func nonCommaAtoms(p *Paren) []*Atom {
	var out []*Atom
	for _, a := range p.Atoms {
		if a.IsComma() {
			continue
		}
		out = append(out, a)
	}
	return out
}
