package schema

import (
	"regexp"
	"strconv"
	"strings"
)

// identifierRe is the ASCII identifier whitelist referenced throughout
// spec.md §6: any name outside this form is rejected by the Column/Table
// builders rather than being passed through to SQLite for it to reject.
var identifierRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validIdentifier(name string) bool {
	return identifierRe.MatchString(name)
}

// quoteIdent renders name as a double-quoted SQL identifier, doubling any
// internal double quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteIdent is the exported form of quoteIdent, used by pkg/migrate and
// pkg/isqlitedb to render identifiers the same way Column/Table.Render
// does.
func QuoteIdent(name string) string {
	return quoteIdent(name)
}

// quoteLiteral renders s as a single-quoted SQL string literal, doubling
// any internal single quotes.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// typeAcceptsLiteral reports whether literal is a plausible value for the
// given opaque SQL type, used to validate a Column's choices. SQLite's type
// affinity rules are used as a guideline, not as enforcement of a real type
// system: opaque or compound types (e.g. "VARCHAR(40)") are accepted for any
// literal, since the introspector must never reject syntactically valid SQL
// (spec.md §4.D).
func typeAcceptsLiteral(sqlType, literal string) bool {
	affinity := strings.ToUpper(strings.TrimSpace(sqlType))
	switch {
	case strings.HasPrefix(affinity, "INT"):
		_, err := strconv.ParseInt(literal, 10, 64)
		return err == nil
	case strings.HasPrefix(affinity, "REAL"),
		strings.HasPrefix(affinity, "DOUB"),
		strings.HasPrefix(affinity, "FLOA"):
		_, err := strconv.ParseFloat(literal, 64)
		return err == nil
	default:
		return true
	}
}
