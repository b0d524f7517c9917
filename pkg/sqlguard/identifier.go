package sqlguard

import (
	"fmt"
	"regexp"
)

// IdentifierKind selects the grammar an identifier is validated against.
type IdentifierKind string

const (
	// IdentifierDatabase is a database name from the request path.
	IdentifierDatabase IdentifierKind = "database"
	// IdentifierTable is a table name. Embedded whitespace is tolerated
	// for legacy multi-word table names, but no punctuation.
	IdentifierTable IdentifierKind = "table"
	// IdentifierStoredProcedure is a stored-procedure name, length-bounded
	// to the engine's 128-character identifier limit.
	IdentifierStoredProcedure IdentifierKind = "storedProcedure"
)

// Identifiers are the highest-risk injection surface: unlike statement
// bodies they end up bracket-quoted inside SQL text rather than bound as
// parameters, so each kind is pinned to a strict character class with no
// exceptions.
var identifierGrammars = map[IdentifierKind]*regexp.Regexp{
	IdentifierDatabase:        regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`),
	IdentifierTable:           regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\s]*$`),
	IdentifierStoredProcedure: regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,127}$`),
}

// ValidateIdentifier checks a raw caller-supplied name against the grammar
// for its kind. Pure; no side effects.
func ValidateIdentifier(kind IdentifierKind, raw string) Result {
	grammar, known := identifierGrammars[kind]
	if !known {
		return invalid(fmt.Sprintf("unknown identifier kind %q", kind))
	}

	if raw == "" {
		return invalid(fmt.Sprintf("%s name must be a non-empty string", kind))
	}

	if !grammar.MatchString(raw) {
		return invalid(fmt.Sprintf("%s name %q contains disallowed characters", kind, raw))
	}

	return ok()
}
