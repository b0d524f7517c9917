package sqlguard

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// MinFetchRows and MaxFetchRows bound the structured table-data fetch.
	MinFetchRows = 1
	MaxFetchRows = 1000
)

var (
	firstSelectPattern = regexp.MustCompile(`(?i)\bSELECT\b`)

	// projectionPattern is the restrictive class a caller-supplied column
	// projection must match to be used verbatim. Anything else silently
	// falls back to *.
	projectionPattern = regexp.MustCompile(`^[A-Za-z0-9_,\s*]+$`)
)

// CapRowCount rewrites an accepted ad-hoc SELECT so it can never return more
// than cap rows, by inserting TOP after the first SELECT keyword. A
// statement that already carries its own TOP clause is trusted and left
// untouched, which also makes the rewrite idempotent. The second return
// reports whether the cap was applied.
//
// Only ever invoked on statements that already passed Classify.
func CapRowCount(stmt string, cap int) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(stmt))
	if strings.Contains(normalized, "TOP ") {
		return stmt, false
	}

	loc := firstSelectPattern.FindStringIndex(stmt)
	if loc == nil {
		// Classify guarantees a leading SELECT; nothing to anchor on
		// means nothing to rewrite.
		return stmt, false
	}

	rewritten := stmt[:loc[1]] + fmt.Sprintf(" TOP %d", cap) + stmt[loc[1]:]
	return rewritten, true
}

// BuildTopQuery constructs a bounded SELECT for the structured table-data
// fetch from already-validated inputs. The row count is clamped to
// [MinFetchRows, MaxFetchRows] regardless of the caller-supplied value. The
// projection is used verbatim only when it matches the restrictive
// character class; otherwise it falls back to * rather than failing the
// request.
func BuildTopQuery(table, columns string, n int) string {
	if n < MinFetchRows {
		n = MinFetchRows
	}
	if n > MaxFetchRows {
		n = MaxFetchRows
	}

	projection := "*"
	if columns != "" && projectionPattern.MatchString(columns) {
		projection = columns
	}

	return fmt.Sprintf("SELECT TOP %d %s FROM [%s]", n, projection, table)
}
