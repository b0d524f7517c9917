package sqlguard

import (
	"fmt"
	"regexp"
	"strings"
)

// blockedKeywords are rejected wherever they appear as a whole word.
// Mutating DDL/DML verbs, privilege verbs, and execution entry points.
var blockedKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "CREATE", "ALTER", "TRUNCATE",
	"MERGE", "GRANT", "REVOKE", "DENY", "EXEC", "EXECUTE",
}

// blockedPrefixes catch system and extended stored-procedure invocations.
// Matched with a left word boundary only: the prefix starts a token.
var blockedPrefixes = []string{"SP_", "XP_"}

// patternRule pairs a compiled pattern with the reason reported on match.
type patternRule struct {
	pattern *regexp.Regexp
	reason  string
}

// keywordRules is built once from blockedKeywords. Word-boundary matching
// avoids false rejections on substrings embedded in legitimate column
// names (INSERTED_AT) while still catching the keyword as a token.
var keywordRules = buildKeywordRules()

// injectionRules are structural patterns rejected regardless of keyword
// content. UNION SELECT stays blocked even though it is syntactically a
// read: it is the classic exfiltration vector.
var injectionRules = []patternRule{
	{regexp.MustCompile(`(?i);\s*SELECT\b`), "stacked query: semicolon followed by SELECT"},
	{regexp.MustCompile(`--`), "single-line comment marker"},
	{regexp.MustCompile(`/\*`), "multi-line comment opener"},
	{regexp.MustCompile(`(?i)\bUNION(\s+ALL)?\s+SELECT\b`), "UNION SELECT injection pattern"},
	{regexp.MustCompile(`(?i)\bINTO\s+OUTFILE\b`), "INTO OUTFILE file write"},
	{regexp.MustCompile(`(?i)\bINTO\s+DUMPFILE\b`), "INTO DUMPFILE file write"},
	{regexp.MustCompile(`(?i)(^|[^A-Za-z0-9_])LOAD_FILE([^A-Za-z0-9_]|$)`), "LOAD_FILE file read"},
}

func buildKeywordRules() []patternRule {
	rules := make([]patternRule, 0, len(blockedKeywords)+len(blockedPrefixes))
	for _, kw := range blockedKeywords {
		rules = append(rules, patternRule{
			pattern: regexp.MustCompile(`(?i)(^|[^A-Za-z0-9_])` + kw + `([^A-Za-z0-9_]|$)`),
			reason:  fmt.Sprintf("blocked keyword %s", kw),
		})
	}
	for _, prefix := range blockedPrefixes {
		rules = append(rules, patternRule{
			pattern: regexp.MustCompile(`(?i)(^|[^A-Za-z0-9_])` + prefix),
			reason:  fmt.Sprintf("blocked procedure prefix %s", prefix),
		})
	}
	return rules
}

// Classify decides whether a raw ad-hoc statement may be forwarded.
// Checks run in order and short-circuit on the first failure. The
// normalized copy is used for matching only; the original string is what
// gets executed.
//
// This is a blocklist, not a parser. It is not sound against encoded or
// engine-specific obfuscation; that gap is accepted, not a bug.
func Classify(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return invalid("statement must be a non-empty string")
	}

	normalized := strings.ToUpper(trimmed)

	if !strings.HasPrefix(normalized, "SELECT") {
		return invalid("only SELECT statements are allowed")
	}

	for _, rule := range injectionRules {
		if rule.pattern.MatchString(trimmed) {
			return invalid(rule.reason)
		}
	}

	for _, rule := range keywordRules {
		if rule.pattern.MatchString(trimmed) {
			return invalid(rule.reason)
		}
	}

	return ok()
}
