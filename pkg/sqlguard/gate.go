package sqlguard

import (
	"sort"
	"strings"
)

// Whitelist is the fixed set of database names a caller may ever target.
// Built once at process start from configuration; immutable afterwards, so
// concurrent reads need no coordination.
type Whitelist struct {
	names map[string]struct{}
}

// NewWhitelist builds a whitelist from configured names. Names are
// lower-cased so membership checks are case-insensitive.
func NewWhitelist(names []string) *Whitelist {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed != "" {
			set[strings.ToLower(trimmed)] = struct{}{}
		}
	}
	return &Whitelist{names: set}
}

// AuthorizeDatabase reports whether the named database may be targeted at
// all. Fails closed: an empty whitelist rejects everything with a distinct
// reason rather than silently permitting access. Runs before any statement
// or identifier inspection.
func (w *Whitelist) AuthorizeDatabase(name string) Result {
	if len(w.names) == 0 {
		return invalid("no databases configured")
	}

	if _, found := w.names[strings.ToLower(name)]; !found {
		return invalid("database is not in the allowed list")
	}

	return ok()
}

// Databases returns the whitelisted names as a sorted copy for capability
// discovery. Callers cannot mutate the underlying set through it.
func (w *Whitelist) Databases() []string {
	names := make([]string, 0, len(w.names))
	for name := range w.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Size returns the number of whitelisted databases.
func (w *Whitelist) Size() int {
	return len(w.names)
}
