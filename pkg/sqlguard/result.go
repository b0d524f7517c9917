// Package sqlguard decides, for every inbound request, whether the supplied
// database selector, identifiers, and SQL text are safe to forward to the
// engine. It is deliberately a rule table, not a parser: the keyword and
// pattern sets are explicit and independently testable so a real parser
// could replace them later without touching call sites.
package sqlguard

// Result is the outcome of a validation check. An invalid result always
// carries a human-readable reason; a valid result never does. Results are
// branched on, never raised: error propagation is reserved for genuine
// upstream faults.
type Result struct {
	Valid  bool
	Reason string
}

func ok() Result {
	return Result{Valid: true}
}

func invalid(reason string) Result {
	return Result{Valid: false, Reason: reason}
}
