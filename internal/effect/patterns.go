package effect

import "strings"

// callRule is one entry in the ordered pattern table ClassifyCall walks:
// the first rule whose any keyword appears in the call's lowercased name
// wins (spec §4.9: "Effect classification (from name patterns, call
// targets, and heap transitions)").
type callRule struct {
	kind     EffectKind
	keywords []string
}

// callRules is checked top-to-bottom; raise/throw and rollback are
// checked before any DB keyword so a name like "rollbackTransaction"
// classifies as Throws rather than DbWrite (spec §4.9: "`raise`/`throw`
// overrides DB effects; `rollback` + `raise` implies exception-handling
// context").
var callRules = []callRule{
	{Throws, []string{"raise", "throw", "rollback", "panic"}},
	{DbWrite, []string{"insert", "update", "delete", "save", "persist", "commit"}},
	{DbRead, []string{"query", "select", "find", "load"}},
	{Network, []string{"http", "fetch", "request", "socket", "url"}},
	{Log, []string{"log", "trace", "debug", "warn"}},
	{ReadState, []string{"list", "collection", "dict", "array"}},
}

// ClassifyCall maps a call's target name to the effect it most likely
// produces, falling back to ExternalCall when nothing matches.
func ClassifyCall(name string) EffectKind {
	lower := strings.ToLower(name)
	for _, rule := range callRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind
			}
		}
	}
	return ExternalCall
}

// IsCollectionLike reports whether a variable's name suggests it's a
// collection, the trigger for spec §4.9's "collection-like names imply
// ReadState" context rule; Abduce applies it to the receiver of a call
// (bare field reads add ReadState without it).
func IsCollectionLike(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range []string{"list", "collection", "dict", "array", "map", "set", "queue", "stack"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
