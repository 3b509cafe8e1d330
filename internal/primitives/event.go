// Event provides the immutable event primitive and the pattern matching used to select
// transitions.
//
// Events are value types. Once created, Events should not be mutated. Use NewEvent for
// construction.
//
// # Patterns
//
// Transition patterns follow SCXML event descriptors over dot-separated tokens:
//
//	"*"            matches every event
//	"error"        matches "error", "error.send", "error.send.failed"
//	"error.*"      same as "error"
//	"door.*.open"  glob per token, also matches "door.front.open.slow"
//	"door.**"      glob across any number of tokens
package primitives

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

type Event struct {
	Type string
	Data any
}

// NewEvent creates and returns a new immutable Event.
func NewEvent(eventType string, data any) Event {
	return Event{
		Type: eventType,
		Data: data,
	}
}

// Match reports whether event satisfies the transition pattern.
func Match(pattern string, event Event) bool {
	return MatchType(pattern, event.Type)
}

// MatchType reports whether an event type satisfies the transition pattern.
func MatchType(pattern, eventType string) bool {
	if pattern == eventType || pattern == "*" {
		return true
	}
	if pattern == "" || eventType == "" {
		return false
	}
	pattern = strings.TrimSuffix(pattern, ".*")
	if !hasMeta(pattern) {
		return eventType == pattern || strings.HasPrefix(eventType, pattern+".")
	}
	glob, name := tokensToPath(pattern), tokensToPath(eventType)
	if ok, err := doublestar.Match(glob, name); err == nil && ok {
		return true
	}
	ok, err := doublestar.Match(glob+"/**", name)
	return err == nil && ok
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// tokensToPath maps dot-separated tokens onto the slash separator doublestar splits on.
func tokensToPath(s string) string {
	return strings.ReplaceAll(s, ".", "/")
}
