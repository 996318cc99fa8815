// Package sanitize rewrites fetched page markup before rendering.
// Cleanup is described by an ordered list of literal-marker rules so that
// drift in the source site's markup is a configuration change, not a code change.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
)

// Rule actions.
const (
	ActionInsertBefore = "insert-before" // replace every Marker with Value+Marker
	ActionTruncateLast = "truncate-last" // drop everything from the last Marker onward
	ActionRemove       = "remove"        // delete every occurrence of Marker
	ActionAppend       = "append"        // append Value to the document
)

// ErrUnknownAction is returned by New for a rule with an unsupported action.
var ErrUnknownAction = errors.New("unknown sanitizer action")

// Rule is one literal rewrite step.
type Rule struct {
	Action string `yaml:"action"`
	Marker string `yaml:"marker,omitempty"`
	Value  string `yaml:"value,omitempty"`
}

// DefaultRules reproduces the cleanup needed for MediaWiki cheat sheet pages.
func DefaultRules(siteHome string) []Rule {
	return []Rule{
		{Action: ActionInsertBefore, Marker: "</head>", Value: fmt.Sprintf(`<base href="%s" target="_blank">`, siteHome)},
		{Action: ActionTruncateLast, Marker: "Other Cheatsheets"},
		{Action: ActionRemove, Marker: `<div id="siteSub">From OWASP</div>`},
		{Action: ActionRemove, Marker: `<a href="#mw-head">navigation</a>`},
		{Action: ActionRemove, Marker: `<a href="#p-search">search</a>`},
		{Action: ActionRemove, Marker: `<a href="#mw-head">navigation</a>,`},
		{Action: ActionRemove, Marker: "Jump to:\t\t\t\t\t,"},
		{Action: ActionAppend, Value: "</span></h1></body></html>"},
	}
}

// Sanitizer applies rules in order.
type Sanitizer struct {
	rules []Rule
}

// New validates the rules and returns a Sanitizer.
func New(rules []Rule) (*Sanitizer, error) {
	for i, r := range rules {
		switch r.Action {
		case ActionInsertBefore, ActionTruncateLast, ActionRemove:
			if r.Marker == "" {
				return nil, fmt.Errorf("rule %d (%s): marker is required", i, r.Action)
			}
		case ActionAppend:
		default:
			return nil, fmt.Errorf("%w: rule %d: %q", ErrUnknownAction, i, r.Action)
		}
	}
	return &Sanitizer{rules: append([]Rule(nil), rules...)}, nil
}

// Apply runs every rule over html and returns the result.
func (s *Sanitizer) Apply(html string) string {
	for _, r := range s.rules {
		html = apply(r, html)
	}
	return html
}

func apply(r Rule, html string) string {
	switch r.Action {
	case ActionInsertBefore:
		return strings.ReplaceAll(html, r.Marker, r.Value+r.Marker)
	case ActionTruncateLast:
		// An absent marker leaves the document intact.
		if idx := strings.LastIndex(html, r.Marker); idx >= 0 {
			return html[:idx]
		}
		return html
	case ActionRemove:
		return strings.ReplaceAll(html, r.Marker, "")
	case ActionAppend:
		return html + r.Value
	}
	return html
}
