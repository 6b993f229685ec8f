package mail

import (
	"strings"
	"unicode"
)

type intentRule struct {
	label string
	// keywords match whole words; a trailing "*" matches any word starting
	// with the stem.
	keywords []string
}

// Order matters: the first rule with a matching keyword wins.
var intentRules = []intentRule{
	{"Job Opportunity", []string{"job", "jobs", "career*", "position", "positions", "hiring", "hire", "role", "roles", "interview*", "recruit*"}},
	{"Project Inquiry", []string{"freelanc*", "contract", "contractor", "project*", "consult*", "quote", "quotes", "estimate"}},
	{"Collaboration", []string{"collaborat*", "partner*"}},
	{"Speaking Request", []string{"speaker*", "keynote*", "podcast*", "conference*", "panel"}},
}

// GeneralIntent labels messages that match no rule.
const GeneralIntent = "General Inquiry"

// ClassifyIntent labels a message body by keyword. It is a triage hint for the
// inbox, nothing depends on it.
func ClassifyIntent(message string) string {
	words := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if containsKeyword(words, kw) {
				return rule.label
			}
		}
	}
	return GeneralIntent
}

func containsKeyword(words []string, kw string) bool {
	stem, prefix := strings.CutSuffix(kw, "*")
	for _, w := range words {
		if w == stem || prefix && strings.HasPrefix(w, stem) {
			return true
		}
	}
	return false
}
