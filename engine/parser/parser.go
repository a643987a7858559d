// Package parser converts console command strings into Intent structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/effectcore/types"
)

var verbAliases = map[string]string{
	// Pass
	"p":        "pass",
	"run":      "pass",
	"evaluate": "pass",
	"eval":     "pass",
	"apply":    "pass",

	// Turn
	"t":       "turn",
	"advance": "turn",
	"next":    "turn",

	// Objects
	"ls":   "objects",
	"list": "objects",
	"o":    "objects",

	// Meters
	"m":      "meters",
	"show":   "meters",
	"meter":  "meters",
	"status": "meters",

	// Explain
	"x":       "explain",
	"why":     "explain",
	"trace":   "explain",
	"account": "explain",

	// Unlocks
	"grant":    "unlock",
	"research": "unlock",
	"revoke":   "lock",
	"forget":   "lock",

	// Active groups
	"effects": "active",
	"groups":  "active",

	// Diagnostics
	"warnings":    "diag",
	"diagnostics": "diag",
	"w":           "diag",

	// Misc
	"?":       "help",
	"h":       "help",
	"records": "content",
	"techs":   "content",
	"e":       "empires",
}

var prepositions = map[string]bool{
	"on": true, "of": true, "for": true,
	"to": true, "at": true, "in": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into an Intent. The verb is
// lower-cased; arguments keep their case because record names, part names
// and object names are case sensitive.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(input)
	words[0] = strings.ToLower(words[0])

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	// Use the first preposition as a delimiter between object and target.
	object, target := splitOnPreposition(rest)

	return types.Intent{
		Verb:   verb,
		Object: object,
		Target: target,
	}
}

// expandMultiWordVerbs handles "run pass", "next turn", "list objects" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}
	second := strings.ToLower(words[1])

	switch words[0] {
	case "run", "do":
		if second == "pass" {
			return append([]string{"pass"}, words[2:]...)
		}
	case "next", "end":
		if second == "turn" {
			return append([]string{"turn"}, words[2:]...)
		}
	case "list", "show":
		switch second {
		case "objects":
			return append([]string{"objects"}, words[2:]...)
		case "meters":
			return append([]string{"meters"}, words[2:]...)
		case "active":
			return append([]string{"active"}, words[2:]...)
		case "empires":
			return append([]string{"empires"}, words[2:]...)
		case "content", "records":
			return append([]string{"content"}, words[2:]...)
		}
	case "explain":
		if second == "meter" {
			return append([]string{"explain"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[strings.ToLower(w)] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[strings.ToLower(w)] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
