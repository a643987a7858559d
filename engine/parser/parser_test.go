package parser

import (
	"testing"

	"github.com/nathoo/effectcore/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Basic verbs (no object)
		{
			name:  "pass",
			input: "pass",
			want:  types.Intent{Verb: "pass"},
		},
		{
			name:  "diag",
			input: "diag",
			want:  types.Intent{Verb: "diag"},
		},
		{
			name:  "verb is case insensitive",
			input: "PASS",
			want:  types.Intent{Verb: "pass"},
		},

		// Verb aliases
		{
			name:  "p → pass",
			input: "p",
			want:  types.Intent{Verb: "pass"},
		},
		{
			name:  "why → explain",
			input: "why max:capacity@FT_HANGAR_2 on Valiant",
			want:  types.Intent{Verb: "explain", Object: "max:capacity@FT_HANGAR_2", Target: "Valiant"},
		},
		{
			name:  "ls → objects",
			input: "ls ship",
			want:  types.Intent{Verb: "objects", Object: "ship"},
		},
		{
			name:  "research → unlock",
			input: "research SHP_FIGHTERS_3 for Terrans",
			want:  types.Intent{Verb: "unlock", Object: "SHP_FIGHTERS_3", Target: "Terrans"},
		},
		{
			name:  "revoke → lock",
			input: "revoke SHP_FIGHTERS_3 for Terrans",
			want:  types.Intent{Verb: "lock", Object: "SHP_FIGHTERS_3", Target: "Terrans"},
		},
		{
			name:  "warnings → diag",
			input: "warnings",
			want:  types.Intent{Verb: "diag"},
		},

		// Multi-word verbs
		{
			name:  "run pass",
			input: "run pass",
			want:  types.Intent{Verb: "pass"},
		},
		{
			name:  "next turn 4",
			input: "next turn 4",
			want:  types.Intent{Verb: "turn", Object: "4"},
		},
		{
			name:  "show meters of Valiant",
			input: "show meters of Valiant",
			want:  types.Intent{Verb: "meters", Target: "Valiant"},
		},
		{
			name:  "list objects",
			input: "List Objects",
			want:  types.Intent{Verb: "objects"},
		},
		{
			name:  "explain meter",
			input: "explain meter structure of Earth",
			want:  types.Intent{Verb: "explain", Object: "structure", Target: "Earth"},
		},

		// Argument case is preserved
		{
			name:  "record name keeps case",
			input: "unlock SHP_Fighters_3 to Terrans",
			want:  types.Intent{Verb: "unlock", Object: "SHP_Fighters_3", Target: "Terrans"},
		},
		{
			name:  "multi-word object name",
			input: "meters Terran Flagship",
			want:  types.Intent{Verb: "meters", Object: "Terran Flagship"},
		},

		// Article stripping
		{
			name:  "article stripped",
			input: "meters the Valiant",
			want:  types.Intent{Verb: "meters", Object: "Valiant"},
		},
		{
			name:  "capitalised article stripped",
			input: "explain structure of The Valiant",
			want:  types.Intent{Verb: "explain", Object: "structure", Target: "Valiant"},
		},

		// Preposition splitting
		{
			name:  "first preposition splits",
			input: "explain stealth on Ship in Sol",
			want:  types.Intent{Verb: "explain", Object: "stealth", Target: "Ship in Sol"},
		},
		{
			name:  "unknown verb passes through",
			input: "frobnicate Valiant",
			want:  types.Intent{Verb: "frobnicate", Object: "Valiant"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
