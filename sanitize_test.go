package main

import "testing"

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already clean array",
			input: `[1,2,3]`,
			want:  `[1,2,3]`,
		},
		{
			name:  "already clean object",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "json fence",
			input: "```json\n[{\"title\":\"x\"}]\n```",
			want:  `[{"title":"x"}]`,
		},
		{
			name:  "bare fence",
			input: "```\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "fence without newline",
			input: "```json[1]```",
			want:  `[1]`,
		},
		{
			name:  "leading prose",
			input: `Here are results: [{"a":1}]`,
			want:  `[{"a":1}]`,
		},
		{
			name:  "prose then object",
			input: `Sure! {"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "surrounding whitespace",
			input: "  \n[1,2]\n  ",
			want:  `[1,2]`,
		},
		{
			name:  "no structural markers",
			input: "nothing useful here",
			want:  "nothing useful here",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanJSON(tt.input)
			if got != tt.want {
				t.Errorf("CleanJSON(%q) = %q, want %q", tt.input, got, tt.want)
			}
			// Cleaning is idempotent.
			if again := CleanJSON(got); again != got {
				t.Errorf("CleanJSON not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCleanJSONPrefersEarliestDelimiter(t *testing.T) {
	got := CleanJSON(`The object {"a":[1]} follows`)
	if got != `{"a":[1]} follows` {
		t.Errorf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc..." {
		t.Errorf("truncate long = %q", got)
	}
	if got := truncate("ab", 3); got != "ab" {
		t.Errorf("truncate short = %q", got)
	}
}
