package main

import "strings"

// CleanJSON strips the markdown wrapping the model tends to put around its
// JSON output. Best effort: if no fence or structural marker is found the
// input comes back unchanged, and the caller's json.Unmarshal decides.
// Running it on already-clean text is a no-op.
func CleanJSON(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, "```") {
		// Drop through the first line break so a language tag like
		// ```json goes with it. A fence with no newline is just the marker.
		if i := strings.IndexByte(clean, '\n'); i != -1 {
			clean = clean[i+1:]
		} else {
			clean = strings.TrimPrefix(clean, "```json")
			clean = strings.TrimPrefix(clean, "```")
		}
	}
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	clean = strings.TrimSpace(clean)

	// Models sometimes prepend prose like "Here are the results:". Slice
	// from the first structural delimiter when the text doesn't start with one.
	if clean != "" && clean[0] != '[' && clean[0] != '{' {
		bracket := strings.IndexByte(clean, '[')
		brace := strings.IndexByte(clean, '{')
		start := bracket
		if start == -1 || (brace != -1 && brace < start) {
			start = brace
		}
		if start > 0 {
			clean = clean[start:]
		}
	}

	return clean
}

// truncate caps a raw payload for logging so diagnostics never retain a full
// model response.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
