package normalize

// extractBalancedObject returns the shortest substring of s that begins at
// the first '{' and whose brace nesting depth returns to zero. The scan is
// a character-level state machine tracking JSON string and escape state, so
// braces inside string values (a model emitting inline JSON in prose) do
// not unbalance the result. The second return is false when no balanced
// object exists.
func extractBalancedObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if start == -1 {
			if c == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}

		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}

	return "", false
}
