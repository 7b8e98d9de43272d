// Package llmjson extracts JSON objects from free-form language model output.
// Model replies routinely wrap JSON in code fences or surround it with prose,
// so every structured consumer goes through ExtractObject and applies its own
// fallback value when extraction fails.
package llmjson

import "strings"

// ExtractObject returns the first balanced {...} region of raw, with optional
// markdown code fences stripped. The second return value reports whether a
// candidate object was found; it does not guarantee valid JSON.
func ExtractObject(raw string) (string, bool) {
	s := StripFences(raw)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}

// StripFences removes surrounding markdown code fence markers from model output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(strings.Trim(s, "`"))
}
