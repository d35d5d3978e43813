package llmextract

import (
	"encoding/json"
	"regexp"
	"strings"
)

// markdownFencePattern matches a fenced code block, optionally tagged "json".
var markdownFencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// trailingCommaPattern matches a comma immediately before a closing ] or }.
var trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)

// recoverJSON attempts to parse raw LLM output into v using four
// progressively more permissive strategies, mirroring the recovery ladder an
// unreliable model's output requires:
//
//  1. Direct parse of the trimmed text.
//  2. Extraction from a markdown code fence.
//  3. Extraction of the first balanced {...} object found anywhere in the
//     text, tolerating prefix/suffix prose.
//  4. The same balanced-object extraction, with trailing commas stripped
//     before parsing.
//
// It returns false if no strategy produces valid JSON; callers should then
// fall back to an empty-shell result and flag the extraction as failed.
func recoverJSON(raw string, v any) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return false
	}

	if json.Unmarshal([]byte(text), v) == nil {
		return true
	}

	if m := markdownFencePattern.FindStringSubmatch(text); m != nil {
		if json.Unmarshal([]byte(strings.TrimSpace(m[1])), v) == nil {
			return true
		}
	}

	if obj, ok := firstBalancedObject(text); ok {
		if json.Unmarshal([]byte(obj), v) == nil {
			return true
		}
		fixed := trailingCommaPattern.ReplaceAllString(obj, "$1")
		if json.Unmarshal([]byte(fixed), v) == nil {
			return true
		}
	}

	return false
}

// firstBalancedObject scans text for the first top-level {...} object,
// tracking brace depth so nested objects don't terminate the match early.
func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string literal, braces don't count
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
