package hxbind

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Pair is one key=value segment of a pair list.
type Pair struct {
	Key   string
	Value string
}

// SplitList splits s on ',' and ';', trims every item and drops empty ones.
// Separators nested in {} or [] or inside double quotes do not split.
func SplitList(s string) []string {
	var out []string
	for _, seg := range splitTop(s) {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// ParsePairs parses a pair list:
//
//	list    := segment { (',' | ';') segment }
//	segment := key '=' value
//
// Segments are split on their first '='. Segments without '=' and segments
// with an empty key are dropped. Keys and values are trimmed; a value
// wrapped in double quotes is unquoted.
func ParsePairs(s string) []Pair {
	var out []Pair
	for _, seg := range splitTop(s) {
		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		out = append(out, Pair{Key: k, Value: unquote(strings.TrimSpace(v))})
	}
	return out
}

// LooksLikeJSON reports whether s, trimmed, starts like a JSON object or
// array.
func LooksLikeJSON(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// ParseJSON decodes s when it looks like JSON. Malformed input reports
// ok == false rather than an error.
func ParseJSON(s string) (v any, ok bool) {
	if !LooksLikeJSON(s) {
		return nil, false
	}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// splitTop splits on top-level ',' and ';'.
func splitTop(s string) []string {
	var (
		out     []string
		depth   int
		inQuote bool
		escaped bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '{', '[':
			depth++
		case '}', ']':
			if depth > 0 {
				depth--
			}
		case ',', ';':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	return append(out, s[start:])
}

func unquote(v string) string {
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		if u, err := strconv.Unquote(v); err == nil {
			return u
		}
	}
	return v
}
