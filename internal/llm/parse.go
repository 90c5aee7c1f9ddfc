package llm

import (
	"regexp"
	"strings"

	"github.com/aienergy/invoice-analyzer/internal/common"
)

var reFencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// ExtractJSONObject recovers a single JSON object from a free-form model
// response. Strategy, in order: a fenced block explicitly labeled json,
// then the first balanced top-level {...} span, else ErrNoStructuredData.
//
// This is syntactic, best-effort recovery only — it does not validate field
// names, types, or completeness of the object it finds.
func ExtractJSONObject(raw string) ([]byte, error) {
	if m := reFencedJSON.FindStringSubmatch(raw); m != nil {
		return []byte(strings.TrimSpace(m[1])), nil
	}
	if span, ok := firstObjectSpan(raw); ok {
		return []byte(span), nil
	}
	return nil, common.ErrNoStructuredData
}

// firstObjectSpan scans for the first balanced top-level object, tracking
// string literals and escapes so braces inside values don't miscount.
func firstObjectSpan(s string) (string, bool) {
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
