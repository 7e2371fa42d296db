package export

import (
	"strings"
	"unicode"
)

// CanonicalKey derives the primary lookup key for a header label:
// lower-cased, with spaces replaced by underscores ("Total Cost" -> "total_cost").
func CanonicalKey(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// ResolveValue finds the value for header in row. The canonical key is tried
// first, then the lowercase, snake_case, camelCase and space-stripped variants,
// in that order. Pointers are dereferenced; a missing or nil value resolves
// to "".
func ResolveValue(row Row, header string) any {
	if row == nil {
		return ""
	}
	for _, key := range keyVariants(header) {
		if v, ok := row.Lookup(key); ok {
			if v = indirect(v); v == nil {
				return ""
			}
			return v
		}
	}
	return ""
}

func keyVariants(header string) []string {
	header = strings.TrimSpace(header)
	lower := strings.ToLower(header)

	candidates := []string{
		CanonicalKey(header),
		lower,
		toSnake(header),
		toCamel(header),
		strings.ReplaceAll(lower, " ", ""),
	}

	out := candidates[:0]
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// toSnake converts "Total Cost", "totalCost" and "total-cost" to "total_cost".
func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

// toCamel converts "Total Cost" and "total_cost" to "totalCost".
func toCamel(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})

	var b strings.Builder
	for i, w := range words {
		w = strings.ToLower(w)
		if i == 0 {
			b.WriteString(w)
			continue
		}
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
