package textutil

import "strings"

// Tokens lowercases text and splits it into a set of alphanumeric tokens
func Tokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, field := range strings.Fields(strings.ToLower(text)) {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !isAlphanumeric(r)
		})
		if token != "" {
			set[token] = struct{}{}
		}
	}
	return set
}

// Jaccard computes token-set Jaccard similarity between two strings.
// Two empty strings are considered identical.
func Jaccard(a, b string) float64 {
	ta, tb := Tokens(a), Tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for token := range ta {
		if _, ok := tb[token]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

func isAlphanumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
