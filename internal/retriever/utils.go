package retriever

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lower-cases, turns punctuation into whitespace and collapses runs of it
// hyphens and underscores survive so variants can be derived
func normalizeQuery(q string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r == '-' || r == '_':
			return r
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			return ' '
		default:
			return unicode.ToLower(r)
		}
	}, q)

	return strings.Join(strings.Fields(mapped), " ")
}

// returns the query as typed (lower-cased), then its normalized form and hyphen variants,
// deduplicated in order and capped at MaxVariants
func queryVariants(query string) []string {
	normalized := normalizeQuery(query)
	candidates := []string{strings.ToLower(query), normalized}

	if strings.Contains(normalized, "-") {
		candidates = append(candidates,
			strings.ReplaceAll(normalized, "-", "_"),
			strings.ReplaceAll(normalized, "-", " "),
			strings.ReplaceAll(normalized, "-", ""),
		)

		for _, token := range strings.Fields(normalized) {
			if !strings.Contains(token, "-") || utf8.RuneCountInString(token) <= longTokenLen {
				continue
			}

			candidates = append(candidates, strings.Split(token, "-")...)
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	variants := make([]string, 0, len(candidates))

	for _, c := range candidates {
		c = strings.Join(strings.Fields(c), " ")

		n := utf8.RuneCountInString(c)
		if n < minVariantLen || n > maxVariantLen {
			continue
		}

		if _, ok := seen[c]; ok {
			continue
		}

		seen[c] = struct{}{}
		variants = append(variants, c)

		if len(variants) == MaxVariants {
			break
		}
	}

	return variants
}

func truncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	return string([]rune(s)[:maxRunes])
}
