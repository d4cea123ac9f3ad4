package retriever

import "codeberg.org/algopatterns/catalog/internal/evidence"

// exact hits first, then nearest neighbors; a row in both keeps its lexical version
func Merge(lexical, semantic []evidence.Row, limit int) []evidence.Row {
	if limit <= 0 {
		return []evidence.Row{}
	}

	seen := make(map[evidence.Key]struct{}, len(lexical)+len(semantic))
	merged := make([]evidence.Row, 0, min(limit, len(lexical)+len(semantic)))

	for _, set := range [][]evidence.Row{lexical, semantic} {
		for _, row := range set {
			key := row.Key()
			if _, ok := seen[key]; ok {
				continue
			}

			seen[key] = struct{}{}
			merged = append(merged, row)

			if len(merged) == limit {
				return merged
			}
		}
	}

	return merged
}
