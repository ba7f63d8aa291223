// Package genres maps free-form genre names onto catalog genre ids.
//
// Watched entries store genres as comma-joined display text in whatever
// language the catalog returned, so lookups fold diacritics and strip
// everything but letters before hitting the table.
package genres

import (
	"sort"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// idByName maps normalized genre names (Portuguese and English) to catalog ids.
var idByName = map[string]int{
	"acao":             28,
	"action":           28,
	"aventura":         12,
	"adventure":        12,
	"animacao":         16,
	"animation":        16,
	"comedia":          35,
	"comedy":           35,
	"crime":            80,
	"documentario":     99,
	"documentary":      99,
	"drama":            18,
	"familia":          10751,
	"family":           10751,
	"fantasia":         14,
	"fantasy":          14,
	"historia":         36,
	"history":          36,
	"terror":           27,
	"horror":           27,
	"musica":           10402,
	"music":            10402,
	"misterio":         9648,
	"mystery":          9648,
	"romance":          10749,
	"ficcaocientifica": 878,
	"cienciaficcao":    878,
	"sciencefiction":   878,
	"scifi":            878,
	"suspense":         53,
	"thriller":         53,
	"guerra":           10752,
	"war":              10752,
	"faroeste":         37,
	"western":          37,
	"filmetv":          10770,
	"tvmovie":          10770,
}

// Normalize folds a genre name to the lookup form: diacritics romanized,
// non-letters dropped, lowercased.
func Normalize(name string) string {
	romanized := unidecode.Unidecode(name)
	var b strings.Builder
	for _, r := range romanized {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(b.String())
}

// IDFor resolves a display genre name to its catalog id.
func IDFor(name string) (int, bool) {
	id, ok := idByName[Normalize(name)]
	return id, ok
}

// TopIDs tokenizes the supplied comma-joined genre texts, counts catalog id
// occurrences, and returns at most n ids ranked by descending count.
// Equal counts break toward the lower id so the ranking is deterministic.
func TopIDs(texts []string, n int) []int {
	counts := make(map[int]int)
	for _, text := range texts {
		for _, token := range strings.Split(text, ",") {
			if id, ok := IDFor(token); ok {
				counts[id]++
			}
		}
	}

	ids := make([]int, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}
