package search

import (
	"slices"

	"github.com/poiesic/ontonote/core"
	"github.com/poiesic/ontonote/vector"
)

// RankBySimilarity scores every candidate against the target embedding by
// cosine similarity and returns the results ordered by similarity
// descending, with most-recently-updated first on ties. Candidates without
// an embedding are excluded, not scored as zero.
func RankBySimilarity(target []float32, candidates []*core.Note) []*core.RankedNote {
	results := make([]*core.RankedNote, 0, len(candidates))
	for _, note := range candidates {
		if !note.HasVector() {
			continue
		}
		results = append(results, &core.RankedNote{
			Note:       note,
			Similarity: vector.Cosine(target, note.Vector),
		})
	}

	slices.SortFunc(results, func(a, b *core.RankedNote) int {
		if a.Similarity > b.Similarity {
			return -1
		}
		if a.Similarity < b.Similarity {
			return 1
		}
		return b.Note.UpdatedAt.Compare(a.Note.UpdatedAt)
	})

	return results
}
