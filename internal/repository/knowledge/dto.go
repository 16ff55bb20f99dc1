package knowledge

import (
	"encoding/binary"
	"math"
	"strings"

	"github.com/samvaad-ai/samvaad/internal/domain"
)

// vectorSearchScore is the fixed relevance reported for vector hits.
// Clients depend on this placeholder rather than the raw cosine similarity;
// surfacing real scores would change response contents.
const vectorSearchScore = 0.8

// buildHashFields converts a knowledge entry into a flat map[string]string for HSET.
func buildHashFields(entry domain.KnowledgeEntry, vector []float32) map[string]string {
	return map[string]string{
		"content":  entry.Content,
		"category": entry.Category,
		"language": entry.Language,
		"tags":     strings.Join(entry.Tags, ","),
		"source":   entry.Source,
		"vector":   vectorToBytes(vector),
	}
}

// parseSearchEntry maps FT.SEARCH return fields onto a retrieval result.
func parseSearchEntry(fields map[string]string) domain.RetrievalResult {
	source := fields["source"]
	if source == "" {
		source = "knowledge_base"
	}
	return domain.RetrievalResult{
		Content:        fields["content"],
		Category:       fields["category"],
		Source:         source,
		RelevanceScore: vectorSearchScore,
	}
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
