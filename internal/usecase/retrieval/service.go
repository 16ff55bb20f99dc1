// Package retrieval selects knowledge entries relevant to a chat message,
// by vector similarity when the index is live and by keyword scoring
// otherwise.
package retrieval

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/samvaad-ai/samvaad/internal/domain"
	"github.com/samvaad-ai/samvaad/internal/metrics"
)

// categoryKeywords maps a query keyword set onto the catalog category it
// signals. A category match is the strongest non-crisis relevance signal.
var categoryKeywords = map[string][]string{
	"anxiety":              {"anxious", "worried", "panic", "nervous"},
	"exam_stress":          {"exam", "test", "grade", "study"},
	"social_support":       {"lonely", "friends", "social", "isolated"},
	"relationship_support": {"breakup", "relationship", "ex", "dating"},
	"physical_wellness":    {"sick", "illness", "unwell", "health"},
	"social_skills":        {"friends", "friendship", "social"},
	"wellness":             {"sleep", "tired", "exhausted"},
	"crisis_intervention":  {"suicide", "harm", "kill", "die"},
}

// Config bounds the number of results per retrieval mode.
type Config struct {
	VectorTopK   int
	FallbackTopK int
	// EmbedTimeout caps one query embedding call; 0 means no extra bound.
	EmbedTimeout time.Duration
}

// Service answers "what does the catalog know about this message".
type Service struct {
	embedder embedder
	repo     knowledgeRepo
	cfg      Config
	logger   *zap.Logger
}

// NewService creates the retrieval service. The embedder may be nil when no
// embedding provider is configured; retrieval then always uses keyword
// scoring.
func NewService(e embedder, repo knowledgeRepo, cfg Config, logger *zap.Logger) *Service {
	if cfg.VectorTopK <= 0 {
		cfg.VectorTopK = 5
	}
	if cfg.FallbackTopK <= 0 {
		cfg.FallbackTopK = 3
	}
	return &Service{embedder: e, repo: repo, cfg: cfg, logger: logger}
}

// Search returns up to TopK relevant entries, best first. It never returns
// an error: any failure on the vector path degrades to keyword scoring over
// the in-process entries, and an empty result is a valid answer.
func (s *Service) Search(ctx context.Context, query, language string) []domain.RetrievalResult {
	if results, ok := s.vectorSearch(ctx, query); ok {
		metrics.RetrievalSearchesTotal.WithLabelValues("vector").Inc()
		return results
	}

	metrics.RetrievalSearchesTotal.WithLabelValues("fallback").Inc()
	return s.keywordSearch(query, language)
}

func (s *Service) vectorSearch(ctx context.Context, query string) ([]domain.RetrievalResult, bool) {
	if s.embedder == nil || !s.repo.VectorMode() {
		return nil, false
	}

	if s.cfg.EmbedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.EmbedTimeout)
		defer cancel()
	}

	res, err := s.embedder.Embed(ctx, query)
	if err != nil || len(res.Embedding) == 0 {
		s.logger.Warn("query embedding failed, using keyword retrieval", zap.Error(err))
		return nil, false
	}

	results, err := s.repo.Search(ctx, res.Embedding, s.cfg.VectorTopK)
	if err != nil {
		s.logger.Warn("vector search failed, using keyword retrieval", zap.Error(err))
		return nil, false
	}
	return results, true
}

// keywordSearch scores the in-process entries against the lowercased query:
// +2 for a language match (+1 when the entry is English), +3 when the entry
// content contains the query, +2 per tag overlap, +4 per category keyword
// hit. Entries scoring zero are dropped; the rest are ranked and capped.
func (s *Service) keywordSearch(query, language string) []domain.RetrievalResult {
	q := strings.ToLower(query)

	type scored struct {
		entry domain.KnowledgeEntry
		score int
	}

	var hits []scored
	for _, entry := range s.repo.Fallback() {
		score := scoreEntry(entry, q, language)
		if score > 0 {
			hits = append(hits, scored{entry: entry, score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })
	if len(hits) > s.cfg.FallbackTopK {
		hits = hits[:s.cfg.FallbackTopK]
	}

	out := make([]domain.RetrievalResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, domain.RetrievalResult{
			Content:        h.entry.Content,
			Category:       h.entry.Category,
			Source:         "semantic_memory_search",
			RelevanceScore: relevanceFromScore(h.score),
		})
	}
	return out
}

func scoreEntry(entry domain.KnowledgeEntry, query, language string) int {
	var score int

	if entry.Language == language {
		score += 2
	} else if entry.Language == "en" {
		score++
	}

	if strings.Contains(strings.ToLower(entry.Content), query) {
		score += 3
	}

	for _, tag := range entry.Tags {
		t := strings.ToLower(tag)
		if strings.Contains(query, t) || strings.Contains(t, query) {
			score += 2
		}
	}

	for category, keywords := range categoryKeywords {
		if !strings.Contains(entry.Category, category) {
			continue
		}
		for _, kw := range keywords {
			if strings.Contains(query, kw) {
				score += 4
			}
		}
	}

	return score
}

// relevanceFromScore maps a raw keyword score onto [0.5, 0.9].
func relevanceFromScore(score int) float64 {
	r := 0.5 + 0.1*float64(score)
	if r > 0.9 {
		return 0.9
	}
	return r
}
