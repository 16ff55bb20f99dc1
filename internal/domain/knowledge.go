package domain

// KnowledgeEntry is one unit of curated advice text. Entries are loaded once
// at startup from the static catalog and never mutated afterwards.
type KnowledgeEntry struct {
	ID       string
	Content  string
	Category string
	Language string
	Tags     []string
	Source   string
	Vector   []float32
}

// RetrievalResult is a ranked knowledge hit produced per query. It feeds
// prompt assembly and is discarded after the turn; never persisted.
type RetrievalResult struct {
	Content        string
	Category       string
	Source         string
	RelevanceScore float64
}
