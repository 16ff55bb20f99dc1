package domain

// KeyPrefix namespaces every Redis key written by this service.
const KeyPrefix = "samvaad:"

// DefaultVectorDimensions is the embedding dimensionality used when the
// config does not override it. Matches the MiniLM-class encoders the
// knowledge base was sized for; the hash fallback produces the same width.
const DefaultVectorDimensions = 384
