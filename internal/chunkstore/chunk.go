package chunkstore

// Chunk is an addressable unit of extracted page content. Chunks are
// immutable once produced; retrieval results reference them rather than
// copying.
type Chunk struct {
	ID       string
	Text     string
	Metadata ChunkMetadata
}

// ChunkMetadata holds structured information about a chunk's origin.
type ChunkMetadata struct {
	// PageURL identifies the page (or snapshot file) the chunk came from.
	PageURL string
	// HeadingPath is the ordered heading trail leading to this chunk,
	// outermost first.
	HeadingPath []string
	// RawText is the chunk text before any normalization.
	RawText string
	// Position is the chunk's insertion order within its page. Retrieval
	// uses it as the stable tie-break for equal scores.
	Position int
}

// Match pairs a chunk with its similarity to a query.
type Match struct {
	Chunk      *Chunk
	Similarity float32
}
