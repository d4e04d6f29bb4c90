package domain

// EvidenceItem is a view over a retrieved chunk plus its resolved source
// attribution. It is produced transiently during retrieval and never
// persisted on its own.
type EvidenceItem struct {
	// SourceID identifies the originating document.
	SourceID string

	// Page is the chunk's page within the source.
	Page int

	// Snippet is the short excerpt stored alongside the chunk metadata.
	Snippet string

	// DocumentText is the full chunk text shown to the model.
	DocumentText string
}

// Key returns the deduplication key for this evidence item.
// Two items with the same key refer to the same physical chunk.
func (e EvidenceItem) Key() string {
	return ChunkID(e.SourceID, e.Page)
}

// GeneratedSection is the synthesised output for a single requested section.
type GeneratedSection struct {
	// Title is the section label exactly as requested by the caller.
	Title string

	// Text is the generated prose, carrying inline [source:page] markers.
	Text string

	// Citations is the full evidence list that was shown to the model.
	// It is deliberately the superset of what the text actually cites,
	// preserving traceability for preview and export.
	Citations []EvidenceItem

	// Failed marks a section whose model call did not succeed.
	// The Text then holds a labelled placeholder, not generated prose.
	Failed bool
}

// Report is the assembled set of generated sections.
// Reports live only in the in-memory report cache: the ID is the sole
// handle for preview and export, and nothing survives a process restart.
type Report struct {
	// ID is an opaque UUID assigned when the report is stored.
	ID string

	// Sections are the generated sections, in the order requested.
	Sections []GeneratedSection
}

// IndexStatus reports the health of the embedding index.
type IndexStatus struct {
	// DocumentCount is the number of chunks currently indexed.
	DocumentCount int

	// Healthy is false when the underlying storage could not be read.
	Healthy bool
}
