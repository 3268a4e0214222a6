package blogapi

import "time"

// PostSummary is the listing view of an entry: everything except the body.
type PostSummary struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	DatePath string   `json:"date_path"`
	Tags     []string `json:"tags"`
}

// PostDetail is the single-post view, including the raw markdown body.
// The body is returned unmodified; rendering is the frontend's job.
type PostDetail struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	DatePath string   `json:"date_path"`
	Tags     []string `json:"tags"`
	Markdown string   `json:"markdown"`
}

// TagCount is one row of the aggregated tag listing.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Index is an immutable snapshot of the content tree. A rebuild produces a
// brand-new Index that replaces the old one wholesale; entries are never
// mutated in place.
type Index struct {
	// Summaries is ordered newest date_path first (lexicographic descending,
	// ties broken by ascending id). No calendar semantics are inferred from
	// the folder names.
	Summaries []PostSummary
	// TagCounts is ordered by descending count, then tag name.
	TagCounts []TagCount

	// Skipped lists the malformed entry folders excluded from this
	// snapshot, for diagnostics only; it never surfaces in API responses.
	Skipped []string

	byID        map[string]PostDetail
	Fingerprint string
	BuiltAt     time.Time
}

// Lookup returns the full detail for id, if present in this snapshot.
func (ix *Index) Lookup(id string) (PostDetail, bool) {
	d, ok := ix.byID[id]
	return d, ok
}

// Len returns the number of entries in the snapshot.
func (ix *Index) Len() int {
	return len(ix.Summaries)
}
