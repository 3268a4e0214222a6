package blogapi

import "strings"

// ListPosts returns post summaries in listing order plus the aggregated tag
// counts. If tag is non-empty, summaries are filtered to posts carrying it;
// the tag counts always cover the whole index.
func (c *IndexCache) ListPosts(tag string) ([]PostSummary, []TagCount, error) {
	ix, err := c.Get()
	if err != nil {
		return nil, nil, err
	}
	if tag == "" {
		return ix.Summaries, ix.TagCounts, nil
	}
	normalized := normalizeTag(tag)
	var filtered []PostSummary
	for _, p := range ix.Summaries {
		for _, t := range p.Tags {
			if t == normalized {
				filtered = append(filtered, p)
				break
			}
		}
	}
	return filtered, ix.TagCounts, nil
}

// GetPost returns the full detail for an exact id match, or ErrNotFound if
// the id is absent from the current index.
func (c *IndexCache) GetPost(id string) (PostDetail, error) {
	ix, err := c.Get()
	if err != nil {
		return PostDetail{}, err
	}
	detail, ok := ix.Lookup(id)
	if !ok {
		return PostDetail{}, ErrNotFound
	}
	return detail, nil
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
