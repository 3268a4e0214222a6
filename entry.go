package blogapi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/frontmatter"
)

// Malformed-entry conditions. These abort the single entry, never the scan.
var (
	errNoMarkdown       = errors.New("no markdown file in entry folder")
	errMultipleMarkdown = errors.New("multiple markdown files in entry folder")
)

// entryMeta is the optional YAML frontmatter of an entry. When present,
// Title overrides the heading rule and Tags are merged with body hashtags.
type entryMeta struct {
	Title string   `yaml:"title"`
	Tags  []string `yaml:"tags"`
}

var reHashtag = regexp.MustCompile(`#([\pL\pN-]+)`)

// findMarkdownFile locates the single .md file in an entry folder.
// Zero or more than one markdown file is a malformed entry.
func findMarkdownFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading entry folder: %w", err)
	}
	var found []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			found = append(found, e.Name())
		}
	}
	switch len(found) {
	case 0:
		return "", errNoMarkdown
	case 1:
		return filepath.Join(dir, found[0]), nil
	default:
		return "", errMultipleMarkdown
	}
}

// parseEntry reads one entry folder and returns the full post detail.
// id is the folder's path relative to the content root, datePath its
// year/month/day prefix and slug the final path segment.
func parseEntry(dir, id, datePath, slug string) (PostDetail, error) {
	mdPath, err := findMarkdownFile(dir)
	if err != nil {
		return PostDetail{}, err
	}
	raw, err := os.ReadFile(mdPath)
	if err != nil {
		return PostDetail{}, fmt.Errorf("reading %s: %w", filepath.Base(mdPath), err)
	}

	var meta entryMeta
	body, err := frontmatter.Parse(bytes.NewReader(raw), &meta)
	if err != nil {
		// Broken frontmatter block: treat the whole file as plain markdown.
		body = raw
		meta = entryMeta{}
	}

	title := meta.Title
	if title == "" {
		title = extractTitle(string(body), titleFromSlug(slug))
	}

	tags := extractHashtags(string(body))
	for _, t := range meta.Tags {
		tags = append(tags, strings.ToLower(strings.TrimSpace(t)))
	}
	tags = dedupeTags(tags)

	return PostDetail{
		ID:       id,
		Title:    title,
		DatePath: datePath,
		Tags:     tags,
		Markdown: string(body),
	}, nil
}

// extractTitle returns the text of a leading "# " heading. Only the first
// non-empty line counts; anything else falls back to the slug-derived title.
func extractTitle(md, fallback string) string {
	for _, line := range strings.Split(md, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "# ") {
			if t := strings.TrimSpace(stripped[2:]); t != "" {
				return t
			}
			return fallback
		}
		if stripped != "" {
			break
		}
	}
	return fallback
}

// titleFromSlug turns "my-first-post" into "My First Post".
func titleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// extractHashtags collects #tag tokens from the body. A tag is "#" followed
// by letters, digits and hyphens; a space always terminates it, so
// "#this is fine" yields only "this". Tags are lowercased.
func extractHashtags(md string) []string {
	var tags []string
	for _, m := range reHashtag.FindAllStringSubmatch(md, -1) {
		tags = append(tags, strings.ToLower(m[1]))
	}
	return tags
}

// dedupeTags collapses duplicates and empties; output is sorted so the tag
// set is deterministic regardless of where tags appeared in the body.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags)) // non-nil so untagged posts serialize as []
	for _, t := range tags {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
