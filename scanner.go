package blogapi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Logger is the subset of echo's logger interface the index engine uses.
// Both echo.Logger and gommon's *log.Logger satisfy it.
type Logger interface {
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// FingerprintFunc computes a staleness fingerprint for a content root.
// Swappable in tests to drive the cache with controlled fingerprints.
type FingerprintFunc func(root string) (string, error)

// entryRef is a candidate entry folder discovered at the expected
// year/month/day/slug depth.
type entryRef struct {
	dir      string // absolute folder path
	id       string // path relative to root, slash-separated
	datePath string // year/month/day prefix of id
	slug     string // final path segment
}

// discoverEntries enumerates candidate entry folders at the fixed nesting
// depth. Folders that don't match the shape are skipped, not errors; an
// unreadable root is an error so the caller can keep serving the previous
// index. Year folders must be numeric (matching the tree convention);
// month and day folder names are not validated as calendar values.
func discoverEntries(root string) ([]entryRef, error) {
	years, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("reading content root: %w", err)
	}
	var refs []entryRef
	for _, year := range years {
		if !year.IsDir() || !isNumeric(year.Name()) {
			continue
		}
		months, err := os.ReadDir(filepath.Join(root, year.Name()))
		if err != nil {
			continue // folder vanished mid-scan
		}
		for _, month := range months {
			if !month.IsDir() {
				continue
			}
			days, err := os.ReadDir(filepath.Join(root, year.Name(), month.Name()))
			if err != nil {
				continue
			}
			for _, day := range days {
				if !day.IsDir() {
					continue
				}
				datePath := path.Join(year.Name(), month.Name(), day.Name())
				slugs, err := os.ReadDir(filepath.Join(root, datePath))
				if err != nil {
					continue
				}
				for _, slug := range slugs {
					if !slug.IsDir() {
						continue
					}
					refs = append(refs, entryRef{
						dir:      filepath.Join(root, datePath, slug.Name()),
						id:       path.Join(datePath, slug.Name()),
						datePath: datePath,
						slug:     slug.Name(),
					})
				}
			}
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].id < refs[j].id })
	return refs, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ContentFingerprint hashes the set of entry folders together with the
// names, sizes and modification times of the files inside them. It detects
// additions, removals and in-place edits without reading any file contents.
func ContentFingerprint(root string) (string, error) {
	refs, err := discoverEntries(root)
	if err != nil {
		return "", err
	}
	var lines []string
	for _, ref := range refs {
		files, err := os.ReadDir(ref.dir)
		if err != nil {
			lines = append(lines, ref.id+"|unreadable")
			continue
		}
		for _, f := range files {
			info, err := f.Info()
			if err != nil {
				continue
			}
			lines = append(lines, strings.Join([]string{
				ref.id,
				f.Name(),
				strconv.FormatInt(info.ModTime().UnixNano(), 10),
				strconv.FormatInt(info.Size(), 10),
			}, "|"))
		}
	}
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:]), nil
}

// buildIndex performs a full scan of the content root and assembles a new
// immutable Index. Malformed entries are logged and excluded; only an
// unreadable root fails the whole build.
func buildIndex(root string, fingerprint FingerprintFunc, lg Logger) (*Index, error) {
	fp, err := fingerprint(root)
	if err != nil {
		return nil, err
	}
	refs, err := discoverEntries(root)
	if err != nil {
		return nil, err
	}

	ix := &Index{
		byID:        make(map[string]PostDetail, len(refs)),
		Fingerprint: fp,
		BuiltAt:     time.Now(),
	}
	tagCounts := make(map[string]int)

	for _, ref := range refs {
		detail, err := parseEntry(ref.dir, ref.id, ref.datePath, ref.slug)
		if err != nil {
			lg.Warnf("skipping malformed entry %s: %v", ref.id, err)
			ix.Skipped = append(ix.Skipped, ref.id)
			continue
		}
		ix.byID[detail.ID] = detail
		ix.Summaries = append(ix.Summaries, PostSummary{
			ID:       detail.ID,
			Title:    detail.Title,
			DatePath: detail.DatePath,
			Tags:     detail.Tags,
		})
		for _, t := range detail.Tags {
			tagCounts[t]++
		}
	}

	// Newest date_path first, lexicographic; ids break ties.
	sort.Slice(ix.Summaries, func(i, j int) bool {
		a, b := ix.Summaries[i], ix.Summaries[j]
		if a.DatePath != b.DatePath {
			return a.DatePath > b.DatePath
		}
		return a.ID < b.ID
	})

	ix.TagCounts = make([]TagCount, 0, len(tagCounts))
	for tag, n := range tagCounts {
		ix.TagCounts = append(ix.TagCounts, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(ix.TagCounts, func(i, j int) bool {
		a, b := ix.TagCounts[i], ix.TagCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Tag < b.Tag
	})

	return ix, nil
}
