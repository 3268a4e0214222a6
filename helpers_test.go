package blogapi

import (
	"os"
	"path/filepath"
	"testing"
)

// writeEntry creates an entry folder under root at datePath/slug with a
// single markdown file holding body.
func writeEntry(t *testing.T, root, datePath, slug, body string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(datePath), slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("creating entry folder: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.md"), []byte(body), 0o644); err != nil {
		t.Fatalf("writing entry markdown: %v", err)
	}
	return dir
}

// discardLogger swallows scan diagnostics in tests that expect malformed
// entries.
type discardLogger struct{}

func (discardLogger) Warnf(string, ...interface{})  {}
func (discardLogger) Errorf(string, ...interface{}) {}
