package indexer

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cardsmith/config"
)

func testIndexer() *Indexer {
	return &Indexer{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		cfg:    &config.Config{WordLimit: 10, IndexWorkers: 2, IndexBatch: 4},
	}
}

func TestChunkTextRespectsWordLimit(t *testing.T) {
	text := strings.Repeat("The archive holds many maps. ", 20)
	chunks, err := testIndexer().chunkText(text)
	if err != nil {
		t.Fatalf("chunkText() error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		// limit is a soft target: one sentence may push past it
		if words := wordCounter(c); words > 20 {
			t.Errorf("chunk %d has %d words", i, words)
		}
	}
}

func TestExtractTextFormats(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		fpath := filepath.Join(dir, name)
		if err := os.WriteFile(fpath, []byte(content), 0666); err != nil {
			t.Fatal(err)
		}
		return fpath
	}
	txt, err := ExtractText(write("a.txt", "plain text content"))
	if err != nil || txt != "plain text content" {
		t.Errorf("txt: %q, %v", txt, err)
	}
	md, err := ExtractText(write("b.md", "# Title\n\nSome *emphasized* prose."))
	if err != nil {
		t.Fatalf("md: %v", err)
	}
	if !strings.Contains(md, "Some emphasized prose.") || strings.Contains(md, "*") {
		t.Errorf("markdown not flattened: %q", md)
	}
	html, err := ExtractText(write("c.html",
		`<html><head><style>p{color:red}</style></head><body><p>visible</p><script>var x=1;</script></body></html>`))
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if html != "visible" {
		t.Errorf("html text = %q", html)
	}
	if _, err := ExtractText(write("d.docx", "binary")); err == nil {
		t.Error("unsupported format did not error")
	}
}
