package indexer

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// ExtractText pulls plain text out of a reference document by extension.
func ExtractText(fpath string) (string, error) {
	ext := strings.ToLower(path.Ext(fpath))
	switch ext {
	case ".txt":
		data, err := os.ReadFile(fpath)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".md", ".markdown":
		return extractTextFromMarkdown(fpath)
	case ".html", ".htm":
		data, err := os.ReadFile(fpath)
		if err != nil {
			return "", err
		}
		return extractTextFromHTML(data)
	case ".epub":
		return extractTextFromEpub(fpath)
	case ".pdf":
		return extractTextFromPdf(fpath)
	default:
		return "", fmt.Errorf("unsupported file format: %s", ext)
	}
}

func extractTextFromHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	// collapse whitespace runs left behind by removed markup
	return strings.Join(strings.Fields(doc.Text()), " "), nil
}

func extractTextFromMarkdown(fpath string) (string, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return "", err
	}
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var buf bytes.Buffer
	if err := md.Convert(data, &buf); err != nil {
		return "", err
	}
	return extractTextFromHTML(buf.Bytes())
}

func extractTextFromEpub(fpath string) (string, error) {
	r, err := zip.OpenReader(fpath)
	if err != nil {
		return "", fmt.Errorf("failed to open epub: %w", err)
	}
	defer r.Close()
	var sb strings.Builder
	for _, f := range r.File {
		ext := strings.ToLower(path.Ext(f.Name))
		if ext != ".xhtml" && ext != ".html" && ext != ".htm" {
			continue
		}
		nameLower := strings.ToLower(f.Name)
		// navigation files carry no book content
		if strings.Contains(nameLower, "toc") || strings.Contains(nameLower, "nav") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		data, readErr := io.ReadAll(rc)
		rc.Close()
		if readErr != nil {
			continue
		}
		text, err := extractTextFromHTML(data)
		if err != nil || text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}
	if sb.Len() == 0 {
		return "", errors.New("no content extracted from epub")
	}
	return sb.String(), nil
}

func extractTextFromPdf(fpath string) (string, error) {
	df, r, err := pdf.Open(fpath)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer df.Close()
	textReader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from pdf: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, textReader); err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return buf.String(), nil
}
