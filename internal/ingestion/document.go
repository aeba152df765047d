// Package ingestion turns uploaded documents and job-posting URLs into plain text.
package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// SupportedExtensions lists the document types ExtractText accepts.
var SupportedExtensions = []string{".pdf", ".docx", ".txt"}

// ErrUnsupportedFileType is matched by UnsupportedFileTypeError.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// UnsupportedFileTypeError reports an upload whose extension is not PDF, DOCX or TXT.
type UnsupportedFileTypeError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFileTypeError) Error() string {
	return fmt.Sprintf("unsupported file type %q for %s: upload PDF, DOCX, or TXT", e.Extension, e.Filename)
}

// Is makes errors.Is(err, ErrUnsupportedFileType) succeed.
func (e *UnsupportedFileTypeError) Is(target error) bool {
	return target == ErrUnsupportedFileType
}

// ExtractionError reports a document that could not be parsed.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %s text: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

var (
	longWhitespace = regexp.MustCompile(`\s{3,}`)
	manyNewlines   = regexp.MustCompile(`\n{3,}`)
	paragraphEnd   = regexp.MustCompile(`</w:p>|<w:br/>|<w:tab/>`)
	xmlTag         = regexp.MustCompile(`<[^>]+>`)
)

// ExtractText returns the text of a .pdf, .docx or .txt document, chosen by
// the filename extension.
func ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return extractPDFText(data)
	case ".docx":
		return extractDocxText(data)
	case ".txt":
		return string(data), nil
	default:
		return "", &UnsupportedFileTypeError{Filename: filename, Extension: ext}
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "pdf", Cause: err}
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Format: "pdf", Cause: fmt.Errorf("page %d: %w", i, err)}
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return strings.TrimSpace(longWhitespace.ReplaceAllString(sb.String(), " ")), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: "docx", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	return docxPlainText(doc.Editable().GetContent()), nil
}

// docxPlainText converts WordprocessingML into plain text, one paragraph per line.
func docxPlainText(xml string) string {
	text := paragraphEnd.ReplaceAllString(xml, "\n")
	text = xmlTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = longWhitespace.ReplaceAllString(text, " ")
	text = manyNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
