// Package resume turns uploaded resume documents into plain text and screens
// the extracted content against a role's skill requirements.
package resume

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// Extractor converts a resume document into plain text.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an extractor. A nil logger is replaced with a no-op one.
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// ExtractText returns the plain text of the document at path, dispatching on
// the file extension. Any failure, including an unsupported extension or a
// corrupt file, yields an empty string: a missing resume degrades the flow,
// it never aborts it.
func (e *Extractor) ExtractText(path string) string {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx":
		text, err = extractDOCX(path)
	case ".txt":
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	default:
		e.logger.Warn("unsupported resume format", zap.String("path", path))
		return ""
	}

	if err != nil {
		e.logger.Warn("reading resume", zap.String("path", path), zap.Error(err))
		return ""
	}

	return text
}

func extractPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not discard the rest.
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

func extractDOCX(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", err
	}

	doc, err := docx.Parse(file, info.Size())
	if err != nil {
		return "", err
	}

	var paragraphs []string
	for _, item := range doc.Document.Body.Items {
		if paragraph, ok := item.(*docx.Paragraph); ok {
			paragraphs = append(paragraphs, paragraph.String())
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
