// Package pdftext decodes uploaded documents into raw text for extraction.
// PDF files go through github.com/ledongthuc/pdf; plain text files pass
// through after a UTF-8 check.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrNotPDF is returned when the data does not start with the PDF magic.
	ErrNotPDF = errors.New("not a PDF document")
	// ErrNotUTF8 is returned for text files that are not valid UTF-8.
	ErrNotUTF8 = errors.New("text is not valid UTF-8")
	// ErrUnsupported is returned by ForFile for unknown extensions.
	ErrUnsupported = errors.New("unsupported file type")
)

// Decoder turns the bytes of a document into page-concatenated text.
type Decoder interface {
	Decode(data []byte) (string, error)
}

// ValidatePDF reports whether data starts with the "%PDF-" magic.
func ValidatePDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}

// PDFDecoder extracts the plain text of every page. Pages that fail to
// decode are skipped and logged.
type PDFDecoder struct {
	Logger *slog.Logger
}

// Decode implements Decoder. The pdf package panics on some malformed
// inputs; those panics are returned as errors.
func (d PDFDecoder) Decode(data []byte) (text string, err error) {
	if !ValidatePDF(data) {
		return "", ErrNotPDF
	}
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var out strings.Builder
	skipped := 0
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			skipped++
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("failed to extract page text", "page", i, "error", err)
			skipped++
			continue
		}
		out.WriteString(pageText)
		out.WriteString("\n")
	}

	if skipped > 0 {
		logger.Debug("pdf pages skipped", "pages", pages, "skipped", skipped)
	}
	if pages > 0 && skipped == pages {
		return "", fmt.Errorf("failed to extract text from any of %d pages", pages)
	}
	return out.String(), nil
}

// TextDecoder passes UTF-8 text through unchanged.
type TextDecoder struct{}

// Decode implements Decoder.
func (TextDecoder) Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", ErrNotUTF8
	}
	return string(data), nil
}

// Decoders maps lower case file extensions to decoders.
type Decoders map[string]Decoder

// DefaultDecoders handles .pdf and .txt files.
func DefaultDecoders(logger *slog.Logger) Decoders {
	return Decoders{
		".pdf": PDFDecoder{Logger: logger},
		".txt": TextDecoder{},
	}
}

// ForFile picks the decoder for a filename by extension.
func (ds Decoders) ForFile(name string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if d, ok := ds[ext]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
}

// ForFile picks a default decoder for a filename by extension.
func ForFile(name string) (Decoder, error) {
	return DefaultDecoders(nil).ForFile(name)
}

// Decode decodes named data with the matching decoder.
func (ds Decoders) Decode(name string, data []byte) (string, error) {
	d, err := ds.ForFile(name)
	if err != nil {
		return "", err
	}
	text, err := d.Decode(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", filepath.Base(name), err)
	}
	return text, nil
}

// DecodeFile reads and decodes a file from disk.
func (ds Decoders) DecodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ds.Decode(path, data)
}
