package importer

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedUpload is returned for uploads that are neither PDF nor text.
var ErrUnsupportedUpload = errors.New("importer: unsupported upload type")

// ExtractPDFText returns the plain text of every page, one page per block.
func ExtractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var builder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

// TextFromUpload converts an uploaded document to ingredient text.
func TextFromUpload(data []byte, mime string) (string, error) {
	lower := strings.ToLower(mime)
	switch {
	case strings.Contains(lower, "pdf"):
		return ExtractPDFText(data)
	case strings.HasPrefix(lower, "text/"), strings.Contains(lower, "csv"):
		return string(data), nil
	default:
		return "", ErrUnsupportedUpload
	}
}

// MimeTypeFromName guesses a content type from a file extension.
func MimeTypeFromName(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".md":
		return "text/plain"
	case ".csv":
		return "text/csv"
	case ".pdf":
		return "application/pdf"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
