// Package formdata writes multipart parts that keep the caller's declared
// file name and content type, which multipart.Writer.CreateFormFile does not.
package formdata

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

const defaultContentType = "application/octet-stream"

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// CreateFilePart starts a file part. An empty content type falls back to
// application/octet-stream.
func CreateFilePart(w *multipart.Writer, field, fileName, contentType string) (io.Writer, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(field), escapeQuotes(fileName)))
	h.Set("Content-Type", contentType)
	return w.CreatePart(h)
}

// CopyFilePart writes a complete file part from r.
func CopyFilePart(w *multipart.Writer, field, fileName, contentType string, r io.Reader) (int64, error) {
	part, err := CreateFilePart(w, field, fileName, contentType)
	if err != nil {
		return 0, fmt.Errorf("failed to create part %s: %w", field, err)
	}
	n, err := io.Copy(part, r)
	if err != nil {
		return n, fmt.Errorf("failed to write part %s: %w", field, err)
	}
	return n, nil
}
