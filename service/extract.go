package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ImagePlaceholder is returned for image uploads until OCR is wired in
const ImagePlaceholder = "[Image text extraction not implemented - please use PDF or paste text]"

// ExtractText converts an uploaded document buffer into plain text based on
// its declared content type. An empty or whitespace-only result must be
// treated as a failed extraction by the caller.
func ExtractText(content []byte, contentType string) (string, error) {
	switch {
	case contentType == "application/pdf":
		return extractPDF(content)
	case strings.HasPrefix(contentType, "image/"):
		// TODO: wire an OCR backend; the analyze handler accepts images so
		// users get a pointed message instead of a silent format rejection
		return ImagePlaceholder, nil
	default:
		return string(content), nil
	}
}

// extractPDF walks every page and concatenates its plain text. Pages that
// fail to parse are skipped; a document that fails to open is an extraction
// error.
func extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("%w: open PDF: %v", ErrExtraction, err)
	}

	var textBuilder strings.Builder

	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages may fail to parse; keep what we have
			continue
		}

		if text != "" {
			if textBuilder.Len() > 0 {
				textBuilder.WriteString("\n\n")
			}
			textBuilder.WriteString(text)
		}
	}

	return textBuilder.String(), nil
}
