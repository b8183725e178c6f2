package service

import (
	"errors"
	"strings"
	"testing"
)

func TestExtractTextPlain(t *testing.T) {
	content := []byte("This is a plain text contract.")

	text, err := ExtractText(content, "text/plain")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "This is a plain text contract." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestExtractTextImagePlaceholder(t *testing.T) {
	for _, contentType := range []string{"image/jpeg", "image/png"} {
		text, err := ExtractText([]byte{0xFF, 0xD8}, contentType)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", contentType, err)
		}
		if text != ImagePlaceholder {
			t.Errorf("%s: expected placeholder, got %q", contentType, text)
		}
	}
}

func TestExtractTextInvalidPDF(t *testing.T) {
	_, err := ExtractText([]byte("definitely not a pdf"), "application/pdf")
	if err == nil {
		t.Fatal("Expected error for invalid PDF")
	}
	if !errors.Is(err, ErrExtraction) {
		t.Errorf("Expected ErrExtraction, got %v", err)
	}
}

func TestExtractTextEmptyBuffer(t *testing.T) {
	// Empty plain text extracts to an empty string; rejecting it is the
	// caller's job
	text, err := ExtractText(nil, "text/plain")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if strings.TrimSpace(text) != "" {
		t.Errorf("Expected empty result, got %q", text)
	}
}
