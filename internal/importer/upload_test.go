package importer

import (
	"errors"
	"testing"
)

func TestTextFromUpload(t *testing.T) {
	t.Parallel()

	text, err := TextFromUpload([]byte("2 kg Onion"), "text/plain; charset=utf-8")
	if err != nil || text != "2 kg Onion" {
		t.Fatalf("TextFromUpload(text) = %q, %v", text, err)
	}

	if _, err := TextFromUpload([]byte{0x89, 0x50}, "image/png"); !errors.Is(err, ErrUnsupportedUpload) {
		t.Fatalf("TextFromUpload(png) error = %v, want ErrUnsupportedUpload", err)
	}

	if _, err := TextFromUpload([]byte("not a pdf"), "application/pdf"); err == nil {
		t.Fatalf("TextFromUpload(bad pdf) error = nil, want error")
	}
}

func TestMimeTypeFromName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"menu.PDF":    "application/pdf",
		"notes.txt":   "text/plain",
		"recipes.csv": "text/csv",
		"photo.heic":  "application/octet-stream",
	}
	for name, want := range tests {
		if got := MimeTypeFromName(name); got != want {
			t.Fatalf("MimeTypeFromName(%q) = %q, want %q", name, got, want)
		}
	}
}
