package submissions

import (
	"errors"
	"testing"
)

func TestParseModalityAliases(t *testing.T) {
	cases := []struct {
		raw  string
		want Modality
	}{
		{"text", ModalityText},
		{"Text", ModalityText},
		{" url ", ModalityURL},
		{"image", ModalityImage},
		{"audio", ModalityAudio},
		{"voice", ModalityAudio},
		{"video", ModalityVideo},
	}
	for _, tc := range cases {
		got, err := ParseModality(tc.raw)
		if err != nil {
			t.Fatalf("ParseModality(%q): %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseModality(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}

	if _, err := ParseModality("hologram"); !errors.Is(err, ErrUnknownModality) {
		t.Fatalf("expected ErrUnknownModality, got %v", err)
	}
}

func TestNormalizeTextPayload(t *testing.T) {
	payload, err := NormalizePayload(ModalityText, RawInput{Text: "  some claim  "})
	if err != nil {
		t.Fatalf("NormalizePayload: %v", err)
	}
	if payload.TextContent != "some claim" {
		t.Fatalf("expected trimmed text, got %q", payload.TextContent)
	}
	if payload.URLContent != "" || payload.File != nil {
		t.Fatal("expected only text content to be populated")
	}

	if _, err := NormalizePayload(ModalityText, RawInput{Text: "   \n\t "}); !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestNormalizeURLPayload(t *testing.T) {
	payload, err := NormalizePayload(ModalityURL, RawInput{URL: "https://example.com/article"})
	if err != nil {
		t.Fatalf("NormalizePayload: %v", err)
	}
	if payload.URLContent != "https://example.com/article" {
		t.Fatalf("unexpected url content %q", payload.URLContent)
	}

	bad := []string{"", "   ", "not a url", "example.com/no-scheme", "ftp://example.com/file", "https://"}
	for _, raw := range bad {
		if _, err := NormalizePayload(ModalityURL, RawInput{URL: raw}); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("NormalizePayload(%q): expected ErrInvalidURL, got %v", raw, err)
		}
	}
}

func TestNormalizeFilePayload(t *testing.T) {
	ref := &FileRef{StorageKey: "key-1", FileName: "clip.mp4", MimeType: "video/mp4", SizeBytes: 2048}
	payload, err := NormalizePayload(ModalityVideo, RawInput{File: ref})
	if err != nil {
		t.Fatalf("NormalizePayload: %v", err)
	}
	if payload.File == nil || payload.File.StorageKey != "key-1" {
		t.Fatal("expected file ref to be carried through")
	}
	if payload.File == ref {
		t.Fatal("expected a copied file ref, not the caller's pointer")
	}

	if _, err := NormalizePayload(ModalityAudio, RawInput{}); !errors.Is(err, ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}

	mismatch := &FileRef{StorageKey: "key-2", FileName: "photo.png", MimeType: "image/png"}
	if _, err := NormalizePayload(ModalityAudio, RawInput{File: mismatch}); !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("expected ErrUnsupportedMediaType, got %v", err)
	}
}

func TestDisplayContent(t *testing.T) {
	text, _ := NormalizePayload(ModalityText, RawInput{Text: "claim"})
	if text.DisplayContent() != "claim" {
		t.Fatalf("unexpected display content %q", text.DisplayContent())
	}

	file, _ := NormalizePayload(ModalityImage, RawInput{File: &FileRef{StorageKey: "k", FileName: "shot.png", MimeType: "image/png"}})
	if file.DisplayContent() != "shot.png" {
		t.Fatalf("unexpected display content %q", file.DisplayContent())
	}
}
