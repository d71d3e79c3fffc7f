package submissions

import (
	"net/url"
	"strings"
)

// FileRef is an opaque reference to stored binary content plus its declared
// MIME type. The normalizer never touches the bytes themselves.
type FileRef struct {
	StorageKey string `json:"storageKey"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// RawInput is the unvalidated user input for one submission.
type RawInput struct {
	Text string
	URL  string
	File *FileRef
}

// SubmissionPayload is the normalized unit of work handed to the analysis
// workflow. Exactly one of TextContent, URLContent, and File is populated,
// consistent with Modality. Construct exclusively via NormalizePayload and
// treat as immutable afterwards.
type SubmissionPayload struct {
	Modality    Modality `json:"modality"`
	TextContent string   `json:"textContent,omitempty"`
	URLContent  string   `json:"urlContent,omitempty"`
	File        *FileRef `json:"file,omitempty"`
}

// NormalizePayload validates raw user input for the given modality and
// produces the single normalized payload shape. It is a pure function: no
// side effects, no IO.
func NormalizePayload(modality Modality, raw RawInput) (SubmissionPayload, error) {
	switch modality {
	case ModalityText:
		text := strings.TrimSpace(raw.Text)
		if text == "" {
			return SubmissionPayload{}, ErrEmptyInput
		}
		return SubmissionPayload{Modality: modality, TextContent: text}, nil

	case ModalityURL:
		rawURL := strings.TrimSpace(raw.URL)
		if rawURL == "" {
			return SubmissionPayload{}, ErrInvalidURL
		}
		parsed, err := url.Parse(rawURL)
		if err != nil || parsed.Host == "" {
			return SubmissionPayload{}, ErrInvalidURL
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return SubmissionPayload{}, ErrInvalidURL
		}
		return SubmissionPayload{Modality: modality, URLContent: rawURL}, nil

	case ModalityImage, ModalityAudio, ModalityVideo:
		// A nil ref also covers the record-then-submit flow where no
		// recording was ever made and no file attached.
		if raw.File == nil {
			return SubmissionPayload{}, ErrMissingFile
		}
		if !modality.AcceptsMime(raw.File.MimeType) {
			return SubmissionPayload{}, ErrUnsupportedMediaType
		}
		ref := *raw.File
		return SubmissionPayload{Modality: modality, File: &ref}, nil

	default:
		return SubmissionPayload{}, ErrUnknownModality
	}
}

// DisplayContent returns the short human-readable form of the payload for
// report display and audit.
func (p SubmissionPayload) DisplayContent() string {
	switch p.Modality {
	case ModalityText:
		return p.TextContent
	case ModalityURL:
		return p.URLContent
	default:
		if p.File != nil {
			return p.File.FileName
		}
		return ""
	}
}
