package submissions

import "strings"

// Modality is the kind of content submitted for analysis.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
	ModalityAudio Modality = "audio"
	ModalityVideo Modality = "video"
	ModalityURL   Modality = "url"
)

// ParseModality maps a client-provided modality string onto a known variant.
// "voice" is accepted as an alias for audio to match the capture workflow.
func ParseModality(raw string) (Modality, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "text":
		return ModalityText, nil
	case "image":
		return ModalityImage, nil
	case "audio", "voice":
		return ModalityAudio, nil
	case "video":
		return ModalityVideo, nil
	case "url":
		return ModalityURL, nil
	default:
		return "", ErrUnknownModality
	}
}

// RequiresFile reports whether the modality carries binary content.
func (m Modality) RequiresFile() bool {
	switch m {
	case ModalityImage, ModalityAudio, ModalityVideo:
		return true
	default:
		return false
	}
}

// AcceptsMime reports whether the declared MIME type's top-level category
// matches the modality's accepted set.
func (m Modality) AcceptsMime(mimeType string) bool {
	category, _, _ := strings.Cut(strings.TrimSpace(mimeType), "/")
	switch m {
	case ModalityImage:
		return category == "image"
	case ModalityAudio:
		return category == "audio"
	case ModalityVideo:
		return category == "video"
	default:
		return false
	}
}
