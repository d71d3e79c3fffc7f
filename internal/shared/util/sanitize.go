package util

import (
	"errors"
	"strings"
)

const maxFileNameLen = 255

var errInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes an uploaded file name safe to use inside a storage
// key. Traversal patterns are rejected outright; separators and control
// characters are replaced, and overlong names are truncated.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errInvalidFileName
	}
	s := strings.TrimSpace(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case r < 0x20 || r == 0x7f:
			return '_'
		}
		return r
	}, s)
	if s == "" {
		return "", errInvalidFileName
	}
	if len(s) > maxFileNameLen {
		s = s[len(s)-maxFileNameLen:]
	}
	return s, nil
}
