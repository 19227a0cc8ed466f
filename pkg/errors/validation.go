package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}

// ValidateSlotName validates a capture slot name.
//
// Slot names are short identifiers such as "dom" or "server": letters,
// digits, dashes and underscores, at most 64 characters.
func ValidateSlotName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "slot name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "slot name too long (max 64 characters)")
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return New(ErrCodeInvalidInput, "slot name contains invalid character %q", r)
		}
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed artifact formats.
func ValidateFormat(format string, allowed ...string) error {
	if format == "" {
		return New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(allowed, format) {
		return New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(allowed, ", "))
	}
	return nil
}

// ValidateMode validates a capture render mode.
func ValidateMode(mode string) error {
	switch mode {
	case "local", "remote":
		return nil
	}
	return New(ErrCodeInvalidInput, "invalid mode %q (want local or remote)", mode)
}

// ValidatePath validates a local file path argument.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}
