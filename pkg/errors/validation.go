package errors

import (
	"strings"
	"unicode"
)

// ValidateTargetName validates a target name for safety and correctness.
// Target names are slash-prefixed paths within a project (e.g., "/contacts"
// or "/lib/desktop"). It rejects names that could be used for path traversal
// or injection.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - Must start with "/"
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - Maximum length of 256 characters
func ValidateTargetName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidTarget, "target name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidTarget, "target name too long (max 256 characters)")
	}

	if !strings.HasPrefix(name, "/") {
		return New(ErrCodeInvalidTarget, "target name must start with '/': %q", name)
	}

	// Check for control characters and null bytes
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTarget, "target name contains invalid control characters")
		}
	}

	// Check for path traversal patterns
	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidTarget, "target name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateFilename validates a project-relative entry filename.
// Filenames are forward-slash relative paths (e.g., "source/views/list.js").
// The same traversal rules apply as for target names, but a leading slash
// is rejected instead of required.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(filename) > 1024 {
		return New(ErrCodeInvalidFilename, "filename too long (max 1024 characters)")
	}

	if strings.HasPrefix(filename, "/") {
		return New(ErrCodeInvalidFilename, "filename must be relative: %q", filename)
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}

	dangerousPatterns := []string{"..", "//", "\x00", "\\"}
	for _, pattern := range dangerousPatterns {
		if strings.Contains(filename, pattern) {
			return New(ErrCodeInvalidFilename, "filename contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// ValidateLanguage validates a language code (e.g., "en", "fr", "en-US").
func ValidateLanguage(lang string) error {
	if lang == "" {
		return New(ErrCodeInvalidLanguage, "language cannot be empty")
	}
	if len(lang) > 16 {
		return New(ErrCodeInvalidLanguage, "language code too long: %q", lang)
	}
	for _, r := range lang {
		if !unicode.IsLetter(r) && r != '-' && r != '_' {
			return New(ErrCodeInvalidLanguage, "language contains invalid character %q", r)
		}
	}
	return nil
}
