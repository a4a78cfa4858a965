package errors

import (
	"regexp"
	"unicode"
)

// ValidateModuleName validates a module name.
//
// Module names are free-form labels shown in tab bars and used as map keys
// in the serialized graph, so the rules only reject what would break those:
//   - No empty names
//   - No control characters
//   - Maximum length of 128 characters
func ValidateModuleName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "module name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "module name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "module name contains invalid control characters")
		}
	}

	return nil
}

// portNameRegex matches input_<k> and output_<k> with k >= 1.
var portNameRegex = regexp.MustCompile(`^(input|output)_[1-9][0-9]*$`)

// ValidatePortName validates a port name against the input_<k>/output_<k>
// convention.
func ValidatePortName(name string) error {
	if !portNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid port name: %q", name)
	}
	return nil
}

// ValidatePath validates a local graph file path. Relative paths, including
// ones that climb out of the working directory, are accepted.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
