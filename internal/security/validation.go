package security

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// ValidEnvNameRegex allows the names Windows and POSIX shells both accept
	ValidEnvNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// ValidClassNameRegex matches a fully qualified class name
	ValidClassNameRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

	// ValidPropertyRegex matches a system property key passed with -D
	ValidPropertyRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

// ValidateGlob checks a manifest pattern: relative, no parent segments,
// well-formed glob syntax
func ValidateGlob(pattern string) error {
	if pattern == "" {
		return fmt.Errorf("glob cannot be empty")
	}

	if err := ValidatePath(pattern); err != nil {
		return err
	}

	native := filepath.FromSlash(pattern)
	if filepath.IsAbs(native) || filepath.VolumeName(native) != "" || strings.HasPrefix(pattern, "/") {
		return fmt.Errorf("glob must be relative: %s", pattern)
	}

	for _, part := range strings.FieldsFunc(pattern, isSlash) {
		if part == ".." {
			return fmt.Errorf("glob contains ..: %s", pattern)
		}
	}

	if _, err := filepath.Match(native, ""); err != nil {
		return fmt.Errorf("invalid glob %s: %w", pattern, err)
	}

	return nil
}

// ValidateEnvironmentVariable validates an environment variable name
func ValidateEnvironmentVariable(name string) error {
	if name == "" {
		return fmt.Errorf("environment variable name cannot be empty")
	}

	if !ValidEnvNameRegex.MatchString(name) {
		return fmt.Errorf("invalid environment variable name: %s", name)
	}

	return nil
}

// ValidateClassName validates the entry point class
func ValidateClassName(name string) error {
	if !ValidClassNameRegex.MatchString(name) {
		return fmt.Errorf("invalid class name: %q", name)
	}
	return nil
}

// ValidateProperty validates a -D property key
func ValidateProperty(key string) error {
	if !ValidPropertyRegex.MatchString(key) {
		return fmt.Errorf("invalid property name: %q", key)
	}
	return nil
}

func isSlash(r rune) bool {
	return r == '/' || r == '\\'
}
