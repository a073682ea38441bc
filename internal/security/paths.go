package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ValidateRelativePath ensures rel stays inside root once joined to it.
// Manifest destinations go through this before anything is created.
func ValidateRelativePath(root, rel string) error {
	if err := ValidatePath(rel); err != nil {
		return err
	}

	// Clean the path to resolve . and ..
	cleanPath := filepath.Clean(filepath.FromSlash(rel))

	if filepath.IsAbs(cleanPath) || filepath.VolumeName(cleanPath) != "" {
		return fmt.Errorf("absolute path not allowed: %s", rel)
	}

	for _, part := range strings.Split(cleanPath, string(filepath.Separator)) {
		if part == ".." {
			return fmt.Errorf("path contains ..: %s", rel)
		}
	}

	within, err := IsPathWithinDirectory(filepath.Join(root, cleanPath), root)
	if err != nil {
		return err
	}
	if !within {
		return fmt.Errorf("path escapes %s: %s", root, rel)
	}

	return nil
}

// ValidatePath performs general path validation
func ValidatePath(path string) error {
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null bytes: %q", path)
	}

	if len(path) > 4096 {
		return fmt.Errorf("path too long: %d characters", len(path))
	}

	return nil
}

// IsPathWithinDirectory checks if a target path is within a given base directory.
// Both paths must be absolute; a target equal to the base counts as within.
func IsPathWithinDirectory(targetPath, basePath string) (bool, error) {
	if !filepath.IsAbs(targetPath) {
		return false, fmt.Errorf("target path must be absolute, got relative path: %s", targetPath)
	}
	if !filepath.IsAbs(basePath) {
		return false, fmt.Errorf("base path must be absolute, got relative path: %s", basePath)
	}

	rel, err := filepath.Rel(filepath.Clean(basePath), filepath.Clean(targetPath))
	if err != nil {
		return false, fmt.Errorf("failed to compute relative path: %w", err)
	}

	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false, nil
	}

	return true, nil
}
