package paths

import (
	"os"
	"strings"

	"github.com/spf13/afero"
)

// Path is a filesystem location built segment by segment.
// Values are never cleaned so a candidate keeps the exact spelling it was built from.
type Path string

// IsEmpty reports whether the path has no content
func (p Path) IsEmpty() bool {
	return p == ""
}

func (p Path) String() string {
	return string(p)
}

// Append adds a segment, inserting a separator only when one is missing
func (p Path) Append(segments ...string) Path {
	out := string(p)
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if out == "" {
			out = seg
			continue
		}
		if !os.IsPathSeparator(out[len(out)-1]) && !os.IsPathSeparator(seg[0]) {
			out += string(os.PathSeparator)
		}
		out += seg
	}
	return Path(out)
}

// FileExists returns true if the path exists and is not a directory.
// There's no guarantee the caller has rights to open it.
func (p Path) FileExists(fs afero.Fs) bool {
	if p.IsEmpty() {
		return false
	}
	info, err := fs.Stat(string(p))
	return err == nil && !info.IsDir()
}

// DirExists returns true if the path exists and is a directory
func (p Path) DirExists(fs afero.Fs) bool {
	if p.IsEmpty() {
		return false
	}
	info, err := fs.Stat(string(p))
	return err == nil && info.IsDir()
}

// DirName returns the directory portion, or an empty path when there is no separator
func (p Path) DirName() Path {
	if i := lastSeparator(string(p)); i >= 0 {
		return p[:i]
	}
	return ""
}

// BaseName returns the last segment
func (p Path) BaseName() string {
	if i := lastSeparator(string(p)); i >= 0 {
		return string(p[i+1:])
	}
	return string(p)
}

// ReplaceName swaps the trailing name when the path ends with search
func (p Path) ReplaceName(search, replacement string) Path {
	if search == "" || !strings.HasSuffix(string(p), search) {
		return p
	}
	return p[:len(p)-len(search)] + Path(replacement)
}

func lastSeparator(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if os.IsPathSeparator(s[i]) {
			return i
		}
	}
	return -1
}

// SplitList splits a search-path value on sep, dropping empty segments
func SplitList(value string, sep byte) []Path {
	if value == "" {
		return nil
	}

	var out []Path
	for _, seg := range strings.Split(value, string(sep)) {
		if seg == "" {
			continue
		}
		out = append(out, Path(seg))
	}
	return out
}
