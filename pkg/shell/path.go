package shell

import (
	"path/filepath"
)

// Resolve returns input interpreted relative to base. It does not check
// that the result exists.
func Resolve(base, input string) string {
	switch {
	case input == "":
		return base
	case input == "..":
		parent := filepath.Dir(base)
		if parent == base {
			// root is its own parent
			return base
		}
		return parent
	case filepath.IsAbs(input):
		return filepath.Clean(input)
	}

	return filepath.Join(base, input)
}
