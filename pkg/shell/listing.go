package shell

import (
	"context"
	"sort"
	"strings"

	"github.com/Neev4n/dirshell/internal/fsys"
)

type ListMode int

const (
	ListPlain ListMode = iota // visible entries, ascending
	ListAll                   // every entry, backend order
	// ListReverse lists every entry in descending byte order, so dotfiles
	// come last: {".git", "a.txt", "b.txt"} lists as b.txt, a.txt, .git.
	ListReverse
)

func (m ListMode) String() string {
	switch m {
	case ListAll:
		return "all"
	case ListReverse:
		return "reverse"
	}
	return "plain"
}

// ParseListMode maps an ls flag to a mode. Anything unrecognised lists
// plainly.
func ParseListMode(flag string) ListMode {
	switch flag {
	case "-a":
		return ListAll
	case "-r":
		return ListReverse
	}
	return ListPlain
}

// IsHidden reports whether an entry name is a dotfile.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// List returns the entry names of dir for mode. A missing or unreadable
// directory yields an empty list.
func List(ctx context.Context, fs fsys.FileSystem, dir string, mode ListMode) []string {
	names, err := fs.ReadDir(ctx, dir)
	if err != nil {
		return []string{}
	}

	switch mode {
	case ListAll:
		// enumeration order, unsorted
		return names
	case ListReverse:
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
		return names
	}

	visible := make([]string, 0, len(names))
	for _, name := range names {
		if !IsHidden(name) {
			visible = append(visible, name)
		}
	}
	sort.Strings(visible)
	return visible
}
