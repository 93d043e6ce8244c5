package catalog

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/frederic-klein/rubycoresource/internal/srcdir"
)

// Catalog is the set of packaged source directory names available under a
// packaged-sources root. It is never mutated once built.
type Catalog struct {
	names []string
	set   map[string]struct{}
}

// Entry is a catalog name together with its parsed version.
type Entry struct {
	Name    string
	Version srcdir.Version
}

// ReadError reports that the packaged-sources root could not be listed.
type ReadError struct {
	Root string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading catalog %s: %v", e.Root, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// New builds a catalog from already materialized names.
func New(names ...string) Catalog {
	c := Catalog{
		names: make([]string, 0, len(names)),
		set:   make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if _, ok := c.set[name]; ok {
			continue
		}
		c.set[name] = struct{}{}
		c.names = append(c.names, name)
	}
	return c
}

// Scan lists the subdirectories of root, following symlinks. Plain files and
// dangling links are ignored; a listing failure is returned as *ReadError and
// never retried.
func Scan(root string) (Catalog, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Catalog{}, &ReadError{Root: root, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if isDir(root, e) {
			names = append(names, e.Name())
		}
	}
	return New(names...), nil
}

func isDir(root string, e fs.DirEntry) bool {
	if e.Type()&fs.ModeSymlink == 0 {
		return e.IsDir()
	}
	info, err := os.Stat(filepath.Join(root, e.Name()))
	return err == nil && info.IsDir()
}

// Contains reports whether name is present as a literal string.
func (c Catalog) Contains(name string) bool {
	_, ok := c.set[name]
	return ok
}

// Names returns the catalog names in insertion order.
func (c Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of names in the catalog.
func (c Catalog) Len() int {
	return len(c.names)
}

// Versions parses every name and returns the well-formed ones sorted in
// ascending version order. Names that do not follow the naming convention
// are not candidates and are returned separately.
func (c Catalog) Versions() (entries []Entry, skipped []string) {
	for _, name := range c.names {
		v, err := srcdir.Parse(name)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		entries = append(entries, Entry{Name: name, Version: v})
	}
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return a.Version.Compare(b.Version)
	})
	return entries, skipped
}
