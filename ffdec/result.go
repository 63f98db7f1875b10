package ffdec

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// SpriteDirPrefix starts the name of every exported sprite directory:
// DefineSprite_<id>, or DefineSprite_<id>_<name> for named sprites.
const SpriteDirPrefix = "DefineSprite_"

// Result is the directory an export was written into.
type Result struct {
	dir string
}

// NewResult returns a result backed by dir. The directory does not need to
// exist yet.
func NewResult(dir string) *Result {
	return &Result{dir: filepath.Clean(dir)}
}

// Path returns the result directory.
func (r *Result) Path() string {
	return r.dir
}

// File returns the sub-result for one input file, as written when exporting
// from a directory of swf files. name is the file's base name.
func (r *Result) File(name string) *Result {
	return &Result{dir: filepath.Join(r.dir, name)}
}

// Sprites returns the exported sprite directories.
func (r *Result) Sprites() Sprites {
	return Sprites{dir: r.subdir("sprites")}
}

// Shapes returns the exported shape files.
func (r *Result) Shapes() Files {
	return Files{dir: r.subdir("shapes")}
}

// Images returns the exported image files.
func (r *Result) Images() Files {
	return Files{dir: r.subdir("images")}
}

func (r *Result) subdir(name string) string {
	sub := filepath.Join(r.dir, name)
	if fi, err := os.Stat(sub); err == nil && fi.IsDir() {
		return sub
	}
	return r.dir
}

// Clear removes everything exported. The result is empty afterwards.
func (r *Result) Clear() error {
	return os.RemoveAll(r.dir)
}

// Sprites is a directory holding one sub directory per exported sprite.
type Sprites struct {
	dir string
}

// ByID returns the directory of the sprite with the passed character id.
func (s Sprites) ByID(id int) (string, bool) {
	base := SpriteDirPrefix + strconv.Itoa(id)
	if isDir(filepath.Join(s.dir, base)) {
		return filepath.Join(s.dir, base), true
	}

	for _, name := range s.names() {
		if strings.HasPrefix(name, base+"_") {
			return filepath.Join(s.dir, name), true
		}
	}
	return "", false
}

// ByName returns the directory of the sprite exported under name.
func (s Sprites) ByName(name string) (string, bool) {
	for _, dir := range s.names() {
		rest := strings.TrimPrefix(dir, SpriteDirPrefix)
		id, spriteName, ok := strings.Cut(rest, "_")
		if !ok || spriteName != name {
			continue
		}
		if _, err := strconv.Atoi(id); err == nil {
			return filepath.Join(s.dir, dir), true
		}
	}
	return "", false
}

func (s Sprites) names() []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), SpriteDirPrefix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Files is a directory holding one file per exported character, named
// <id>.<ext> or <id>_<name>.<ext>.
type Files struct {
	dir string
}

// ByID returns the file exported for the passed character id.
func (f Files) ByID(id int) (string, bool) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return "", false
	}
	prefix := strconv.Itoa(id)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if stem == prefix || strings.HasPrefix(stem, prefix+"_") {
			return filepath.Join(f.dir, e.Name()), true
		}
	}
	return "", false
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
