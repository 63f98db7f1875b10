// Package swf resolves the sprites of swf containers by name or character
// id, and computes where on stage they draw.
//
// Decompiling is left to the JPEXS Free Flash Decompiler (ffdec), run as a
// subprocess: once per container to read its structure, and again whenever
// assets not exported yet are requested.
//
//	l, err := swf.DefaultLoader()
//	if err != nil {
//		// ...
//	}
//	s, err := l.Open("race3s.swf").Sprite(ctx, "race3s_fla.readySet_7")
//	if err != nil || s == nil {
//		// ...
//	}
//	r, ok, err := s.Bounds()
package swf

import (
	"context"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/loader"
	"badc0de.net/pkg/go-swf/paths"
)

// JarName is the file name paths.Find looks for.
const JarName = "ffdec.jar"

// Tool is what the package needs from ffdec. *ffdec.Tool implements it.
type Tool interface {
	loader.Extractor
	ToXML(ctx context.Context, input, output string) (string, error)
}

// Loader opens containers.
type Loader struct {
	tool Tool

	// ResultDir, if set, is where opened files export to, each into a
	// subdirectory named after the file. Otherwise each file allocates a
	// temporary directory on its first export.
	ResultDir string
}

// NewLoader returns a loader decompiling with tool.
func NewLoader(tool Tool) *Loader {
	return &Loader{tool: tool}
}

// DefaultLoader returns a loader running the ffdec.jar found by paths.Find.
func DefaultLoader() (*Loader, error) {
	jar := paths.Find(JarName)
	if jar == "" {
		return nil, errors.Errorf("%s not found; install it with ffdecinstall", JarName)
	}
	return NewLoader(ffdec.New(jar)), nil
}

// Tool returns the tool l decompiles with.
func (l *Loader) Tool() Tool {
	return l.tool
}

// Open returns the container at path. Nothing is read until the file is
// first queried.
func (l *Loader) Open(path string) *File {
	f := &File{path: path, tool: l.tool}
	if l.ResultDir != "" {
		f.result = ffdec.NewResult(l.ResultDir).File(filepath.Base(path))
	}
	return f
}

// Bulk returns a bulk loader over the containers at paths, in order. Their
// structure is read up front.
func (l *Loader) Bulk(ctx context.Context, paths ...string) (*loader.Bulk, error) {
	b := loader.NewBulk(l.tool)
	if l.ResultDir != "" {
		b.SetResultDirectory(l.ResultDir)
	}
	for _, path := range paths {
		idx, err := l.Open(path).Index(ctx)
		if err != nil {
			return nil, err
		}
		if _, err := b.AddFile(path, idx); err != nil {
			return nil, err
		}
	}
	glog.V(1).Infof("swf: bulk loader over %d containers", len(paths))
	return b, nil
}
