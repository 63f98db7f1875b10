package swf

import (
	"context"
	"os"
	"slices"
	"strconv"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/loader"
	"badc0de.net/pkg/go-swf/swfxml"
)

// File is one swf container.
type File struct {
	path   string
	tool   Tool
	result *ffdec.Result

	mu     sync.Mutex
	index  *swfxml.Index
	loader *loader.AssetLoader
}

// Path returns the container's path.
func (f *File) Path() string {
	return f.path
}

// Index returns the container's structure, converting it to XML with ffdec
// on first call.
func (f *File) Index(ctx context.Context) (*swfxml.Index, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indexLocked(ctx)
}

func (f *File) indexLocked(ctx context.Context) (*swfxml.Index, error) {
	if f.index != nil {
		return f.index, nil
	}

	report, err := f.tool.ToXML(ctx, f.path, "")
	if err != nil {
		return nil, errors.Wrapf(err, "reading structure of %q", f.path)
	}
	defer os.Remove(report)

	idx, err := swfxml.ParseFile(report)
	if err != nil {
		return nil, err
	}
	glog.Infof("swf: indexed %q", f.path)
	f.index = idx
	return idx, nil
}

// Loader returns the asset loader of the container.
func (f *File) Loader(ctx context.Context) (*loader.AssetLoader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loader != nil {
		return f.loader, nil
	}
	idx, err := f.indexLocked(ctx)
	if err != nil {
		return nil, err
	}
	l := loader.New(f.path, idx, f.tool)
	if f.result != nil {
		l = l.WithResult(f.result)
	}
	f.loader = l
	return l, nil
}

// ID resolves key, which is either a name or a decimal character id. Names
// are tried first.
func (f *File) ID(ctx context.Context, key string) (int, bool, error) {
	l, err := f.Loader(ctx)
	if err != nil {
		return 0, false, err
	}
	if id, ok := l.ResolveID(key); ok {
		return id, true, nil
	}
	if id, err := strconv.Atoi(key); err == nil && l.Has(id) {
		return id, true, nil
	}
	return 0, false, nil
}

// Has reports whether key names or numbers a character of the container.
func (f *File) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := f.ID(ctx, key)
	return ok, err
}

// Asset returns the asset key resolves to, exporting it if needed. It
// returns nil and no error if there is no such asset.
func (f *File) Asset(ctx context.Context, key string) (asset.Asset, error) {
	id, ok, err := f.ID(ctx, key)
	if err != nil || !ok {
		return nil, err
	}
	l, err := f.Loader(ctx)
	if err != nil {
		return nil, err
	}
	return l.Get(ctx, id)
}

// Sprite is Asset, for sprites only. It returns nil and no error if key
// resolves to something other than a sprite.
func (f *File) Sprite(ctx context.Context, key string) (*asset.Sprite, error) {
	a, err := f.Asset(ctx, key)
	if err != nil {
		return nil, err
	}
	s, _ := a.(*asset.Sprite)
	return s, nil
}

// Export returns an export description reading from the container.
func (f *File) Export() ffdec.Export {
	return ffdec.NewExport().Input(f.path)
}

// Extract runs e, which should come from Export, bypassing the loader's
// cache.
func (f *File) Extract(ctx context.Context, e ffdec.Export) (*ffdec.Result, error) {
	return f.tool.ExtractContext(ctx, e)
}

// ExportAnimation exports the sprite key resolves to as one animation file
// in format, which must be one of asset.AnimationFormats, into outDir ("" for
// a fresh temporary directory). It returns the path of the file, or "" and no
// error if there is no such sprite.
func (f *File) ExportAnimation(ctx context.Context, key, outDir string, format ffdec.Format) (string, error) {
	if !slices.Contains(asset.AnimationFormats, format) {
		return "", errors.Errorf("%q is not an animation format", format)
	}
	id, ok, err := f.ID(ctx, key)
	if err != nil || !ok {
		return "", err
	}
	idx, err := f.Index(ctx)
	if err != nil {
		return "", err
	}
	if idx.AssetTypes()[id] != asset.TypeSprite {
		return "", nil
	}

	res, err := f.Extract(ctx, f.Export().Output(outDir).ItemTypeFormat(ffdec.ItemSprite, format).IDs(ffdec.Single(id)))
	if err != nil {
		return "", errors.Wrapf(err, "exporting sprite %d as %s", id, format)
	}
	dir, ok := res.Sprites().ByID(id)
	if !ok {
		return "", errors.Errorf("sprite %d not exported into %q", id, res.Path())
	}
	s, err := asset.NewSprite(dir)
	if err != nil {
		return "", err
	}
	path, got, err := s.Animation()
	if err != nil {
		return "", err
	}
	if got != format {
		return "", errors.Errorf("sprite %d exported as %s, not %s", id, got, format)
	}
	return path, nil
}
