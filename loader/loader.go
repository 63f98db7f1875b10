// Package loader resolves assets of swf containers by name or character id,
// exporting them with ffdec on first use and caching what was exported.
package loader

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/bounds"
	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/geom"
)

// TagIndex is the structural view of one container. *swfxml.Index
// implements it.
type TagIndex interface {
	bounds.Index

	ExportedAssets() map[string]int
	SymbolClass() map[string]int
	AssetTypes() map[int]asset.Type
}

// Extractor runs exports. *ffdec.Tool implements it.
type Extractor interface {
	ExtractContext(ctx context.Context, e ffdec.Export) (*ffdec.Result, error)
}

// tables are derived from the container alone, so they are computed once
// and shared by every loader rebound from the same original.
type tables struct {
	exported func() map[string]int
	symbols  func() map[string]int
	types    func() map[int]asset.Type
	bounds   func() *bounds.Extractor
}

func newTables(index TagIndex) *tables {
	return &tables{
		exported: sync.OnceValue(index.ExportedAssets),
		symbols:  sync.OnceValue(index.SymbolClass),
		types:    sync.OnceValue(index.AssetTypes),
		bounds: sync.OnceValue(func() *bounds.Extractor {
			return bounds.New(index)
		}),
	}
}

// AssetLoader resolves the assets of one container into one result
// directory.
type AssetLoader struct {
	path      string
	extractor Extractor
	tables    *tables

	mu     sync.Mutex
	result *ffdec.Result
	cache  map[int]asset.Asset
}

// New returns a loader for the container at path. It is not bound to a
// result directory; the first export allocates a temporary one.
func New(path string, index TagIndex, extractor Extractor) *AssetLoader {
	return &AssetLoader{
		path:      path,
		extractor: extractor,
		tables:    newTables(index),
		cache:     map[int]asset.Asset{},
	}
}

// Path returns the container's path.
func (l *AssetLoader) Path() string {
	return l.path
}

// Result returns the bound result directory, or nil.
func (l *AssetLoader) Result() *ffdec.Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

// WithResult returns a loader bound to r. If l is already bound to r's
// directory, l itself is returned. Otherwise the returned loader shares l's
// name and type tables but starts with an empty asset cache; l is not
// modified.
func (l *AssetLoader) WithResult(r *ffdec.Result) *AssetLoader {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.result != nil && r != nil && l.result.Path() == r.Path() {
		return l
	}
	return &AssetLoader{
		path:      l.path,
		extractor: l.extractor,
		tables:    l.tables,
		result:    r,
		cache:     map[int]asset.Asset{},
	}
}

// ResolveID returns the character id named name. Export names take
// precedence over class names.
func (l *AssetLoader) ResolveID(name string) (int, bool) {
	if id, ok := l.tables.exported()[name]; ok {
		return id, true
	}
	id, ok := l.tables.symbols()[name]
	return id, ok
}

// HasNamed reports whether name resolves to a character id.
func (l *AssetLoader) HasNamed(name string) bool {
	_, ok := l.ResolveID(name)
	return ok
}

// Has reports whether the container defines character id.
func (l *AssetLoader) Has(id int) bool {
	_, ok := l.TypeOf(id)
	return ok
}

// TypeOf returns the type of character id.
func (l *AssetLoader) TypeOf(id int) (asset.Type, bool) {
	t, ok := l.tables.types()[id]
	return t, ok
}

// Bounds returns the stage bounds of character id. See bounds.Extractor.
func (l *AssetLoader) Bounds(id int) (geom.Rectangle, bool, error) {
	return l.tables.bounds().Bounds(id)
}

// Dependencies returns the characters sprite id places directly.
func (l *AssetLoader) Dependencies(id int) ([]int, bool) {
	return l.tables.bounds().Dependencies(id)
}

// GetFromCache returns asset id if it is already materialized in the bound
// result directory, whether this loader exported it or not. It never
// exports.
func (l *AssetLoader) GetFromCache(id int) (asset.Asset, bool) {
	a, err := l.load(id)
	if err != nil {
		glog.Warningf("loader: reading %d of %q from the result directory: %v", id, l.path, err)
		return nil, false
	}
	return a, a != nil
}

// FindFromCache is GetFromCache by name.
func (l *AssetLoader) FindFromCache(name string) (asset.Asset, bool) {
	id, ok := l.ResolveID(name)
	if !ok {
		return nil, false
	}
	return l.GetFromCache(id)
}

// Get returns asset id, exporting it if it is not loaded yet. It returns
// nil and no error if the container has no such asset, or if the asset
// type is never exported (sounds).
func (l *AssetLoader) Get(ctx context.Context, id int) (asset.Asset, error) {
	t, ok := l.TypeOf(id)
	if !ok || t == asset.TypeSound {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if a, ok := l.cache[id]; ok {
		return a, nil
	}
	if l.result != nil {
		if a, err := l.materialize(id, t); a != nil || err != nil {
			return a, err
		}
	}

	e := ffdec.NewExport().Input(l.path).ItemTypes(t.ItemType()).IDs(ffdec.Single(id))
	if l.result != nil {
		e = e.Output(l.result.Path())
	}
	res, err := l.extractor.ExtractContext(ctx, e)
	if err != nil {
		return nil, errors.Wrapf(err, "exporting %v %d from %q", t, id, l.path)
	}
	l.result = res

	a, err := l.materialize(id, t)
	if err == nil && a == nil {
		glog.Warningf("loader: %v %d of %q missing after export to %q", t, id, l.path, res.Path())
	}
	return a, err
}

// Find is Get by name.
func (l *AssetLoader) Find(ctx context.Context, name string) (asset.Asset, error) {
	id, ok := l.ResolveID(name)
	if !ok {
		return nil, nil
	}
	return l.Get(ctx, id)
}

// load returns asset id from the bound result directory, caching it, and nil
// if it is not there.
func (l *AssetLoader) load(id int) (asset.Asset, error) {
	t, ok := l.TypeOf(id)
	if !ok || t == asset.TypeSound {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if a, ok := l.cache[id]; ok {
		return a, nil
	}
	if l.result == nil {
		return nil, nil
	}
	return l.materialize(id, t)
}

// materialize must be called with l.mu held and l.result set.
func (l *AssetLoader) materialize(id int, t asset.Type) (asset.Asset, error) {
	var a asset.Asset
	switch t {
	case asset.TypeSprite:
		dir, ok := l.result.Sprites().ByID(id)
		if !ok {
			return nil, nil
		}
		s, err := asset.NewSprite(dir)
		if err != nil {
			return nil, err
		}
		s.SetBounder(l.tables.bounds())
		a = s
	case asset.TypeShape:
		file, ok := l.result.Shapes().ByID(id)
		if !ok {
			return nil, nil
		}
		var b *geom.Rectangle
		if r, ok, _ := l.tables.bounds().Bounds(id); ok {
			b = &r
		}
		a = asset.NewShape(id, file, b)
	case asset.TypeImage:
		file, ok := l.result.Images().ByID(id)
		if !ok {
			return nil, nil
		}
		a = asset.NewImage(id, file)
	case asset.TypeSound:
		return nil, nil
	default:
		return nil, errors.Errorf("loader: cannot load %v %d", t, id)
	}

	glog.V(1).Infof("loader: loaded %v %d from %q", t, id, l.result.Path())
	l.cache[id] = a
	return a, nil
}
