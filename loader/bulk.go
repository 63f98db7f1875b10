package loader

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/ffdec"
)

// Bulk resolves names across several containers, exporting everything
// pending with a single ffdec run.
//
// Containers are consulted in the order they were added. A name is always
// served by the first container that defines it.
type Bulk struct {
	extractor Extractor

	// TempDir is where temporary result and input directories are
	// allocated. Empty means os.TempDir().
	TempDir string

	files   []*bulkFile
	result  *ffdec.Result
	pending []string
}

type bulkFile struct {
	base   string
	loader *AssetLoader
}

// NewBulk returns a bulk loader exporting with extractor.
func NewBulk(extractor Extractor) *Bulk {
	return &Bulk{extractor: extractor}
}

// AddFile registers the container at path. Containers must have distinct
// base names, as the base name keys each container's part of the result
// directory.
func (b *Bulk) AddFile(path string, index TagIndex) (*AssetLoader, error) {
	base := filepath.Base(path)
	for _, f := range b.files {
		if f.base == base {
			return nil, errors.Errorf("bulk: %q and %q share a base name", f.loader.Path(), path)
		}
	}

	l := New(path, index, b.extractor)
	if b.result != nil {
		l = l.WithResult(b.result.File(base))
	}
	b.files = append(b.files, &bulkFile{base: base, loader: l})
	return l, nil
}

// Loader returns the loader of the container registered from path.
func (b *Bulk) Loader(path string) (*AssetLoader, bool) {
	for _, f := range b.files {
		if f.loader.Path() == path {
			return f.loader, true
		}
	}
	return nil, false
}

// SetResultDirectory binds every container, including those added later, to
// its own subdirectory of dir.
func (b *Bulk) SetResultDirectory(dir string) {
	b.result = ffdec.NewResult(dir)
	for _, f := range b.files {
		f.loader = f.loader.WithResult(b.result.File(f.base))
	}
}

// Result returns the shared result directory, or nil.
func (b *Bulk) Result() *ffdec.Result {
	return b.result
}

// Add queues names for the next Load.
func (b *Bulk) Add(names ...string) {
	b.pending = append(b.pending, names...)
}

// Get returns the asset name resolves to, if it is already loaded. It never
// exports.
func (b *Bulk) Get(name string) (asset.Asset, bool) {
	for _, f := range b.files {
		if a, ok := f.loader.FindFromCache(name); ok {
			return a, true
		}
	}
	return nil, false
}

type bulkJob struct {
	file *bulkFile
	name string
	id   int
}

// Load resolves every queued name, exporting whatever is not loaded yet in
// one run, and empties the queue. Names no container defines are left out
// of the returned map.
//
// If the export fails, the map holds the names that were already loaded,
// and the failed names are not requeued.
func (b *Bulk) Load(ctx context.Context) (map[string]asset.Asset, error) {
	pending := b.pending
	b.pending = nil

	found := map[string]asset.Asset{}
	seen := map[string]bool{}
	var jobs []bulkJob
	for _, name := range pending {
		if seen[name] {
			continue
		}
		seen[name] = true
		for _, f := range b.files {
			id, ok := f.loader.ResolveID(name)
			if !ok {
				continue
			}
			a, err := f.loader.load(id)
			if err != nil {
				return found, errors.Wrapf(err, "loading %q", name)
			}
			if a != nil {
				found[name] = a
			} else if t, _ := f.loader.TypeOf(id); t != asset.TypeSound {
				jobs = append(jobs, bulkJob{file: f, name: name, id: id})
			}
			break
		}
	}
	if len(jobs) == 0 {
		return found, nil
	}

	if err := b.extract(ctx, jobs); err != nil {
		return found, err
	}

	for _, j := range jobs {
		a, err := j.file.loader.load(j.id)
		if err != nil {
			return found, errors.Wrapf(err, "loading %q", j.name)
		}
		if a == nil {
			glog.Warningf("bulk: %q (character %d of %q) missing after export", j.name, j.id, j.file.loader.Path())
			continue
		}
		found[j.name] = a
	}
	return found, nil
}

// extract exports the characters of all jobs in one run, over a directory
// linking to every container involved.
func (b *Bulk) extract(ctx context.Context, jobs []bulkJob) error {
	if b.result == nil {
		dir, err := os.MkdirTemp(b.TempDir, "swf_")
		if err != nil {
			return errors.Wrap(err, "bulk: creating result directory")
		}
		b.SetResultDirectory(dir)
	}

	input, err := os.MkdirTemp(b.TempDir, "swf_input_")
	if err != nil {
		return errors.Wrap(err, "bulk: creating input directory")
	}
	defer os.RemoveAll(input)

	var ids []int
	var types []ffdec.ItemType
	linked := map[string]bool{}
	for _, j := range jobs {
		if !linked[j.file.base] {
			src, err := filepath.Abs(j.file.loader.Path())
			if err != nil {
				return errors.Wrapf(err, "bulk: resolving %q", j.file.loader.Path())
			}
			if err := os.Symlink(src, filepath.Join(input, j.file.base)); err != nil {
				return errors.Wrapf(err, "bulk: linking %q", src)
			}
			linked[j.file.base] = true
		}

		t, _ := j.file.loader.TypeOf(j.id)
		if it := t.ItemType(); !slices.Contains(types, it) {
			types = append(types, it)
		}
		if !slices.Contains(ids, j.id) {
			ids = append(ids, j.id)
		}
	}
	slices.Sort(ids)
	idRanges := make([]ffdec.Range, len(ids))
	for i, id := range ids {
		idRanges[i] = ffdec.Single(id)
	}

	glog.Infof("bulk: exporting %d names from %d containers", len(jobs), len(linked))
	e := ffdec.NewExport().
		Input(input).
		Output(b.result.Path()).
		ItemTypes(types...).
		IDs(idRanges...)
	if _, err := b.extractor.ExtractContext(ctx, e); err != nil {
		return errors.Wrap(err, "bulk: export failed")
	}
	return nil
}
