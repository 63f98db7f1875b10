package web

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"
	"golang.org/x/sync/singleflight"

	swf "badc0de.net/pkg/go-swf"
	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/datafiles"
	"badc0de.net/pkg/go-swf/ffdec"
)

// bump if the way we generate responses changes
const generation = 1

// loadTimeout bounds a shared sprite load, which no single request can cancel.
const loadTimeout = 5 * time.Minute

// frameDelay is the delay between GIF frames, in 100ths of a second.
const frameDelay = 4

// maxThumb caps the ?thumb= parameter.
const maxThumb = 1024

type Handler struct {
	files map[string]*swf.File
	order []string

	loads singleflight.Group
	index *template.Template
}

// NewHandler constructs a web handler serving the sprites of the passed
// files. Files are addressed by their base name; of two files sharing a base
// name, the first one wins.
func NewHandler(files ...*swf.File) *Handler {
	h := &Handler{
		files: map[string]*swf.File{},
		index: template.Must(datafiles.IndexTemplate()),
	}
	for _, f := range files {
		name := filepath.Base(f.Path())
		if _, ok := h.files[name]; ok {
			glog.Warningf("web: %q shadowed by an earlier file of the same name", f.Path())
			continue
		}
		h.files[name] = f
		h.order = append(h.order, name)
	}
	return h
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/sitemap.xml", h.sitemapHandler)
	r.HandleFunc("/swf/{file}/sprite/{key}.gif", h.animationHandler)
	r.HandleFunc("/swf/{file}/sprite/{key}", h.spriteHandler)
	r.HandleFunc("/swf/{file}/sprite/{key}/frame/{n:[0-9]+}.gif", h.frameGIFHandler)
	r.HandleFunc("/swf/{file}/sprite/{key}/frame/{n:[0-9]+}", h.frameHandler)
}

// sprite resolves a sprite, collapsing concurrent requests for the same one
// into a single extraction.
func (h *Handler) sprite(ctx context.Context, tr trace.Trace, fileName, key string) (*swf.File, *asset.Sprite, error) {
	f, ok := h.files[fileName]
	if !ok {
		return nil, nil, nil
	}
	// The load is shared by every waiting request, so it must outlive the
	// one that started it.
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
	defer cancel()
	v, err, shared := h.loads.Do(fileName+"\x00"+key, func() (interface{}, error) {
		return f.Sprite(loadCtx, key)
	})
	tr.LazyPrintf("sprite %q of %q (shared: %v)", key, fileName, shared)
	if err != nil {
		return f, nil, err
	}
	return f, v.(*asset.Sprite), nil
}

// lookup resolves the sprite named by the request's route. It writes the
// error response itself and returns false if there is nothing to serve.
func (h *Handler) lookup(w http.ResponseWriter, r *http.Request, tr trace.Trace) (*swf.File, *asset.Sprite, bool) {
	vars := mux.Vars(r)
	f, s, err := h.sprite(r.Context(), tr, vars["file"], vars["key"])
	if err != nil {
		tr.LazyPrintf("error: %v", err)
		tr.SetError()
		glog.Errorf("web: loading sprite %q of %q: %v", vars["key"], vars["file"], err)
		http.Error(w, "failed to load sprite", http.StatusInternalServerError)
		return nil, nil, false
	}
	if f == nil {
		http.Error(w, "no such file", http.StatusNotFound)
		return nil, nil, false
	}
	if s == nil {
		http.Error(w, "no such sprite", http.StatusNotFound)
		return nil, nil, false
	}
	return f, s, true
}

type indexFile struct {
	Name    string
	Sprites []indexSprite
}

type indexSprite struct {
	Name string
	ID   int
}

// listing returns the named sprites of every file, sorted by name.
func (h *Handler) listing(ctx context.Context) ([]indexFile, error) {
	var files []indexFile
	for _, name := range h.order {
		idx, err := h.files[name].Index(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "indexing %q", name)
		}

		types := idx.AssetTypes()
		seen := map[string]bool{}
		f := indexFile{Name: name}
		for _, names := range []map[string]int{idx.ExportedAssets(), idx.SymbolClass()} {
			for n, id := range names {
				if seen[n] || types[id] != asset.TypeSprite {
					continue
				}
				seen[n] = true
				f.Sprites = append(f.Sprites, indexSprite{Name: n, ID: id})
			}
		}
		sort.Slice(f.Sprites, func(i, j int) bool { return f.Sprites[i].Name < f.Sprites[j].Name })
		files = append(files, f)
	}
	return files, nil
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("swf.web", "index")
	defer tr.Finish()

	files, err := h.listing(r.Context())
	if err != nil {
		tr.SetError()
		glog.Errorf("web: %v", err)
		http.Error(w, "failed to list sprites", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := h.index.Execute(w, struct{ Files []indexFile }{files}); err != nil {
		glog.Errorf("web: rendering index: %v", err)
	}
}

type boundsJSON struct {
	XMin   int     `json:"xMin"`
	XMax   int     `json:"xMax"`
	YMin   int     `json:"yMin"`
	YMax   int     `json:"yMax"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type spriteJSON struct {
	File         string      `json:"file"`
	ID           int         `json:"id"`
	Name         string      `json:"name,omitempty"`
	Bounds       *boundsJSON `json:"bounds,omitempty"`
	Dependencies []int       `json:"dependencies"`
	FrameCount   int         `json:"frameCount"`
	MimeType     string      `json:"mimeType"`
	DataURL      string      `json:"dataURL,omitempty"`
}

// spriteHandler describes a sprite. With ?dataurl=N, frame N is inlined.
func (h *Handler) spriteHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("swf.web", r.URL.Path)
	defer tr.Finish()

	f, s, ok := h.lookup(w, r, tr)
	if !ok {
		return
	}

	out := spriteJSON{
		File:         filepath.Base(f.Path()),
		ID:           s.ID(),
		Name:         s.Name(),
		Dependencies: []int{},
	}

	fail := func(what string, err error) {
		tr.LazyPrintf("%s: %v", what, err)
		tr.SetError()
		glog.Errorf("web: %s of sprite %d: %v", what, s.ID(), err)
		http.Error(w, "failed to read "+what, http.StatusInternalServerError)
	}

	rect, ok, err := s.Bounds()
	if err != nil {
		fail("bounds", err)
		return
	}
	if ok {
		out.Bounds = &boundsJSON{
			XMin:   rect.XMin,
			XMax:   rect.XMax,
			YMin:   rect.YMin,
			YMax:   rect.YMax,
			Width:  rect.Width(),
			Height: rect.Height(),
		}
	}

	l, err := f.Loader(r.Context())
	if err != nil {
		fail("dependencies", err)
		return
	}
	if deps, ok := l.Dependencies(s.ID()); ok {
		out.Dependencies = deps
	}

	if out.FrameCount, err = s.FrameCount(); err != nil {
		fail("frame count", err)
		return
	}
	if out.MimeType, err = s.MimeType(); err != nil {
		fail("frame format", err)
		return
	}

	if d := r.URL.Query().Get("dataurl"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			http.Error(w, "dataurl not a number", http.StatusBadRequest)
			return
		}
		out.DataURL, err = s.FrameDataURL(n)
		if errors.Is(err, asset.ErrFrameNotFound) {
			http.Error(w, "no such frame", http.StatusNotFound)
			return
		}
		if err != nil {
			fail("frame", err)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		glog.Errorf("web: encoding sprite %d: %v", s.ID(), err)
	}
}

// frameFile resolves frame {n} of the routed sprite and stats it. It writes
// the error response itself and returns false if there is nothing to serve.
func (h *Handler) frameFile(w http.ResponseWriter, r *http.Request, tr trace.Trace) (*swf.File, *asset.Sprite, int, os.FileInfo, bool) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		http.Error(w, "n not a number", http.StatusBadRequest)
		return nil, nil, 0, nil, false
	}

	f, s, ok := h.lookup(w, r, tr)
	if !ok {
		return nil, nil, 0, nil, false
	}

	path, err := s.Frame(n)
	if errors.Is(err, asset.ErrFrameNotFound) {
		http.Error(w, "no such frame", http.StatusNotFound)
		return nil, nil, 0, nil, false
	}
	if err != nil {
		tr.SetError()
		glog.Errorf("web: frame %d of sprite %d: %v", n, s.ID(), err)
		http.Error(w, "failed to find frame", http.StatusInternalServerError)
		return nil, nil, 0, nil, false
	}

	st, err := os.Stat(path)
	if err != nil {
		tr.SetError()
		http.Error(w, "failed to stat frame", http.StatusInternalServerError)
		return nil, nil, 0, nil, false
	}
	return f, s, n, st, true
}

// notModified answers a conditional request if etag matches.
func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	if r.Header.Get("If-None-Match") != etag {
		return false
	}
	w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
	return true
}

func setCacheHeaders(w http.ResponseWriter, mime, etag string, st os.FileInfo) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", st.ModTime().UTC().Format(http.TimeFormat))
}

// frameHandler serves a frame as exported. With ?thumb=N, raster frames are
// scaled down to fit NxN and served as PNG.
func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("swf.web", r.URL.Path)
	defer tr.Finish()

	thumb := 0
	if t := r.URL.Query().Get("thumb"); t != "" {
		var err error
		thumb, err = strconv.Atoi(t)
		if err != nil || thumb <= 0 || thumb > maxThumb {
			http.Error(w, "bad thumb size", http.StatusBadRequest)
			return
		}
	}

	f, s, n, st, ok := h.frameFile(w, r, tr)
	if !ok {
		return
	}

	mime := "image/png"
	if thumb == 0 {
		var err error
		if mime, err = s.MimeType(); err != nil {
			http.Error(w, "failed to detect frame format", http.StatusInternalServerError)
			return
		}
	}
	etag := fmt.Sprintf(`W/"frame:%d:%s:%d:%d:%x:%d:%d:%s"`, generation, filepath.Base(f.Path()), s.ID(), n, st.ModTime().UnixNano(), st.Size(), thumb, mime)
	if notModified(w, r, etag) {
		return
	}

	if thumb != 0 {
		img, err := s.FrameImage(n)
		if errors.Is(err, asset.ErrNotRaster) {
			http.Error(w, "frame is not a raster image", http.StatusBadRequest)
			return
		}
		if err != nil {
			tr.SetError()
			glog.Errorf("web: decoding frame %d of sprite %d: %v", n, s.ID(), err)
			http.Error(w, "failed to decode frame", http.StatusInternalServerError)
			return
		}
		img = resize.Thumbnail(uint(thumb), uint(thumb), img, resize.Bilinear)

		setCacheHeaders(w, mime, etag, st)
		w.WriteHeader(http.StatusOK)
		png.Encode(w, img)
		return
	}

	path, _ := s.Frame(n)
	fr, err := os.Open(path)
	if err != nil {
		http.Error(w, "failed to open frame", http.StatusInternalServerError)
		return
	}
	defer fr.Close()

	setCacheHeaders(w, mime, etag, st)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, fr)
}

// frameGIFHandler serves a raster frame transcoded to GIF.
func (h *Handler) frameGIFHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("swf.web", r.URL.Path)
	defer tr.Finish()

	f, s, n, st, ok := h.frameFile(w, r, tr)
	if !ok {
		return
	}

	mime := "image/gif"
	etag := fmt.Sprintf(`W/"framegif:%d:%s:%d:%d:%x:%d:%s"`, generation, filepath.Base(f.Path()), s.ID(), n, st.ModTime().UnixNano(), st.Size(), mime)
	if notModified(w, r, etag) {
		return
	}

	img, err := s.FrameImage(n)
	if errors.Is(err, asset.ErrNotRaster) {
		http.Error(w, "frame is not a raster image", http.StatusBadRequest)
		return
	}
	if err != nil {
		tr.SetError()
		glog.Errorf("web: decoding frame %d of sprite %d: %v", n, s.ID(), err)
		http.Error(w, "failed to decode frame", http.StatusInternalServerError)
		return
	}

	setCacheHeaders(w, mime, etag, st)
	w.WriteHeader(http.StatusOK)
	gif.Encode(w, paletted(img), nil)
}

// animationHandler serves all frames of a raster sprite as an animated GIF.
func (h *Handler) animationHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("swf.web", r.URL.Path)
	defer tr.Finish()

	f, s, ok := h.lookup(w, r, tr)
	if !ok {
		return
	}

	if path, format, err := s.Animation(); err == nil && format == ffdec.FormatGIF {
		h.serveAnimationFile(w, r, tr, f, s, path)
		return
	}

	first, err := s.Frame(1)
	if err != nil {
		http.Error(w, "sprite has no frames", http.StatusNotFound)
		return
	}
	st, err := os.Stat(first)
	if err != nil {
		http.Error(w, "failed to stat frame", http.StatusInternalServerError)
		return
	}
	count, err := s.FrameCount()
	if err != nil {
		http.Error(w, "failed to count frames", http.StatusInternalServerError)
		return
	}

	mime := "image/gif"
	etag := fmt.Sprintf(`W/"anim:%d:%s:%d:%d:%x:%s"`, generation, filepath.Base(f.Path()), s.ID(), count, st.ModTime().UnixNano(), mime)
	if notModified(w, r, etag) {
		return
	}

	frames, err := s.Frames()
	if errors.Is(err, asset.ErrNotRaster) {
		http.Error(w, "sprite frames are not raster images", http.StatusBadRequest)
		return
	}
	if err != nil {
		tr.SetError()
		glog.Errorf("web: decoding frames of sprite %d: %v", s.ID(), err)
		http.Error(w, "failed to decode frames", http.StatusInternalServerError)
		return
	}
	tr.LazyPrintf("%d frames", len(frames))

	var g gif.GIF
	for _, img := range frames {
		g.Image = append(g.Image, paletted(img))
		g.Delay = append(g.Delay, frameDelay)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	g.BackgroundIndex = 0 // color.Transparent

	setCacheHeaders(w, mime, etag, st)
	w.WriteHeader(http.StatusOK)
	gif.EncodeAll(w, &g)
}

// serveAnimationFile serves a GIF animation exported whole by ffdec.
func (h *Handler) serveAnimationFile(w http.ResponseWriter, r *http.Request, tr trace.Trace, f *swf.File, s *asset.Sprite, path string) {
	tr.LazyPrintf("exported animation %q", path)
	fr, err := os.Open(path)
	if err != nil {
		http.Error(w, "failed to open animation", http.StatusInternalServerError)
		return
	}
	defer fr.Close()
	st, err := fr.Stat()
	if err != nil {
		http.Error(w, "failed to stat animation", http.StatusInternalServerError)
		return
	}

	mime := "image/gif"
	etag := fmt.Sprintf(`W/"animfile:%d:%s:%d:%x:%d:%s"`, generation, filepath.Base(f.Path()), s.ID(), st.ModTime().UnixNano(), st.Size(), mime)
	if notModified(w, r, etag) {
		return
	}

	setCacheHeaders(w, mime, etag, st)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, fr)
}

// paletted converts img to a paletted image whose first color is
// color.Transparent, followed by up to 255 colors picked by median cut.
func paletted(img image.Image) *image.Paletted {
	q := quantize.MedianCutQuantizer{}
	pal := q.Quantize(make(color.Palette, 0, 255), img)

	// The empty image defaults to index 0, so drawing over it keeps
	// transparent pixels transparent.
	p := image.NewPaletted(img.Bounds(), append(color.Palette{color.Transparent}, pal...))
	draw.Draw(p, img.Bounds(), img, img.Bounds().Min, draw.Over)
	return p
}
