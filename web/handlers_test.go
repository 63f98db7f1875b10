package web

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"golang.org/x/net/trace"

	swf "badc0de.net/pkg/go-swf"
	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/ttesting"
)

// fakeTool serves the race3s report and exports sprite 22 as two 40x20 png
// frames and sprite 40 as one svg frame plus a whole-sprite gif. Like a real
// tool run it fails once its context is done.
type fakeTool struct {
	t *testing.T

	mu      sync.Mutex
	exports int
}

func (f *fakeTool) ToXML(ctx context.Context, input, output string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if output == "" {
		output = filepath.Join(f.t.TempDir(), "report.xml")
	}
	b, err := io.ReadAll(ttesting.Race3sReport())
	if err != nil {
		return "", err
	}
	return output, os.WriteFile(output, b, 0644)
}

func (f *fakeTool) ExtractContext(ctx context.Context, e ffdec.Export) (*ffdec.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.exports++
	f.mu.Unlock()

	out := e.OutputDir()
	if out == "" {
		out = f.t.TempDir()
	}
	if e.SelectedIDs().Contains(22) {
		dir := filepath.Join(out, "sprites", ffdec.SpriteDirPrefix+"22")
		os.MkdirAll(dir, 0755)
		for n := 1; n <= 2; n++ {
			img := image.NewNRGBA(image.Rect(0, 0, 40, 20))
			for x := 0; x < 20; x++ {
				img.Set(x, 5, color.NRGBA{R: 255, A: 255})
			}
			w, err := os.Create(filepath.Join(dir, strconv.Itoa(n)+".png"))
			if err != nil {
				return nil, err
			}
			png.Encode(w, img)
			w.Close()
		}
	}
	if e.SelectedIDs().Contains(40) {
		dir := filepath.Join(out, "sprites", ffdec.SpriteDirPrefix+"40")
		os.MkdirAll(dir, 0755)
		os.WriteFile(filepath.Join(dir, "1.svg"), []byte("<svg/>"), 0644)
		os.WriteFile(filepath.Join(dir, "frames.gif"), []byte("GIF89a-exported"), 0644)
	}
	return ffdec.NewResult(out), nil
}

func newHandler(t *testing.T) (*Handler, *fakeTool) {
	tool := &fakeTool{t: t}
	l := swf.NewLoader(tool)
	l.ResultDir = t.TempDir()
	return NewHandler(l.Open("/src/" + ttesting.Race3sName)), tool
}

func newServer(t *testing.T) (*httptest.Server, *fakeTool) {
	h, tool := newHandler(t)
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, tool
}

func get(t *testing.T, url string, header http.Header) (*http.Response, []byte) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s: %v", url, err)
	}
	return resp, b
}

func TestSpriteJSON(t *testing.T) {
	srv, _ := newServer(t)

	resp, b := get(t, srv.URL+"/swf/race3s.swf/sprite/race3s_fla.finish_10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	ttesting.AssertEqualString(t, "content type", resp.Header.Get("Content-Type"), "application/json")

	var got spriteJSON
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decoding %s: %v", b, err)
	}
	ttesting.AssertEqualInt(t, "id", got.ID, 40)
	ttesting.AssertEqualString(t, "file", got.File, "race3s.swf")
	ttesting.AssertEqualInts(t, "dependencies", got.Dependencies, []int{22})
	ttesting.AssertEqualInt(t, "frames", got.FrameCount, 1)
	ttesting.AssertEqualString(t, "mime", got.MimeType, "image/svg+xml")
	if got.Bounds == nil {
		t.Fatalf("no bounds in %s", b)
	}
	ttesting.AssertEqual(t, "bounds", *got.Bounds, boundsJSON{XMax: 200, YMax: 200, Width: 10, Height: 10})
	ttesting.AssertEqualString(t, "no data url", got.DataURL, "")
}

func TestSpriteJSONDataURL(t *testing.T) {
	srv, _ := newServer(t)

	resp, b := get(t, srv.URL+"/swf/race3s.swf/sprite/22?dataurl=2", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	var got spriteJSON
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("decoding %s: %v", b, err)
	}
	if !strings.HasPrefix(got.DataURL, "data:image/png;base64,") {
		t.Errorf("DataURL = %.40q", got.DataURL)
	}

	resp, _ = get(t, srv.URL+"/swf/race3s.swf/sprite/22?dataurl=3", nil)
	ttesting.AssertEqualInt(t, "missing frame", resp.StatusCode, http.StatusNotFound)
}

func TestNotFound(t *testing.T) {
	srv, tool := newServer(t)

	for _, path := range []string{
		"/swf/other.swf/sprite/22",
		"/swf/race3s.swf/sprite/nope",
		"/swf/race3s.swf/sprite/EngineStart",
		"/swf/race3s.swf/sprite/22/frame/0",
		"/swf/race3s.swf/sprite/22/frame/3",
	} {
		resp, _ := get(t, srv.URL+path, nil)
		ttesting.AssertEqualInt(t, path, resp.StatusCode, http.StatusNotFound)
	}
	ttesting.AssertEqualInt(t, "one export for sprite 22", tool.exports, 1)
}

func TestFrame(t *testing.T) {
	srv, tool := newServer(t)
	url := srv.URL + "/swf/race3s.swf/sprite/race3s_fla.readySet_7/frame/2"

	resp, b := get(t, url, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	ttesting.AssertEqualString(t, "content type", resp.Header.Get("Content-Type"), "image/png")
	img, err := png.Decode(strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("decoding frame: %v", err)
	}
	ttesting.AssertEqualInt(t, "width", img.Bounds().Dx(), 40)

	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("ETag = %q", etag)
	}
	resp, _ = get(t, url, http.Header{"If-None-Match": {etag}})
	ttesting.AssertEqualInt(t, "conditional", resp.StatusCode, http.StatusNotModified)

	ttesting.AssertEqualInt(t, "exports", tool.exports, 1)
}

func TestFrameThumb(t *testing.T) {
	srv, _ := newServer(t)

	resp, b := get(t, srv.URL+"/swf/race3s.swf/sprite/22/frame/1?thumb=10", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	img, err := png.Decode(strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	ttesting.AssertEqualInt(t, "width", img.Bounds().Dx(), 10)
	ttesting.AssertEqualInt(t, "height", img.Bounds().Dy(), 5)

	resp, _ = get(t, srv.URL+"/swf/race3s.swf/sprite/22/frame/1?thumb=x", nil)
	ttesting.AssertEqualInt(t, "bad thumb", resp.StatusCode, http.StatusBadRequest)

	resp, _ = get(t, srv.URL+"/swf/race3s.swf/sprite/40/frame/1?thumb=10", nil)
	ttesting.AssertEqualInt(t, "svg thumb", resp.StatusCode, http.StatusBadRequest)

	resp, b = get(t, srv.URL+"/swf/race3s.swf/sprite/40/frame/1", nil)
	ttesting.AssertEqualInt(t, "svg", resp.StatusCode, http.StatusOK)
	ttesting.AssertEqualString(t, "svg body", string(b), "<svg/>")
}

func TestGIF(t *testing.T) {
	srv, _ := newServer(t)

	resp, b := get(t, srv.URL+"/swf/race3s.swf/sprite/22/frame/1.gif", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	img, err := gif.Decode(strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("decoding gif: %v", err)
	}
	if _, _, _, a := img.At(30, 15).RGBA(); a != 0 {
		t.Errorf("background alpha = %d; want transparent", a)
	}
	if r, _, _, a := img.At(3, 5).RGBA(); r>>8 < 200 || a == 0 {
		t.Errorf("line pixel = %v; want opaque red", img.At(3, 5))
	}

	resp, b = get(t, srv.URL+"/swf/race3s.swf/sprite/22.gif", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("animation status = %d: %s", resp.StatusCode, b)
	}
	g, err := gif.DecodeAll(strings.NewReader(string(b)))
	if err != nil {
		t.Fatalf("decoding animation: %v", err)
	}
	ttesting.AssertEqualInt(t, "animation frames", len(g.Image), 2)
	ttesting.AssertInRangeInt(t, "palette size", len(g.Image[0].Palette), 2, 256)

	resp, b = get(t, srv.URL+"/swf/race3s.swf/sprite/race3s_fla.finish_10.gif", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("exported animation status = %d: %s", resp.StatusCode, b)
	}
	ttesting.AssertEqualString(t, "exported animation", string(b), "GIF89a-exported")
	ttesting.AssertEqualString(t, "exported animation type", resp.Header.Get("Content-Type"), "image/gif")
}

func TestSpriteOutlivesCancelledRequest(t *testing.T) {
	h, tool := newHandler(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := trace.New("swf.web.test", "sprite")
	defer tr.Finish()
	_, s, err := h.sprite(ctx, tr, ttesting.Race3sName, "22")
	if err != nil {
		t.Fatalf("sprite: %v", err)
	}
	if s == nil {
		t.Fatalf("sprite 22 not found")
	}
	ttesting.AssertEqualInt(t, "id", s.ID(), 22)
	ttesting.AssertEqualInt(t, "exports", tool.exports, 1)
}

func TestIndex(t *testing.T) {
	srv, _ := newServer(t)

	resp, b := get(t, srv.URL+"/", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	page := string(b)
	for _, want := range []string{"race3s_fla.readySet_7", "race3s_fla.finish_10", "Ambiguous"} {
		if !strings.Contains(page, want) {
			t.Errorf("index lacks %q", want)
		}
	}
	if strings.Contains(page, "EngineStart") {
		t.Errorf("index lists the sound EngineStart")
	}
}

func TestSitemap(t *testing.T) {
	srv, _ := newServer(t)

	resp, b := get(t, srv.URL+"/sitemap.xml", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, b)
	}
	ttesting.AssertEqualString(t, "content type", resp.Header.Get("Content-Type"), "application/xml")

	page := string(b)
	for _, want := range []string{
		"<loc>" + srv.URL + "/swf/race3s.swf/sprite/race3s_fla.finish_10</loc>",
		"<image:loc>" + srv.URL + "/swf/race3s.swf/sprite/40/frame/1</image:loc>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("sitemap lacks %q:\n%s", want, page)
		}
	}
}
