package swf

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/geom"
	"badc0de.net/pkg/go-swf/ttesting"
)

// fakeTool converts every container to the race3s report and exports every
// selected sprite as a directory with two svg frames, or with one animation
// file when a sprite animation format is requested.
type fakeTool struct {
	t       *testing.T
	reports int
	exports []ffdec.Export
}

func (f *fakeTool) ToXML(ctx context.Context, input, output string) (string, error) {
	f.reports++
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
	f.exports = append(f.exports, e)
	out := e.OutputDir()
	if out == "" {
		out = f.t.TempDir()
	}

	write := func(dir string) {
		for _, id := range []int{4, 9, 22, 40} {
			if !e.SelectedIDs().Contains(id) {
				continue
			}
			d := filepath.Join(dir, "sprites", ffdec.SpriteDirPrefix+strconv.Itoa(id))
			os.MkdirAll(d, 0755)
			if format, _ := e.FormatOf(ffdec.ItemSprite); format == ffdec.FormatGIF || format == ffdec.FormatAVI {
				os.WriteFile(filepath.Join(d, "frames."+string(format)), []byte(format), 0644)
				continue
			}
			for n := 1; n <= 2; n++ {
				os.WriteFile(filepath.Join(d, strconv.Itoa(n)+".svg"), []byte("<svg/>"), 0644)
			}
		}
	}
	if fi, err := os.Stat(e.InputPath()); err == nil && fi.IsDir() {
		entries, _ := os.ReadDir(e.InputPath())
		for _, entry := range entries {
			write(filepath.Join(out, entry.Name()))
		}
	} else {
		write(out)
	}
	return ffdec.NewResult(out), nil
}

func TestFileAsset(t *testing.T) {
	ctx := context.Background()
	tool := &fakeTool{t: t}
	f := NewLoader(tool).Open("/src/" + ttesting.Race3sName)

	for key, want := range map[string]bool{
		"race3s_fla.readySet_7": true,
		"Ambiguous":             true,
		"4":                     true,
		"404":                   false,
		"nope":                  false,
	} {
		got, err := f.Has(ctx, key)
		if err != nil {
			t.Fatalf("Has(%q): %v", key, err)
		}
		if got != want {
			t.Errorf("Has(%q) = %v; want %v", key, got, want)
		}
	}

	s, err := f.Sprite(ctx, "race3s_fla.finish_10")
	if err != nil || s == nil {
		t.Fatalf("Sprite = %v, %v", s, err)
	}
	ttesting.AssertEqualInt(t, "id", s.ID(), 40)
	n, _ := s.FrameCount()
	ttesting.AssertEqualInt(t, "frames", n, 2)
	r, ok, err := s.Bounds()
	if err != nil || !ok {
		t.Fatalf("Bounds = %v, %v", ok, err)
	}
	ttesting.AssertEqual(t, "bounds", r, geom.Rect(0, 200, 0, 200))

	a, err := f.Asset(ctx, "9")
	if err != nil || a == nil {
		t.Fatalf("Asset(9) = %v, %v", a, err)
	}
	ttesting.AssertEqualString(t, "type", a.Type().String(), asset.TypeSprite.String())

	if s, err := f.Sprite(ctx, "EngineStart"); s != nil || err != nil {
		t.Errorf("Sprite(EngineStart) = %v, %v; want nothing for a sound", s, err)
	}

	ttesting.AssertEqualInt(t, "structure read once", tool.reports, 1)
	ttesting.AssertEqualInt(t, "exports", len(tool.exports), 2)
}

func TestFileResultDir(t *testing.T) {
	ctx := context.Background()
	tool := &fakeTool{t: t}
	l := NewLoader(tool)
	l.ResultDir = t.TempDir()

	f := l.Open("/src/" + ttesting.Race3sName)
	if _, err := f.Asset(ctx, "4"); err != nil {
		t.Fatalf("Asset: %v", err)
	}
	ttesting.AssertEqualString(t, "output", tool.exports[0].OutputDir(), filepath.Join(l.ResultDir, ttesting.Race3sName))

	e := f.Export().ItemTypes(ffdec.ItemShape)
	ttesting.AssertEqualString(t, "export input", e.InputPath(), "/src/"+ttesting.Race3sName)
}

func TestFileExportAnimation(t *testing.T) {
	ctx := context.Background()
	tool := &fakeTool{t: t}
	f := NewLoader(tool).Open("/src/" + ttesting.Race3sName)

	out := t.TempDir()
	path, err := f.ExportAnimation(ctx, "race3s_fla.readySet_7", out, ffdec.FormatGIF)
	if err != nil {
		t.Fatalf("ExportAnimation: %v", err)
	}
	ttesting.AssertEqualString(t, "path", path, filepath.Join(out, "sprites", ffdec.SpriteDirPrefix+"22", "frames.gif"))
	if len(tool.exports) != 1 {
		t.Fatalf("exports = %d; want 1", len(tool.exports))
	}
	format, _ := tool.exports[0].FormatOf(ffdec.ItemSprite)
	ttesting.AssertEqualString(t, "requested format", string(format), string(ffdec.FormatGIF))
	if !tool.exports[0].SelectedIDs().Contains(22) || tool.exports[0].SelectedIDs().Contains(40) {
		t.Errorf("selected ids = %v; want only 22", tool.exports[0].SelectedIDs())
	}

	for _, key := range []string{"EngineStart", "nope"} {
		path, err := f.ExportAnimation(ctx, key, "", ffdec.FormatAVI)
		if err != nil || path != "" {
			t.Errorf("ExportAnimation(%q) = %q, %v; want nothing", key, path, err)
		}
	}
	if _, err := f.ExportAnimation(ctx, "22", "", ffdec.FormatPNG); err == nil {
		t.Errorf("ExportAnimation as png succeeded")
	}
	ttesting.AssertEqualInt(t, "no further exports", len(tool.exports), 1)
}

func TestLoaderBulk(t *testing.T) {
	ctx := context.Background()
	tool := &fakeTool{t: t}
	l := NewLoader(tool)
	l.ResultDir = t.TempDir()

	b, err := l.Bulk(ctx, "/a/first.swf", "/b/second.swf")
	if err != nil {
		t.Fatalf("Bulk: %v", err)
	}
	ttesting.AssertEqualInt(t, "reports", tool.reports, 2)

	b.Add("race3s_fla.readySet_7", "race3s_fla.finish_10")
	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ttesting.AssertEqualInt(t, "one export", len(tool.exports), 1)
	ttesting.AssertEqualInt(t, "loaded", len(got), 2)

	first, _ := b.Loader("/a/first.swf")
	ttesting.AssertEqualString(t, "first.swf result", first.Result().Path(), filepath.Join(l.ResultDir, "first.swf"))
}
