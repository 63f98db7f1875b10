package swfxml

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/geom"
	"badc0de.net/pkg/go-swf/ttesting"
)

func race3s(t *testing.T) *Index {
	t.Helper()
	idx, err := Parse(ttesting.Race3sReport())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return idx
}

func TestNameTables(t *testing.T) {
	idx := race3s(t)

	ttesting.AssertEqual(t, "exported assets", idx.ExportedAssets(), map[string]int{
		"race3s_fla.readySet_7": 22,
		"Ambiguous":             22,
	})
	ttesting.AssertEqual(t, "symbol class", idx.SymbolClass(), map[string]int{
		"EngineStart":          1,
		"race3s_fla.finish_10": 40,
		"Ambiguous":            40,
	})

	// Callers own the returned maps.
	idx.ExportedAssets()["race3s_fla.readySet_7"] = 0
	ttesting.AssertEqualInt(t, "unchanged after caller write", idx.ExportedAssets()["race3s_fla.readySet_7"], 22)
}

func TestAssetTypes(t *testing.T) {
	types := race3s(t).AssetTypes()

	for id, want := range map[int]asset.Type{
		1:  asset.TypeSound,
		3:  asset.TypeShape,
		4:  asset.TypeSprite,
		5:  asset.TypeShape,
		7:  asset.TypeShape,
		8:  asset.TypeShape,
		9:  asset.TypeSprite,
		22: asset.TypeSprite,
		42: asset.TypeImage,
	} {
		if got := types[id]; got != want {
			t.Errorf("type of %d = %v; want %v", id, got, want)
		}
	}
	if _, ok := types[404]; ok {
		t.Errorf("404 has a type")
	}
}

func TestShapesAndSprites(t *testing.T) {
	idx := race3s(t)

	r, ok := idx.Shape(3)
	if !ok {
		t.Fatalf("shape 3 missing")
	}
	ttesting.AssertEqual(t, "shape 3", r, geom.Rect(-260, 12563, 681, 10744))
	if _, ok := idx.Shape(4); ok {
		t.Errorf("sprite 4 returned as a shape")
	}

	tags, ok := idx.Sprite(9)
	if !ok {
		t.Fatalf("sprite 9 missing")
	}
	ttesting.AssertEqualInt(t, "sprite 9 tags", len(tags), 7)
	ttesting.AssertEqualString(t, "third tag", tags[2].Type, "PlaceObject3Tag")

	n, _ := idx.FrameCount(22)
	ttesting.AssertEqualInt(t, "frames of 22", n, 18)

	if _, ok := idx.Sprite(3); ok {
		t.Errorf("shape 3 returned as a sprite")
	}
}

func TestPlacements(t *testing.T) {
	idx := race3s(t)

	ps, ok := idx.Placements(9)
	if !ok {
		t.Fatalf("sprite 9 missing")
	}
	var ids []int
	for _, p := range ps {
		ids = append(ids, p.CharacterID)
	}
	ttesting.AssertEqualInts(t, "placed characters", ids, []int{6, 7, 8, 7})
	ttesting.AssertEqual(t, "translated", ps[1].Matrix, geom.Translate(6312, 4932))
	ttesting.AssertEqual(t, "rotated", ps[2].Matrix, geom.Translate(0, 0).WithRotate(65536, -65536))

	ps, _ = idx.Placements(43)
	ttesting.AssertEqual(t, "no matrix means origin", ps[0].Matrix, geom.Translate(0, 0))
	ttesting.AssertEqualInt(t, "PlaceObject1 counts", ps[2].CharacterID, 7)

	ps, ok = idx.Placements(41)
	if !ok || len(ps) != 0 {
		t.Errorf("Placements(41) = %v, %v; want empty", ps, ok)
	}
}

func TestParseErrors(t *testing.T) {
	for name, report := range map[string]string{
		"unterminated": `<swf><tags><item type="DefineShapeTag" shapeId="1">`,
		"bad id":       `<swf><tags><item type="DefineSpriteTag" spriteId="x"/></tags></swf>`,
		"bad name id":  `<swf><tags><item type="SymbolClassTag"><tags><item>x</item></tags><names><item>a</item></names></item></tags></swf>`,
	} {
		if _, err := Parse(strings.NewReader(report)); err == nil {
			t.Errorf("%s: Parse succeeded", name)
		}
	}
}

func TestNameRedefinition(t *testing.T) {
	report := `<swf><tags>
<item type="ExportAssetsTag"><tags><item>3</item><item>4</item></tags><names><item>hero</item><item>foe</item></names></item>
<item type="ExportAssetsTag"><tags><item>5</item></tags><names><item>hero</item></names></item>
<item type="ExportAssetsTag"><tags><item>6</item><item>7</item></tags><names><item>foe</item></names></item>
<item type="SymbolClassTag"><tags><item>8</item></tags><names/></item>
<item type="SymbolClassTag"><tags><item>9</item></tags><names><item>Main</item></names></item>
</tags></swf>`
	idx, err := Parse(strings.NewReader(report))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ttesting.AssertEqual(t, "exported", idx.ExportedAssets(), map[string]int{"hero": 5, "foe": 4})
	ttesting.AssertEqual(t, "symbols", idx.SymbolClass(), map[string]int{"Main": 9})
}

func TestParseCharset(t *testing.T) {
	report := "<?xml version=\"1.0\" encoding=\"windows-1250\"?>\n" +
		"<swf><tags><item type=\"SymbolClassTag\"><tags><item>2</item></tags>" +
		"<names><item>\x8A\x9Dastn\xFD</item></names></item></tags></swf>"
	idx, err := Parse(strings.NewReader(report))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	id, ok := idx.SymbolClass()["Šťastný"]
	if !ok {
		t.Fatalf("name not decoded from windows-1250: %v", idx.SymbolClass())
	}
	ttesting.AssertEqualInt(t, "decoded name", id, 2)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "race3s.xml")
	b, err := io.ReadAll(ttesting.Race3sReport())
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	idx, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	ttesting.AssertEqualInt(t, "types", len(idx.AssetTypes()), 13)

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.xml")); err == nil {
		t.Errorf("ParseFile on a missing file succeeded")
	}
}
