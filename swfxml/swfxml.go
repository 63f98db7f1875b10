// Package swfxml reads the XML structural report ffdec writes for a swf
// container (its -swf2xml command) into an index of the container's
// definition tags.
//
// Only the top level tags are decoded into memory as a whole, one at a time;
// the rest of the report is streamed.
package swfxml

import (
	"encoding/xml"
	"io"
	"maps"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"

	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/geom"
)

// Index is a read-only view over one container's definition tags.
type Index struct {
	exported    map[string]int
	symbols     map[string]int
	types       map[int]asset.Type
	sprites     map[int][]ControlTag
	frameCounts map[int]int
	shapes      map[int]geom.Rectangle
}

// ControlTag is a tag inside a sprite's timeline.
type ControlTag struct {
	Type string

	// CharacterID is the character placed by the tag, or 0 if the tag
	// places none (such as a PlaceObject moving an existing depth).
	CharacterID int
	Depth       int

	// Matrix is nil if the tag carries no matrix.
	Matrix *geom.Matrix
}

// IsPlaceObject reports whether t is any version of PlaceObject.
func (t ControlTag) IsPlaceObject() bool {
	return strings.HasPrefix(t.Type, "PlaceObject")
}

// Placement is one occurrence of a character inside a sprite.
type Placement struct {
	CharacterID int
	Matrix      geom.Matrix
}

// Placement returns the character t places, and false if t places none. A
// placement without a matrix is at the origin.
func (t ControlTag) Placement() (Placement, bool) {
	if !t.IsPlaceObject() || t.CharacterID == 0 {
		return Placement{}, false
	}
	m := geom.Translate(0, 0)
	if t.Matrix != nil {
		m = *t.Matrix
	}
	return Placement{CharacterID: t.CharacterID, Matrix: m}, true
}

type xmlRect struct {
	XMin int `xml:"Xmin,attr"`
	XMax int `xml:"Xmax,attr"`
	YMin int `xml:"Ymin,attr"`
	YMax int `xml:"Ymax,attr"`
}

type xmlMatrix struct {
	HasScale    bool  `xml:"hasScale,attr"`
	ScaleX      int32 `xml:"scaleX,attr"`
	ScaleY      int32 `xml:"scaleY,attr"`
	HasRotate   bool  `xml:"hasRotate,attr"`
	RotateSkew0 int32 `xml:"rotateSkew0,attr"`
	RotateSkew1 int32 `xml:"rotateSkew1,attr"`
	TranslateX  int32 `xml:"translateX,attr"`
	TranslateY  int32 `xml:"translateY,attr"`
}

func (m xmlMatrix) matrix() geom.Matrix {
	out := geom.Translate(m.TranslateX, m.TranslateY)
	if m.HasScale {
		out = out.WithScale(m.ScaleX, m.ScaleY)
	}
	if m.HasRotate {
		out = out.WithRotate(m.RotateSkew0, m.RotateSkew1)
	}
	return out
}

// xmlItem is any <item> of the report. ffdec names the id attribute
// differently per tag type, and spells it characterId in place tags but
// characterID in bitmap definitions.
type xmlItem struct {
	Type        string     `xml:"type,attr"`
	ShapeID     string     `xml:"shapeId,attr"`
	SpriteID    string     `xml:"spriteId,attr"`
	SoundID     string     `xml:"soundId,attr"`
	BitmapID    string     `xml:"characterID,attr"`
	CharacterID string     `xml:"characterId,attr"`
	Depth       int        `xml:"depth,attr"`
	FrameCount  int        `xml:"frameCount,attr"`
	ShapeBounds *xmlRect   `xml:"shapeBounds"`
	Matrix      *xmlMatrix `xml:"matrix"`
	SubTags     []xmlItem  `xml:"subTags>item"`
	Tags        []string   `xml:"tags>item"`
	Names       []string   `xml:"names>item"`
}

// ParseFile reads the report at path.
func ParseFile(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening swf xml report")
	}
	defer f.Close()

	idx, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %q", path)
	}
	return idx, nil
}

// Parse reads a report from r.
func Parse(r io.Reader) (*Index, error) {
	idx := &Index{
		exported:    map[string]int{},
		symbols:     map[string]int{},
		types:       map[int]asset.Type{},
		sprites:     map[int][]ControlTag{},
		frameCounts: map[int]int{},
		shapes:      map[int]geom.Rectangle{},
	}

	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var path []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading swf xml")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "item" && len(path) == 2 && path[0] == "swf" && path[1] == "tags" {
				var it xmlItem
				if err := dec.DecodeElement(&it, &t); err != nil {
					return nil, errors.Wrap(err, "decoding tag")
				}
				if err := idx.add(it); err != nil {
					return nil, err
				}
				continue
			}
			path = append(path, t.Name.Local)
		case xml.EndElement:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		}
	}

	glog.V(2).Infof("swfxml: indexed %d definitions", len(idx.types))
	return idx, nil
}

func (idx *Index) add(it xmlItem) error {
	switch it.Type {
	case "DefineShapeTag", "DefineShape2Tag", "DefineShape3Tag", "DefineShape4Tag":
		id, err := atoi(it.ShapeID, it.Type)
		if err != nil {
			return err
		}
		idx.types[id] = asset.TypeShape
		if it.ShapeBounds != nil {
			b := it.ShapeBounds
			idx.shapes[id] = geom.Rect(b.XMin, b.XMax, b.YMin, b.YMax)
		}

	case "DefineSpriteTag":
		id, err := atoi(it.SpriteID, it.Type)
		if err != nil {
			return err
		}
		idx.types[id] = asset.TypeSprite
		idx.frameCounts[id] = it.FrameCount

		tags := make([]ControlTag, 0, len(it.SubTags))
		for _, sub := range it.SubTags {
			ct := ControlTag{Type: sub.Type, Depth: sub.Depth}
			if sub.CharacterID != "" {
				// A malformed id places nothing, same as a missing one.
				ct.CharacterID, _ = strconv.Atoi(strings.TrimSpace(sub.CharacterID))
			}
			if sub.Matrix != nil {
				m := sub.Matrix.matrix()
				ct.Matrix = &m
			}
			tags = append(tags, ct)
		}
		idx.sprites[id] = tags

	case "DefineSoundTag":
		id, err := atoi(it.SoundID, it.Type)
		if err != nil {
			return err
		}
		idx.types[id] = asset.TypeSound

	case "DefineBitsTag", "DefineBitsJPEG2Tag", "DefineBitsJPEG3Tag", "DefineBitsJPEG4Tag",
		"DefineBitsLosslessTag", "DefineBitsLossless2Tag":
		id, err := atoi(it.BitmapID, it.Type)
		if err != nil {
			return err
		}
		idx.types[id] = asset.TypeImage

	case "ExportAssetsTag":
		return pairNames(idx.exported, it)

	case "SymbolClassTag":
		return pairNames(idx.symbols, it)
	}
	return nil
}

// pairNames adds the i-th name of it as a name of its i-th tag. A later
// definition of a name replaces an earlier one. A tag whose name and id lists
// differ in length is skipped.
func pairNames(dst map[string]int, it xmlItem) error {
	if len(it.Tags) != len(it.Names) {
		glog.Warningf("swfxml: skipping %s with %d tags but %d names", it.Type, len(it.Tags), len(it.Names))
		return nil
	}
	for i, name := range it.Names {
		id, err := atoi(it.Tags[i], it.Type)
		if err != nil {
			return err
		}
		dst[name] = id
	}
	return nil
}

func atoi(s, tagType string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrapf(err, "%s: bad character id %q", tagType, s)
	}
	return id, nil
}

// ExportedAssets returns the names given to characters by ExportAssets tags.
func (idx *Index) ExportedAssets() map[string]int {
	return maps.Clone(idx.exported)
}

// SymbolClass returns the class names given to characters by SymbolClass
// tags.
func (idx *Index) SymbolClass() map[string]int {
	return maps.Clone(idx.symbols)
}

// AssetTypes returns the type of every recognized definition.
func (idx *Index) AssetTypes() map[int]asset.Type {
	return maps.Clone(idx.types)
}

// Sprite returns the timeline of sprite id.
func (idx *Index) Sprite(id int) ([]ControlTag, bool) {
	tags, ok := idx.sprites[id]
	return tags, ok
}

// FrameCount returns the number of frames sprite id declares.
func (idx *Index) FrameCount(id int) (int, bool) {
	n, ok := idx.frameCounts[id]
	return n, ok
}

// Shape returns the bounds shape id declares.
func (idx *Index) Shape(id int) (geom.Rectangle, bool) {
	r, ok := idx.shapes[id]
	return r, ok
}

// Placements returns every character placement in sprite id's timeline, in
// timeline order.
func (idx *Index) Placements(id int) ([]Placement, bool) {
	tags, ok := idx.sprites[id]
	if !ok {
		return nil, false
	}
	var out []Placement
	for _, t := range tags {
		if p, ok := t.Placement(); ok {
			out = append(out, p)
		}
	}
	return out, true
}
