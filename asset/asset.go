// Package asset holds the characters of a swf container once they are
// materialized on disk by an export.
package asset

import (
	"fmt"
	"mime"
	"path/filepath"

	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/geom"
)

// Type is the kind of a character definition.
//
// The set is closed; every switch over Type handles all of its values.
type Type int

const (
	TypeSprite Type = iota + 1
	TypeShape
	TypeSound
	TypeImage
)

// Types lists every Type.
var Types = []Type{TypeSprite, TypeShape, TypeSound, TypeImage}

func (t Type) String() string {
	switch t {
	case TypeSprite:
		return "sprite"
	case TypeShape:
		return "shape"
	case TypeSound:
		return "sound"
	case TypeImage:
		return "image"
	}
	return fmt.Sprintf("asset type %d unknown", int(t))
}

// ItemType returns the export item type writing out characters of type t.
func (t Type) ItemType() ffdec.ItemType {
	switch t {
	case TypeSprite:
		return ffdec.ItemSprite
	case TypeShape:
		return ffdec.ItemShape
	case TypeSound:
		return ffdec.ItemSound
	case TypeImage:
		return ffdec.ItemImage
	}
	panic(fmt.Sprintf("asset: no item type for %v", t))
}

// Asset is a materialized character.
//
// The implementations are *Sprite, *Shape and *Image. Sounds are known by
// type only and never materialized.
type Asset interface {
	ID() int
	Type() Type

	isAsset()
}

// Bounder computes the bounds of a character from the container's structure.
// ok is false when the character draws nothing.
type Bounder interface {
	Bounds(id int) (r geom.Rectangle, ok bool, err error)
}

// Shape is an exported shape file.
type Shape struct {
	id     int
	file   string
	bounds *geom.Rectangle
}

// NewShape returns the shape id exported to file. bounds may be nil if the
// shape's bounds are unknown.
func NewShape(id int, file string, bounds *geom.Rectangle) *Shape {
	return &Shape{id: id, file: file, bounds: bounds}
}

func (s *Shape) ID() int { return s.id }
func (s *Shape) Type() Type { return TypeShape }
func (s *Shape) File() string { return s.file }
func (*Shape) isAsset() {}

// MimeType of the exported file.
func (s *Shape) MimeType() string {
	return mimeTypeOf(s.file)
}

// Bounds returns the shape's bounds as declared in its definition.
func (s *Shape) Bounds() (geom.Rectangle, bool) {
	if s.bounds == nil {
		return geom.Rectangle{}, false
	}
	return *s.bounds, true
}

// Image is an exported bitmap.
type Image struct {
	id   int
	file string
}

func NewImage(id int, file string) *Image {
	return &Image{id: id, file: file}
}

func (i *Image) ID() int { return i.id }
func (i *Image) Type() Type { return TypeImage }
func (i *Image) File() string { return i.file }
func (*Image) isAsset() {}

// MimeType of the exported file.
func (i *Image) MimeType() string {
	return mimeTypeOf(i.file)
}

func mimeTypeOf(file string) string {
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}
