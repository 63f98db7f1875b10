package ffdec

import (
	"strings"
)

// ItemType is a kind of item the -export command can write out.
type ItemType string

const (
	ItemScript     ItemType = "script"     // ActionScript source
	ItemImage      ItemType = "image"      // PNG/JPEG
	ItemShape      ItemType = "shape"      // SVG
	ItemMorphShape ItemType = "morphshape" // SVG
	ItemMovie      ItemType = "movie"      // FLV without sound
	ItemFont       ItemType = "font"       // TTF
	ItemFrame      ItemType = "frame"      // PNG
	ItemSprite     ItemType = "sprite"     // PNG
	ItemButton     ItemType = "button"     // PNG
	ItemSound      ItemType = "sound"      // MP3/WAV/FLV
	ItemBinaryData ItemType = "binaryData" // raw data
	ItemText       ItemType = "text"       // plain text
	ItemAll        ItemType = "all"        // every resource, but not FLA/XFL
	ItemFLA        ItemType = "fla"
	ItemXFL        ItemType = "xfl"
)

// Format is an output format for an item type, as passed to -format.
type Format string

const (
	FormatAS         Format = "as"
	FormatPCode      Format = "pcode"
	FormatPCodeHex   Format = "pcodehex"
	FormatHex        Format = "hex"
	FormatSVG        Format = "svg"
	FormatPNG        Format = "png"
	FormatCanvas     Format = "canvas"
	FormatBMP        Format = "bmp"
	FormatGIF        Format = "gif"
	FormatAVI        Format = "avi"
	FormatPDF        Format = "pdf"
	FormatPNGGIFJPEG Format = "png_gif_jpeg"
	FormatJPEG       Format = "jpeg"
	FormatPlain      Format = "plain"
	FormatFormatted  Format = "formatted"
	FormatMP3WAVFLV  Format = "mp3_wav_flv"
	FormatMP3WAV     Format = "mp3_wav"
	FormatWAV        Format = "wav"
	FormatFLV        Format = "flv"
	FormatTTF        Format = "ttf"
	FormatWOFF       Format = "woff"
)

// Export describes an -export command: which items of which input to write
// into which output directory.
//
// Like Jar, Export is a value and every modifier returns a copy.
type Export struct {
	input  string
	output string
	types  []typeFormat
	frames Ranges
	ids    Ranges
}

type typeFormat struct {
	itemType ItemType
	format   Format
}

// NewExport returns an empty export description.
func NewExport() Export {
	return Export{}
}

// Input sets the swf file, or directory of swf files, to export from.
func (e Export) Input(fileOrDirectory string) Export {
	e.input = fileOrDirectory
	return e
}

// Output sets the directory to export into. When unset, the tool allocates a
// fresh temporary directory.
func (e Export) Output(dir string) Export {
	e.output = dir
	return e
}

// ItemTypes adds item types to export in their default format.
func (e Export) ItemTypes(types ...ItemType) Export {
	for _, t := range types {
		e = e.withType(t, "")
	}
	return e
}

// ItemTypeFormat adds an item type exported in the passed format.
func (e Export) ItemTypeFormat(t ItemType, f Format) Export {
	return e.withType(t, f)
}

func (e Export) withType(t ItemType, f Format) Export {
	types := append([]typeFormat(nil), e.types...)
	for i := range types {
		if types[i].itemType == t {
			types[i].format = f
			e.types = types
			return e
		}
	}
	e.types = append(types, typeFormat{itemType: t, format: f})
	return e
}

// Select adds frame (or page) ranges to export.
func (e Export) Select(ranges ...Range) Export {
	e.frames = append(append(Ranges(nil), e.frames...), ranges...)
	return e
}

// IDs adds character id ranges to export.
func (e Export) IDs(ranges ...Range) Export {
	e.ids = append(append(Ranges(nil), e.ids...), ranges...)
	return e
}

// InputPath returns the configured input.
func (e Export) InputPath() string {
	return e.input
}

// OutputDir returns the configured output directory, or "" if the tool is
// to allocate one.
func (e Export) OutputDir() string {
	return e.output
}

// Types returns the requested item types, in the order they were added.
func (e Export) Types() []ItemType {
	types := make([]ItemType, len(e.types))
	for i, tf := range e.types {
		types[i] = tf.itemType
	}
	return types
}

// FormatOf returns the format requested for t, "" for its default format,
// and false if t is not exported at all.
func (e Export) FormatOf(t ItemType) (Format, bool) {
	for _, tf := range e.types {
		if tf.itemType == t {
			return tf.format, true
		}
	}
	return "", false
}

// SelectedFrames returns the frame ranges; nil means all frames.
func (e Export) SelectedFrames() Ranges {
	return e.frames
}

// SelectedIDs returns the character id ranges; nil means all characters.
func (e Export) SelectedIDs() Ranges {
	return e.ids
}

// command renders the export onto j, writing into output.
func (e Export) command(j Jar, output, onError string) (Jar, error) {
	if e.input == "" {
		return j, ErrMissingInput
	}

	var formats []string
	for _, tf := range e.types {
		if tf.format != "" {
			formats = append(formats, string(tf.itemType)+":"+string(tf.format))
		}
	}
	if len(formats) > 0 {
		j = j.Option("format", strings.Join(formats, ","))
	}
	if len(e.frames) > 0 {
		j = j.Option("select", e.frames.String())
	}
	if len(e.ids) > 0 {
		j = j.Option("selectid", e.ids.String())
	}

	types := make([]string, len(e.types))
	for i, tf := range e.types {
		types[i] = string(tf.itemType)
	}

	return j.
		Option("onerror", onError).
		Option("export", strings.Join(types, ",")).
		Argument(output).
		Argument(e.input), nil
}
