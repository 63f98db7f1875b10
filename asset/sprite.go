package asset

import (
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	_ "golang.org/x/image/bmp"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/geom"
)

var (
	// ErrFrameNotFound is returned for frame numbers the sprite does not have.
	ErrFrameNotFound = errors.New("frame not found")

	// ErrUnknownFrameFormat is returned when no frame 1 file exists in any
	// of FrameFormats. This includes directories holding no frames at all.
	ErrUnknownFrameFormat = errors.New("cannot detect the frame format")

	// ErrNotRaster is returned when decoding frames of a vector format.
	ErrNotRaster = errors.New("frame format is not a raster image")

	// ErrNoAnimation is returned when the sprite was not exported as an
	// animation in any of AnimationFormats.
	ErrNoAnimation = errors.New("no animation file")
)

// FrameFormats are the formats a single sprite frame may be exported in, in
// order of detection preference.
var FrameFormats = []ffdec.Format{
	ffdec.FormatSVG,
	ffdec.FormatPNG,
	ffdec.FormatCanvas,
	ffdec.FormatBMP,
}

// AnimationFormats are the formats a whole sprite may be exported in as one
// file, in order of detection preference. The file is frames.<format> in the
// sprite directory.
var AnimationFormats = []ffdec.Format{
	ffdec.FormatGIF,
	ffdec.FormatAVI,
}

// Sprite is an exported sprite: a directory named DefineSprite_<id> or
// DefineSprite_<id>_<name>, holding one file per frame, numbered from 1.
type Sprite struct {
	dir  string
	id   int
	name string

	mu        sync.Mutex
	format    ffdec.Format
	bounder   Bounder
	bounds    *geom.Rectangle
	hasBounds bool // bounds computed; bounds == nil means no geometry
}

// NewSprite returns the sprite exported into dir.
func NewSprite(dir string) (*Sprite, error) {
	base := filepath.Base(dir)
	rest := strings.TrimPrefix(base, ffdec.SpriteDirPrefix)
	if rest == base {
		return nil, errors.Errorf("%q is not a sprite directory", base)
	}

	idStr, name, _ := strings.Cut(rest, "_")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, errors.Wrapf(err, "%q is not a sprite directory", base)
	}

	return &Sprite{dir: dir, id: id, name: name}, nil
}

func (s *Sprite) ID() int    { return s.id }
func (s *Sprite) Type() Type { return TypeSprite }
func (*Sprite) isAsset()     {}

// Name returns the name the sprite was exported under, or "".
func (s *Sprite) Name() string {
	return s.name
}

// Dir returns the directory holding the frames.
func (s *Sprite) Dir() string {
	return s.dir
}

// SetBounder attaches the bounds computation used by Bounds.
func (s *Sprite) SetBounder(b Bounder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bounder = b
}

// Bounds returns the rectangle enclosing everything the sprite draws, and
// false if it draws nothing or no Bounder is attached.
//
// The result is computed on first call and kept for the sprite's lifetime.
func (s *Sprite) Bounds() (geom.Rectangle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasBounds {
		if s.bounder == nil {
			return geom.Rectangle{}, false, nil
		}
		r, ok, err := s.bounder.Bounds(s.id)
		if err != nil {
			return geom.Rectangle{}, false, errors.Wrapf(err, "bounds of sprite %d", s.id)
		}
		if ok {
			s.bounds = &r
		}
		s.hasBounds = true
	}

	if s.bounds == nil {
		return geom.Rectangle{}, false, nil
	}
	return *s.bounds, true, nil
}

// FrameFormat detects the format the frames were exported in, by looking for
// frame 1 in each of FrameFormats.
func (s *Sprite) FrameFormat() (ffdec.Format, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.format != "" {
		return s.format, nil
	}

	for _, f := range FrameFormats {
		if _, err := os.Stat(s.framePath(1, f)); err == nil {
			glog.V(2).Infof("sprite %d: frames are %s", s.id, f)
			s.format = f
			return f, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownFrameFormat, "sprite %d in %q", s.id, s.dir)
}

// MimeType returns the mime type of the frame files.
func (s *Sprite) MimeType() (string, error) {
	f, err := s.FrameFormat()
	if err != nil {
		return "", err
	}
	switch f {
	case ffdec.FormatSVG:
		return "image/svg+xml", nil
	case ffdec.FormatCanvas:
		return "text/html", nil
	}
	return "image/" + string(f), nil
}

// Frame returns the path of frame number n. Frames are numbered from 1.
func (s *Sprite) Frame(n int) (string, error) {
	f, err := s.FrameFormat()
	if err != nil {
		return "", err
	}

	path := s.framePath(n, f)
	if n < 1 {
		return "", errors.Wrapf(ErrFrameNotFound, "cannot find frame number %d", n)
	}
	if _, err := os.Stat(path); err != nil {
		return "", errors.Wrapf(ErrFrameNotFound, "cannot find frame number %d", n)
	}
	return path, nil
}

// FrameCount returns the number of consecutive frames from 1.
func (s *Sprite) FrameCount() (int, error) {
	f, err := s.FrameFormat()
	if err != nil {
		return 0, err
	}
	n := 0
	for {
		if _, err := os.Stat(s.framePath(n+1, f)); err != nil {
			return n, nil
		}
		n++
	}
}

// FrameImage decodes frame n. Only raster formats can be decoded.
func (s *Sprite) FrameImage(n int) (image.Image, error) {
	f, err := s.FrameFormat()
	if err != nil {
		return nil, err
	}
	if f != ffdec.FormatPNG && f != ffdec.FormatBMP {
		return nil, errors.Wrapf(ErrNotRaster, "sprite %d frames are %s", s.id, f)
	}

	path, err := s.Frame(n)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening frame %d", n)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding frame %d of sprite %d", n, s.id)
	}
	return img, nil
}

// Frames decodes every frame.
func (s *Sprite) Frames() ([]image.Image, error) {
	count, err := s.FrameCount()
	if err != nil {
		return nil, err
	}

	imgs := make([]image.Image, count)
	var g errgroup.Group
	for i := range imgs {
		i := i
		g.Go(func() error {
			img, err := s.FrameImage(i + 1)
			imgs[i] = img
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return imgs, nil
}

// FrameDataURL returns frame n as a data: URL, ready to be inlined in HTML.
func (s *Sprite) FrameDataURL(n int) (string, error) {
	path, err := s.Frame(n)
	if err != nil {
		return "", err
	}
	mimeType, err := s.MimeType()
	if err != nil {
		return "", err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading frame %d", n)
	}
	return dataurl.New(b, mimeType).String(), nil
}

// Animation returns the path and format of the whole-sprite animation file,
// as written by an export with ItemTypeFormat(ffdec.ItemSprite, f) for one
// of AnimationFormats.
func (s *Sprite) Animation() (string, ffdec.Format, error) {
	for _, f := range AnimationFormats {
		path := filepath.Join(s.dir, "frames."+string(f))
		if _, err := os.Stat(path); err == nil {
			return path, f, nil
		}
	}
	return "", "", errors.Wrapf(ErrNoAnimation, "sprite %d in %q", s.id, s.dir)
}

func (s *Sprite) framePath(n int, f ffdec.Format) string {
	return filepath.Join(s.dir, strconv.Itoa(n)+"."+frameExt(f))
}

// frameExt is the file extension ffdec uses for frames in format f.
func frameExt(f ffdec.Format) string {
	if f == ffdec.FormatCanvas {
		return "html"
	}
	return string(f)
}
