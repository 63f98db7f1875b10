// Command swfprint resolves a sprite of an swf container, then prints what
// it knows about it: id, bounds, the characters it places, and its frames.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/bradfitz/iter"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"

	swf "badc0de.net/pkg/go-swf"
	"badc0de.net/pkg/go-swf/asset"
	"badc0de.net/pkg/go-swf/ffdec"
	"badc0de.net/pkg/go-swf/paths"
)

var (
	swfPath   = flag.String("swf", "", "swf container to read")
	spriteKey = flag.String("sprite", "", "name or character id of the sprite to print")
	frame     = flag.Int("frame", 0, "frame to print; 0 prints all of them")
	resultDir = flag.String("result_dir", "", "directory to export into; a temporary one if empty")
	banner    = flag.Bool("banner", false, "whether to print the sprite name in large letters first")
	animation = flag.String("animation", "", "if set, export the whole sprite as one gif or avi file into -result_dir and print its path instead")

	ffdecJarPath string
)

func main() {
	paths.SetupFilePathFlag(swf.JarName, "ffdec_jar_path", &ffdecJarPath)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *swfPath == "" || *spriteKey == "" {
		glog.Exitf("both -swf and -sprite are required")
	}
	if ffdecJarPath == "" {
		glog.Exitf("%s not found; run ffdecinstall or pass -ffdec_jar_path", swf.JarName)
	}

	l := swf.NewLoader(ffdec.New(ffdecJarPath))
	l.ResultDir = *resultDir

	ctx := context.Background()
	f := l.Open(*swfPath)
	if *animation != "" {
		path, err := f.ExportAnimation(ctx, *spriteKey, *resultDir, ffdec.Format(*animation))
		if err != nil {
			glog.Exitf("exporting %q as %s: %v", *spriteKey, *animation, err)
		}
		if path == "" {
			glog.Exitf("%q is not a sprite of %s", *spriteKey, *swfPath)
		}
		fmt.Println(path)
		return
	}

	s, err := f.Sprite(ctx, *spriteKey)
	if err != nil {
		glog.Exitf("loading %q: %v", *spriteKey, err)
	}
	if s == nil {
		glog.Exitf("%q is not a sprite of %s", *spriteKey, *swfPath)
	}

	if *banner {
		name := s.Name()
		if name == "" {
			name = *spriteKey
		}
		figure.NewFigure(name, "", false).Print()
		fmt.Println()
	}

	if err := describe(ctx, os.Stdout, f, s); err != nil {
		glog.Exitf("describing sprite %d: %v", s.ID(), err)
	}

	if *frame != 0 {
		printFrame(s, *frame)
		return
	}
	count, err := s.FrameCount()
	if err != nil {
		glog.Exitf("counting frames: %v", err)
	}
	for i := range iter.N(count) {
		printFrame(s, i+1)
	}
}

func describe(ctx context.Context, w io.Writer, f *swf.File, s *asset.Sprite) error {
	fmt.Fprintf(w, "sprite %d", s.ID())
	if s.Name() != "" {
		fmt.Fprintf(w, " (%s)", s.Name())
	}
	fmt.Fprintln(w)

	r, ok, err := s.Bounds()
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(w, "bounds: %v, %gx%g px at (%g, %g)\n", r, r.Width(), r.Height(), r.XOffset(), r.YOffset())
	} else {
		fmt.Fprintln(w, "bounds: none")
	}

	l, err := f.Loader(ctx)
	if err != nil {
		return err
	}
	deps, _ := l.Dependencies(s.ID())
	ids := make([]string, len(deps))
	for i, id := range deps {
		t, _ := l.TypeOf(id)
		ids[i] = fmt.Sprintf("%d (%v)", id, t)
	}
	fmt.Fprintf(w, "places: %s\n", strings.Join(ids, ", "))

	format, err := s.FrameFormat()
	if err != nil {
		return err
	}
	count, err := s.FrameCount()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "frames: %d %s in %s\n", count, format, s.Dir())
	return nil
}

func printFrame(s *asset.Sprite, n int) {
	fmt.Printf("frame %d:\n", n)
	img, err := s.FrameImage(n)
	if err != nil {
		// Vector frames cannot be drawn here; point at the file instead.
		if path, perr := s.Frame(n); perr == nil {
			fmt.Println(path)
			return
		}
		glog.Errorf("frame %d: %v", n, err)
		return
	}
	out(img)
}
