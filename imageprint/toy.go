// Package imageprint prints images on terminal. UNSUPPORTED debug package.
//
// This package has an API with no stability guarantees.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"
	"os"

	"github.com/gookit/color"
	"github.com/nfnt/resize"
)

// Printer draws images as text on W.
type Printer struct {
	W io.Writer

	// Blanks draws pixels as coloured blanks instead of shaded characters.
	Blanks bool
}

// NewPrinter returns a printer drawing on stdout.
func NewPrinter() *Printer {
	return &Printer{W: os.Stdout}
}

type mode int

const (
	mode256 mode = iota
	modeTrueColor
	modeNoColor
)

func (p *Printer) shade(col ic.Color, m mode) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Fprint(p.W, "\x1b[0m  ")
		return
	}

	s := "  "
	if !p.Blanks {
		switch a := ((cR + cG + cB) / 3) >> 8; {
		case a < 32:
			s = ".."
		case a < 64:
			s = "--"
		case a < 128:
			s = "=="
		default:
			s = "##"
		}
	}

	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch m {
	case modeNoColor:
		fmt.Fprint(p.W, s)
	case modeTrueColor:
		fmt.Fprintf(p.W, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
	default:
		fmt.Fprint(p.W, color.RGB(r, g, b, true).Sprintf("%s", s))
	}
}

func (p *Printer) print(i image.Image, m mode) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			p.shade(i.At(x, y), m)
		}
		if m != modeNoColor {
			fmt.Fprint(p.W, "\x1b[0m")
		}
		fmt.Fprint(p.W, "\n")
	}
}

// Print256Color draws an image using 256color'd ascii art.
func (p *Printer) Print256Color(i image.Image) {
	p.print(i, mode256)
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func (p *Printer) Print24bit(i image.Image) {
	p.print(i, modeTrueColor)
}

// PrintNoColor draws an image without using color escape sequences. Only makes sense with Blanks unset.
func (p *Printer) PrintNoColor(i image.Image) {
	p.print(i, modeNoColor)
}

// PrintITerm draws an image using iTerm2's escape sequences, whether or not
// the terminal looks like iTerm2.
//
// https://www.iterm2.com/documentation-images.html
func (p *Printer) PrintITerm(i image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return err
	}
	bEnc.Close()
	_, err := fmt.Fprintf(p.W, "\n\033]1337;File=name=%s;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}

// Downsize scales i down to fit into maxWidth by maxHeight pixels, keeping
// its aspect ratio. Images already small enough are returned as they are.
//
// Terminals draw two characters per pixel, so frames usually need this
// before being printed.
func Downsize(i image.Image, maxWidth, maxHeight uint) image.Image {
	size := i.Bounds().Size()
	if uint(size.X) <= maxWidth && uint(size.Y) <= maxHeight {
		return i
	}
	return resize.Thumbnail(maxWidth, maxHeight, i, resize.Bilinear)
}
