//go:build !windows

package imageprint

import (
	"fmt"
	"image"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
)

// IsTermITerm reports whether the terminal understands iTerm2's image
// escape sequences.
func IsTermITerm() bool {
	return rasterm.IsTermItermWez()
}

// PrintRasTerm draws an image using the RasTerm library, in whichever
// protocol the terminal supports: kitty, iTerm2 or sixel.
//
// It returns false, drawing nothing, if the terminal supports none of them.
func (p *Printer) PrintRasTerm(i image.Image) (bool, error) {
	if rasterm.IsTermKitty() {
		if err := (rasterm.Settings{}).KittyWriteImage(p.W, i); err != nil {
			return true, err
		}
		fmt.Fprint(p.W, "\n")
		return true, nil
	}
	if rasterm.IsTermItermWez() {
		if err := (rasterm.Settings{}).ItermWriteImage(p.W, i); err != nil {
			return true, err
		}
		fmt.Fprint(p.W, "\n")
		return true, nil
	}
	if capable, err := rasterm.IsSixelCapable(); capable && err == nil {
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.Point{})

		if err := (rasterm.Settings{}).SixelWriteImage(p.W, palettedImage); err != nil {
			return true, err
		}
		fmt.Fprint(p.W, "\n")
		return true, nil
	}
	return false, nil
}
