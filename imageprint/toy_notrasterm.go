//go:build windows

package imageprint

import (
	"flag"
	"image"
)

var (
	forceITerm = flag.Bool("force_iterm", false, "value to force iterm detection to take (implementation variant: no rasterm)")
)

func IsTermITerm() bool {
	return *forceITerm
}

func (p *Printer) PrintRasTerm(i image.Image) (bool, error) {
	return false, nil
}
