package main

import (
	"flag"
	"image"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-swf/imageprint"
)

var (
	col      = flag.Bool("col", true, "whether to print in color at all")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with whatever graphics protocol the terminal speaks")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink images to fit the terminal")
)

func out(img image.Image) {
	if *downsize {
		ts, err := getTermSize()
		if err == nil {
			if (ts.WSXPixel != 0 && ts.WSYPixel != 0) && (*rasterm || *iterm) {
				// Prefer native size if the terminal will draw an actual image.
				img = imageprint.Downsize(img, ts.WSXPixel/2, ts.WSYPixel/2)
			} else {
				// Two characters per pixel.
				img = imageprint.Downsize(img, ts.WSCol/2, ts.WSRow)
			}
		}
	}

	p := imageprint.NewPrinter()
	p.Blanks = *blanks
	if *rasterm {
		if ok, err := p.PrintRasTerm(img); err != nil {
			glog.Errorf("printing with rasterm: %v", err)
		} else if ok {
			return
		}
	}

	if !*col {
		p.PrintNoColor(img)
	} else if *iterm {
		if err := p.PrintITerm(img, "frame.png"); err != nil {
			glog.Errorf("printing with iterm: %v", err)
		}
	} else if *col256 {
		p.Print256Color(img)
	} else {
		p.Print24bit(img)
	}
}
