//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"os"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

type termSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

// getTermSize asks the controlling terminal for its size in cells and, where
// the terminal reports it, in pixels.
func getTermSize() (termSize, error) {
	f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666)
	if err == nil {
		defer f.Close()
		// see https://sw.kovidgoyal.net/kitty/graphics-protocol/#getting-the-window-size
		if sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ); err == nil {
			return termSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}, nil
		}
	}

	w, h, err := terminal.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		return termSize{}, err
	}
	return termSize{WSRow: uint(h), WSCol: uint(w)}, nil
}
