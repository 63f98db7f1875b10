package ttesting

import (
	"bytes"
	_ "embed"
	"io"
)

// race3s.xml is the swf2xml report of a small container with:
//
//	sound 1 (class EngineStart)
//	shape 3, placed by sprite 4
//	shape 5, placed at half scale by sprite 6
//	shapes 7 (twice) and 8 (rotated), and sprite 6, placed by sprite 9
//	sprite 22 (export race3s_fla.readySet_7), sprite 40 (class race3s_fla.finish_10)
//	sprite 41 (empty) and image 42
//	"Ambiguous" exported as 22 but declared as class of 40
//
//go:embed testdata/race3s.xml
var race3sReport []byte

// Race3sReport returns a fresh reader over the fixture report.
func Race3sReport() io.Reader {
	return bytes.NewReader(race3sReport)
}

// Race3sName is the file name the fixture report was generated from.
const Race3sName = "race3s.swf"

//go:embed testdata/cycle.xml
var cycleReport []byte

// CycleReport returns a report in which sprite 10 places sprite 11, which
// places sprite 10 again.
func CycleReport() io.Reader {
	return bytes.NewReader(cycleReport)
}
