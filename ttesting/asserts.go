package ttesting

import (
	"reflect"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualFloat(t *testing.T, name string, got, want float64) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

func AssertEqualInts(t *testing.T, name string, got, want []int) {
	t.Run(name, func(t *testing.T) {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %v; want %v", got, want)
		}
	})
}

// AssertEqual compares arbitrary values with reflect.DeepEqual. Prefer the
// typed variants where they exist; their failure messages are easier to read.
func AssertEqual(t *testing.T, name string, got, want interface{}) {
	t.Run(name, func(t *testing.T) {
		if !reflect.DeepEqual(got, want) {
			t.Errorf("got %+v; want %+v", got, want)
		}
	})
}

func AssertInRangeInt(t *testing.T, name string, got, wantMin, wantMax int) {
	t.Run(name, func(t *testing.T) {
		if got < wantMin || got > wantMax {
			t.Errorf("got %d; want [%d,%d]", got, wantMin, wantMax)
		}
	})
}
