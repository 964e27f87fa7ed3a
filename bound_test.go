package gishelpers

import (
	"strings"
	"testing"
)

func TestBoundEquality(t *testing.T) {
	a := MakeBound(1, 2, 3, 4)
	b := MakeBound(1, 2, 3, 4)
	if a != b {
		t.Errorf("%v and %v are expected to be equal", a, b)
	}
	for _, c := range []RasterBound{
		MakeBound(0, 2, 3, 4),
		MakeBound(1, 0, 3, 4),
		MakeBound(1, 2, 0, 4),
		MakeBound(1, 2, 3, 0),
	} {
		if a == c {
			t.Errorf("%v and %v are expected to differ", a, c)
		}
	}
}

func TestBoundArea(t *testing.T) {
	if got := MakeBound(5, 7, 4, 3).Area(); got != 12 {
		t.Errorf("expected area 12, got %d", got)
	}
}

func TestBoundContains(t *testing.T) {
	outer := MakeBound(0, 0, 10, 10)
	cases := []struct {
		inner RasterBound
		want  bool
	}{
		{MakeBound(0, 0, 10, 10), true},
		{MakeBound(2, 3, 4, 5), true},
		{MakeBound(8, 0, 3, 2), false},
		{MakeBound(0, 9, 1, 2), false},
		{MakeBound(-1, 0, 2, 2), false},
	}
	for _, c := range cases {
		if got := outer.Contains(c.inner); got != c.want {
			t.Errorf("Contains(%v) = %v, want %v", c.inner, got, c.want)
		}
	}
}

func TestBoundString(t *testing.T) {
	s := MakeBound(1, 2, 3, 4).String()
	for _, part := range []string{"x_off: 1", "y_off: 2", "x_size: 3", "y_size: 4"} {
		if !strings.Contains(s, part) {
			t.Errorf("%q is expected to contain %q", s, part)
		}
	}
}
