package envutil

import (
	"testing"
	"time"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "42")
	if got := Int("ENVUTIL_INT", 1); got != 42 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("ENVUTIL_INT", "nope")
	if got := Int("ENVUTIL_INT", 1); got != 1 {
		t.Fatalf("expected default, got %d", got)
	}
}

func TestBool(t *testing.T) {
	t.Setenv("ENVUTIL_BOOL", "off")
	if Bool("ENVUTIL_BOOL", true) {
		t.Fatal("expected false")
	}
	t.Setenv("ENVUTIL_BOOL", "garbage")
	if !Bool("ENVUTIL_BOOL", true) {
		t.Fatal("expected default")
	}
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_DUR", "1500ms")
	if got := Duration("ENVUTIL_DUR", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("got %v", got)
	}
	t.Setenv("ENVUTIL_DUR", "4")
	if got := Duration("ENVUTIL_DUR", time.Second); got != 4*time.Second {
		t.Fatalf("got %v", got)
	}
}

func TestCSV(t *testing.T) {
	t.Setenv("ENVUTIL_CSV", " a, ,b ")
	got := CSV("ENVUTIL_CSV", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %#v", got)
	}
}

func TestFloat(t *testing.T) {
	t.Setenv("ENVUTIL_FLOAT", "0.25")
	if got := Float("ENVUTIL_FLOAT", 1); got != 0.25 {
		t.Fatalf("got %v", got)
	}
	t.Setenv("ENVUTIL_FLOAT", "nope")
	if got := Float("ENVUTIL_FLOAT", 1); got != 1 {
		t.Fatalf("expected default, got %v", got)
	}
}
