package strings

import (
	"slices"
	"testing"

	kit "diffjar/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()
	def := []string{"GET", "POST"}
	if got := IfEmpty(nil, def); !slices.Equal(got, def) {
		t.Fatalf("got %v want %v", got, def)
	}
	in := []string{"PUT"}
	if got := IfEmpty(in, def); !slices.Equal(got, in) {
		t.Fatalf("got %v want %v", got, in)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()
	if got := MustString("diff", "name"); got != "diff" {
		t.Fatalf("got %q want diff", got)
	}
	kit.MustPanic(t, func() { MustString("  \t", "name") })
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"diff":     "/diff",
		"/diff":    "/diff",
		" /diff/ ": "/diff",
		"//a/b//":  "/a/b",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) got %q want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
	kit.MustPanic(t, func() { MustPrefix("") })
}
