package raw

import "testing"

func TestEnv(t *testing.T) {
	e := Env("RAWT_")
	t.Setenv("RAWT_FORMAT", " json ")
	t.Setenv("RAWT_CALLER", "true")
	t.Setenv("RAWT_CALLER_BAD", "sure")
	t.Setenv("RAWT_BACKUPS", "7")
	t.Setenv("RAWT_NEG", "-1")
	t.Setenv("RAWT_WORD", "seven")

	if got := e.String("FORMAT", "console"); got != "json" {
		t.Errorf("String = %q", got)
	}
	if got := e.String("UNSET", "console"); got != "console" {
		t.Errorf("String unset = %q", got)
	}
	if !e.Bool("CALLER", false) {
		t.Error("Bool true not parsed")
	}
	if !e.Bool("CALLER_BAD", true) || e.Bool("CALLER_BAD", false) {
		t.Error("invalid bool should give default")
	}
	for key, want := range map[string]int{"BACKUPS": 7, "NEG": 3, "WORD": 3, "UNSET": 3} {
		if got := e.Count(key, 3); got != want {
			t.Errorf("Count(%s) = %d, want %d", key, got, want)
		}
	}
}
