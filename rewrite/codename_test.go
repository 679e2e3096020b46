package rewrite

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseCodename(t *testing.T) {
	cases := map[string][]string{
		"mini-retro":  {"mini", "retro"},
		"mini_retro":  {"mini", "retro"},
		"MINI_RETRO":  {"mini", "retro"},
		"MiniRetro":   {"mini", "retro"},
		"Mini Retro":  {"mini", "retro"},
		"nano.core2":  {"nano", "core2"},
		"HTTPServer":  {"http", "server"},
		"retro":       {"retro"},
		"  mini--x  ": {"mini", "x"},
	}

	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			c, err := ParseCodename(in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(want, c.Words()); diff != "" {
				t.Errorf("%q (-want +got):\n%s", in, diff)
			}
		})
	}
}

func TestParseCodenameInvalid(t *testing.T) {
	for _, in := range []string{"", "-", "mini/retro", "a$b"} {
		if _, err := ParseCodename(in); !errors.Is(err, ErrInvalidCodename) {
			t.Errorf("%q: ErrInvalidCodename erwartet, got %v", in, err)
		}
	}
}

func TestCodenameForms(t *testing.T) {
	c := MustParseCodename(DefaultCodename)

	got := map[string]string{
		"kebab":    c.Kebab(),
		"snake":    c.Snake(),
		"upper":    c.Upper(),
		"camel":    c.Camel(),
		"title":    c.TitleSnake(),
		"sentence": c.Sentence(),
		"compact":  c.Compact(),
		"string":   c.String(),
	}
	want := map[string]string{
		"kebab":    "mini-retro",
		"snake":    "mini_retro",
		"upper":    "MINI_RETRO",
		"camel":    "MiniRetro",
		"title":    "Mini_Retro",
		"sentence": "Mini-retro",
		"compact":  "MINIRETRO",
		"string":   "mini-retro",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Schreibweisen (-want +got):\n%s", diff)
	}
}
