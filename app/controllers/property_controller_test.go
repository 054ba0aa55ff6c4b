package controllers

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Cozy Cabin near AT&T Stadium!", "cozy-cabin-near-at-t-stadium"},
		{"  Downtown Loft  ", "downtown-loft"},
		{"'''", "listing"},
		{"", "listing"},
		{strings.Repeat("a", 80), strings.Repeat("a", 60)},
	}
	for _, tc := range cases {
		if got := slugify(tc.title); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestNormalizeClickSourceWhitelists(t *testing.T) {
	cases := map[string]string{
		"map":       "map",
		"LIST":      "list",
		" profile ": "profile",
		"evil":      "directory",
		"":          "directory",
	}
	for raw, want := range cases {
		if got := normalizeClickSource(raw); got != want {
			t.Errorf("normalizeClickSource(%q) = %q, want %q", raw, got, want)
		}
	}
}
