package textnorm

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "move lunch to 1pm", "move lunch to 1pm"},
		{"trim", "  hello  ", "hello"},
		{"collapse whitespace", "a \t\n  b", "a b"},
		{"strip control", "a\x00b\x1fc", "abc"},
		{"empty", "", ""},
		{"only space", "   \t ", ""},
		{"nfc compose", "é", "é"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Clean(tc.in); got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestClean_CapsLength(t *testing.T) {
	t.Parallel()

	in := strings.Repeat("x", MaxInputRunes+100)
	got := Clean(in)
	if len([]rune(got)) != MaxInputRunes {
		t.Fatalf("len = %d, want %d", len([]rune(got)), MaxInputRunes)
	}
}

func TestCleanAll(t *testing.T) {
	t.Parallel()

	got := CleanAll([]string{" a ", "", "  ", "b"})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("CleanAll = %v", got)
	}
	if CleanAll(nil) != nil {
		t.Fatal("nil in should give nil out")
	}
	if CleanAll([]string{"  "}) != nil {
		t.Fatal("all-blank in should give nil out")
	}
}
