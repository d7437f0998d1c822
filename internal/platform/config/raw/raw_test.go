package raw

import (
	"testing"
	"time"
)

func TestGet_DefaultAndPrefix(t *testing.T) {
	t.Setenv("GEULPI_RAW_A", " hello ")

	c := New().Prefix("GEULPI_RAW_")
	if got := c.Get("A", "x"); got != "hello" {
		t.Fatalf("Get = %q, want %q", got, "hello")
	}
	if got := c.Get("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get default = %q, want %q", got, "fallback")
	}
}

func TestGetBool(t *testing.T) {
	cases := []struct {
		val  string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"true", false, true},
		{"yes", false, true},
		{"no", true, false},
		{"", true, true},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Setenv("GEULPI_RAW_B", tc.val)
		if got := New().Prefix("GEULPI_RAW_").GetBool("B", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}

func TestGetInt(t *testing.T) {
	cases := []struct {
		val  string
		want int
	}{
		{"42", 42},
		{"0", 0},
		{"-3", 7},
		{"abc", 7},
		{"", 7},
	}
	for _, tc := range cases {
		t.Setenv("GEULPI_RAW_N", tc.val)
		if got := New().Prefix("GEULPI_RAW_").GetInt("N", 7); got != tc.want {
			t.Fatalf("GetInt(%q) = %d, want %d", tc.val, got, tc.want)
		}
	}
}

func TestGetDuration(t *testing.T) {
	t.Setenv("GEULPI_RAW_D", "1500ms")
	c := New().Prefix("GEULPI_RAW_")
	if got := c.GetDuration("D", time.Second); got != 1500*time.Millisecond {
		t.Fatalf("GetDuration = %v", got)
	}
	t.Setenv("GEULPI_RAW_D", "nope")
	if got := c.GetDuration("D", time.Second); got != time.Second {
		t.Fatalf("GetDuration invalid = %v, want 1s", got)
	}
}
