package config

import (
	"testing"
	"time"

	"geulpi/internal/platform/testkit"
)

func TestPrefixComposition(t *testing.T) {
	t.Setenv("CORE_BRIDGE_TIMEOUT", "45s")

	root := New()
	bridge := root.Prefix("CORE_").Prefix("BRIDGE_")
	if got := bridge.MayDuration("TIMEOUT", time.Second); got != 45*time.Second {
		t.Fatalf("MayDuration = %v, want 45s", got)
	}
}

func TestMayValues(t *testing.T) {
	t.Setenv("X_STR", "topic-a")
	t.Setenv("X_INT", "12")
	t.Setenv("X_BOOL", "true")
	t.Setenv("X_CSV", "a, b ,,c")

	c := New().Prefix("X_")
	if got := c.MayString("STR", "d"); got != "topic-a" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayInt("INT", 0); got != 12 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayBool("BOOL", false); !got {
		t.Fatalf("MayBool = false")
	}
	csv := c.MayCSV("CSV", nil)
	if len(csv) != 3 || csv[0] != "a" || csv[1] != "b" || csv[2] != "c" {
		t.Fatalf("MayCSV = %v", csv)
	}
	if got := c.MayInt("MISSING", 9); got != 9 {
		t.Fatalf("MayInt default = %d", got)
	}
}

func TestMustStringPanicsOnMissing(t *testing.T) {
	c := New().Prefix("GEULPI_DEFINITELY_UNSET_")
	testkit.MustPanic(t, func() { c.MustString("KEY") })
}

func TestMustPort(t *testing.T) {
	t.Setenv("GW_PORT", "4000")
	c := New().Prefix("GW_")
	if got := c.MustPort("PORT"); got != ":4000" {
		t.Fatalf("MustPort = %q", got)
	}
	t.Setenv("GW_PORT", "70000")
	testkit.MustPanic(t, func() { c.MustPort("PORT") })
}
