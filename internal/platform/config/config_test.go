package config

import (
	"testing"
	"time"

	kit "github.com/judell/word-replacer/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	api := New().Prefix("CORE_").Prefix("API_")
	if got := api.key("PORT"); got != "CORE_API_PORT" {
		t.Fatalf("key() = %q, want %q", got, "CORE_API_PORT")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("SERVICE_PGSQL_")
	t.Setenv("SERVICE_PGSQL_DBURL", "  postgres://localhost/db ")
	if got := c.MustString("DBURL"); got != "postgres://localhost/db" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMayHelpers(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_S", " v ")
	t.Setenv("T_I", "8")
	t.Setenv("T_I_BAD", "eight")
	t.Setenv("T_B", "true")
	t.Setenv("T_B_BAD", "maybe")
	t.Setenv("T_D", "250ms")
	t.Setenv("T_D_BAD", "soon")
	t.Setenv("T_CSV", " a, ,b ,")
	t.Setenv("T_CSV_EMPTY", " , ")

	if c.MayString("S", "x") != "v" || c.MayString("NONE", "x") != "x" {
		t.Fatalf("MayString")
	}
	if c.MayInt("I", 1) != 8 || c.MayInt("I_BAD", 1) != 1 || c.MayInt("NONE", 3) != 3 {
		t.Fatalf("MayInt")
	}
	if !c.MayBool("B", false) || c.MayBool("B_BAD", false) || !c.MayBool("NONE", true) {
		t.Fatalf("MayBool")
	}
	if c.MayDuration("D", time.Second) != 250*time.Millisecond || c.MayDuration("D_BAD", time.Second) != time.Second {
		t.Fatalf("MayDuration")
	}
	got := c.MayCSV("CSV", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("MayCSV = %q", got)
	}
	if d := c.MayCSV("CSV_EMPTY", []string{"*"}); len(d) != 1 || d[0] != "*" {
		t.Fatalf("MayCSV default = %q", d)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("STORE_")
	if got := c.MayEnum("DRIVER", "file", "file", "sqlite", "postgres"); got != "file" {
		t.Fatalf("default = %q", got)
	}
	t.Setenv("STORE_DRIVER", "SQLite")
	if got := c.MayEnum("DRIVER", "file", "file", "sqlite", "postgres"); got != "sqlite" {
		t.Fatalf("case-insensitive = %q", got)
	}
	t.Setenv("STORE_DRIVER", "mongo")
	kit.MustPanic(t, func() { _ = c.MayEnum("DRIVER", "file", "file", "sqlite") })
}

func TestMayAddr(t *testing.T) {
	c := New().Prefix("CORE_API_")
	cases := []struct {
		env  string
		want string
	}{
		{"", ":4000"},
		{"8080", ":8080"},
		{":9000", ":9000"},
		{"127.0.0.1:0", "127.0.0.1:0"},
	}
	for _, tc := range cases {
		t.Setenv("CORE_API_PORT", tc.env)
		if got := c.MayAddr("PORT", ":4000"); got != tc.want {
			t.Fatalf("MayAddr(%q) = %q, want %q", tc.env, got, tc.want)
		}
	}
	t.Setenv("CORE_API_PORT", "70000")
	kit.MustPanic(t, func() { _ = c.MayAddr("PORT", ":4000") })
	t.Setenv("CORE_API_PORT", "http")
	kit.MustPanic(t, func() { _ = c.MayAddr("PORT", ":4000") })
}
