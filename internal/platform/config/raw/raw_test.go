package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("LOG_LEVEL", " info ")
	t.Setenv("CORE_API_LOG_MODE", "console")

	root := New()
	cases := []struct {
		conf     Conf
		key, def string
		want     string
	}{
		{root.Prefix("LOG_"), "LEVEL", "x", "info"},
		{root.Prefix("CORE_").Prefix("API_").Prefix("LOG_"), "MODE", "", "console"},
		{root.Prefix("LOG_"), "MISSING", "dflt", "dflt"},
		{root, "LEVEL", "none", "none"},
	}
	for _, c := range cases {
		if got := c.conf.Get(c.key, c.def); got != c.want {
			t.Fatalf("%s%s = %q, want %q", c.conf.prefix, c.key, got, c.want)
		}
	}
}

func TestGetBool(t *testing.T) {
	env := New().Prefix("WR_")
	for k, v := range map[string]string{"T1": "true", "T2": "1", "T3": " YES ", "T4": "on", "F1": "false", "F2": "0", "F3": "maybe"} {
		t.Setenv("WR_"+k, v)
	}
	cases := map[string]bool{"T1": true, "T2": true, "T3": true, "T4": true, "F1": false, "F2": false, "F3": false}
	for k, want := range cases {
		if got := env.GetBool(k, !want); got != want {
			t.Fatalf("GetBool(%s) = %v, want %v", k, got, want)
		}
	}
	if !env.GetBool("UNSET", true) || env.GetBool("UNSET", false) {
		t.Fatalf("unset must return the default")
	}
}

func TestGetInt(t *testing.T) {
	env := New().Prefix("WR_")
	t.Setenv("WR_OK", "42")
	t.Setenv("WR_WS", "  7  ")
	t.Setenv("WR_BAD", "12x")
	t.Setenv("WR_NEG", "-5")

	cases := []struct {
		key       string
		def, want int
	}{
		{"OK", 0, 42},
		{"WS", 1, 7},
		{"BAD", 9, 9},
		{"NEG", 3, 3},
		{"UNSET", 11, 11},
	}
	for _, c := range cases {
		if got := env.GetInt(c.key, c.def); got != c.want {
			t.Fatalf("GetInt(%s) = %d, want %d", c.key, got, c.want)
		}
	}
}
