package conv

import (
	"reflect"
	"testing"
)

func TestToStrings(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "comma separated", in: " Signal, Kingdom ,,", want: []string{"Signal", "Kingdom"}},
		{name: "string slice", in: []string{"a"}, want: []string{"a"}},
		{name: "mixed", in: []any{"a", 3, int64(4), 2.5, true, nil}, want: []string{"a", "3", "4", "2.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToStrings(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ToStrings() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestConfigGet(t *testing.T) {
	cfg := map[string]any{"expr": "score > 0", "n": 3}

	if got := ConfigGet(cfg, "expr", ""); got != "score > 0" {
		t.Errorf("ConfigGet(expr) = %q", got)
	}
	if got := ConfigGet(cfg, "missing", "dflt"); got != "dflt" {
		t.Errorf("ConfigGet(missing) = %q, want dflt", got)
	}
	if got := ConfigGet(cfg, "n", "wrong type"); got != "wrong type" {
		t.Errorf("ConfigGet(n) = %q, want default on type mismatch", got)
	}
	if got := ConfigGet[string](nil, "expr", "dflt"); got != "dflt" {
		t.Errorf("ConfigGet(nil) = %q, want dflt", got)
	}
}

func TestConfigGetInt64(t *testing.T) {
	cfg := map[string]any{"yaml": 3, "toml": int64(4), "json": 5.0, "env": " 6 ", "bad": "x"}
	want := map[string]int64{"yaml": 3, "toml": 4, "json": 5, "env": 6, "bad": -1, "missing": -1}
	for key, w := range want {
		if got := ConfigGetInt64(cfg, key, -1); got != w {
			t.Errorf("ConfigGetInt64(%s) = %d, want %d", key, got, w)
		}
	}
}

func TestConfigGetBool(t *testing.T) {
	cfg := map[string]any{"a": true, "b": "true", "c": "0", "d": "maybe"}
	if !ConfigGetBool(cfg, "a", false) || !ConfigGetBool(cfg, "b", false) {
		t.Error("want true for a and b")
	}
	if ConfigGetBool(cfg, "c", true) {
		t.Error("want false for c")
	}
	if !ConfigGetBool(cfg, "d", true) || ConfigGetBool(cfg, "missing", false) {
		t.Error("want default for d and missing")
	}
}
