package config

import "testing"

func TestIsDevLike(t *testing.T) {
	cases := []struct {
		env  string
		want bool
	}{
		{"dev", true},
		{"local", true},
		{" Dev ", true},
		{"LOCAL", true},
		{"production", false},
		{"staging", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsDevLike(tc.env); got != tc.want {
			t.Errorf("IsDevLike(%q) = %v, want %v", tc.env, got, tc.want)
		}
	}
}

func TestNormalizeEnv(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"prod", "production"},
		{"Production", "production"},
		{"staging", "staging"},
		{"local", "local"},
		{"development", "dev"},
		{"anything-else", "dev"},
	}
	for _, tc := range cases {
		if got := normalizeEnv(tc.raw); got != tc.want {
			t.Errorf("normalizeEnv(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
