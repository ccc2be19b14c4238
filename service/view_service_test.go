package service

import "testing"

func TestParseRecentLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", defaultRecentLimit},
		{"not-a-number", defaultRecentLimit},
		{"3.5", defaultRecentLimit},
		{"5", 5},
		{"1", 1},
		{"20", 20},
		{"0", 1},
		{"-4", 1},
		{"1000", maxRecentLimit},
	}
	for _, tc := range cases {
		if got := ParseRecentLimit(tc.raw); got != tc.want {
			t.Errorf("ParseRecentLimit(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}
