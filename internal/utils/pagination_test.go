package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		{"", 20, 20},
		{"3", 1, 3},
		{"-2", 1, -2},
		{"007", 1, 7},
		// not trimmed, not tolerant
		{" 3", 9, 9},
		{"3.5", 9, 9},
		{"page", 9, 9},
		// overflow -> default
		{"99999999999999999999", 1, 1},
	}
	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}

func TestOffset(t *testing.T) {
	cases := []struct {
		page, size, want int
	}{
		{1, 20, 0},
		{2, 20, 20},
		{3, 7, 14},
		// below-range pages clamp to the first page
		{0, 20, 0},
		{-4, 20, 0},
	}
	for _, tc := range cases {
		if got := Offset(tc.page, tc.size); got != tc.want {
			t.Fatalf("Offset(%d, %d) = %d; want %d", tc.page, tc.size, got, tc.want)
		}
	}
}
