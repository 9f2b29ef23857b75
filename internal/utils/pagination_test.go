package utils

import "testing"

func TestAtoiDefault(t *testing.T) {
	cases := []struct {
		s    string
		def  int
		want int
	}{
		// empty -> default
		{"", 1, 1},
		// valid ints (page, tier, page_size shapes)
		{"42", 0, 42},
		{"3", 0, 3},
		{"-13", 1, -13},
		{"0050", 99, 50},
		// invalid -> default (no trim)
		{"x", 5, 5},
		{" 42", 7, 7},
		{"2026-08-01", 1, 1},
		// overflow -> default
		{"999999999999999999999999", -1, -1},
	}

	for _, tc := range cases {
		if got := AtoiDefault(tc.s, tc.def); got != tc.want {
			t.Fatalf("AtoiDefault(%q, %d) = %d; want %d", tc.s, tc.def, got, tc.want)
		}
	}
}
