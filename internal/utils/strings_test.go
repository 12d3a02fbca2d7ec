package utils

import "testing"

func TestNormalizeSpace(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Jane   Doe", "Jane Doe"},
		{"  Jane\tDoe \n", "Jane Doe"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeSpace(tc.in); got != tc.want {
			t.Fatalf("NormalizeSpace(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"jane@example.com",
		"jane.doe+quotes@example.co",
	}
	for _, s := range valid {
		if !ValidEmail(s) {
			t.Fatalf("%q should be a valid email", s)
		}
	}

	invalid := []string{
		"",
		"   ",
		"not-an-email",
		"jane@",
		"@example.com",
		"Jane Doe <jane@example.com>",
	}
	for _, s := range invalid {
		if ValidEmail(s) {
			t.Fatalf("%q should not be a valid email", s)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Jane@Example.COM "); got != "jane@example.com" {
		t.Fatalf("got %q", got)
	}
}
