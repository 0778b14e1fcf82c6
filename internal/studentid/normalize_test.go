package studentid

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10025", "S-10025"},
		{"s10025", "S-10025"},
		{"s-10025", "S-10025"},
		{"S10025", "S-10025"},
		{"S-10025", "S-10025"},
		{"  S-10025  ", "S-10025"},
		{"S - 100 25", "S-10025"},
		{"http://example.com/s/1", ""},
		{"HTTPS://example.com", ""},
		{`{"a":1}`, ""},
		{"myapp://open", ""},
		{"", ""},
		{"   ", ""},
		{"abc", ""},
		{"S-", ""},
		{"S-12a", ""},
		{"12-34", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, in := range []string{"10025", "s10025", "S-10025", "s-7"} {
		once := Normalize(in)
		if once == "" {
			t.Fatalf("expected %q to normalize", in)
		}
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)): %q != %q", in, twice, once)
		}
	}
}
