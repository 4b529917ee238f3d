package normalize

import "testing"

func TestClean(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Campus Tour", "Campus Tour", true},
		{"  padded  ", "padded", true},
		{"", "", false},
		{"   ", "", false},
		{"\t\n", "", false},
		{"nan", "", false},
		{"NaN", "", false},
		{"NULL", "", false},
		{"None", "", false},
		{"#N/A", "", false},
		{"n/a", "", false},
		// Words containing a sentinel are not sentinels themselves.
		{"Nancy", "Nancy", true},
		{"banana", "banana", true},
	}

	for _, c := range cases {
		got, ok := Clean(c.in)
		if got != c.want || ok != c.wantOK {
			t.Errorf("Clean(%q) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.wantOK)
		}
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Open Day", "open-day"},
		{"open-day", "open-day"},
		{"  Open   Day  ", "open-day"},
		{"Open--Day", "open-day"},
		{"Open Day 2025!", "open-day-2025"},
		{"O'Brien & Sons", "obrien-sons"},
		{"---", ""},
		{"!!!", ""},
		{"", ""},
		{"Trailing hyphen-", "trailing-hyphen"},
		{"-Leading hyphen", "leading-hyphen"},
	}

	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	inputs := []string{
		"Open Day",
		"Weird   !! Input -- here",
		"한글 mixed Latin 123",
		"already-a-slug",
		"",
	}

	for _, in := range inputs {
		once := Slugify(in)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSlugifyCharset(t *testing.T) {
	for _, in := range []string{"Open Day!", "a/b\\c", "Ünïcödé Näme", "tab\tand newline\n"} {
		got := Slugify(in)
		for _, r := range got {
			valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-'
			if !valid {
				t.Errorf("Slugify(%q) produced invalid rune %q in %q", in, r, got)
			}
		}
	}
}
