package item

import "testing"

func TestParseFieldSelectorRanges(t *testing.T) {
	cases := []struct {
		spec string
		in   string
		want string
	}{
		{"1", "a b c", "a"},
		{"2..", "a b c", "b c"},
		{"..2", "a b c", "a b"},
		{"1,3", "a b c", "a c"},
		{"-1", "a b c", "c"},
		{"", "a b c", "a b c"},
	}
	for _, c := range cases {
		sel, err := ParseFieldSelector(c.spec, "")
		if err != nil {
			t.Fatalf("ParseFieldSelector(%q): %v", c.spec, err)
		}
		got := sel.Apply(c.in)
		if got != c.want {
			t.Errorf("spec %q on %q: got %q want %q", c.spec, c.in, got, c.want)
		}
	}
}

func TestFieldSelectorDelimiter(t *testing.T) {
	sel, err := ParseFieldSelector("2", ",")
	if err != nil {
		t.Fatal(err)
	}
	if got := sel.Apply("a,b,c"); got != "b" {
		t.Fatalf("got %q want b", got)
	}
}

func TestParseFieldSelectorInvalid(t *testing.T) {
	if _, err := ParseFieldSelector("x", ""); err == nil {
		t.Fatal("expected error for non-numeric field spec")
	}
}
