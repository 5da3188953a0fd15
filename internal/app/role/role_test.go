package role

import "testing"

func TestParseRoundTrip(t *testing.T) {
	for _, r := range All() {
		got, ok := Parse(r.String())
		if !ok || got != r {
			t.Errorf("Parse(%q) = %v, %v", r.String(), got, ok)
		}
	}
	if _, ok := Parse("root"); ok {
		t.Error("unknown role parsed")
	}
}

func TestValid(t *testing.T) {
	if Role(3).Valid() || Role(-1).Valid() {
		t.Error("out of range role reported valid")
	}
	if Role(3).String() != "unknown" {
		t.Errorf("String() = %q", Role(3).String())
	}
}
