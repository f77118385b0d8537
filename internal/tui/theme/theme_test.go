package theme

import "testing"

func TestByNameFallsBack(t *testing.T) {
	if got := ByName("tokyo-night"); got.Name != "tokyo-night" {
		t.Errorf("ByName(tokyo-night) = %q", got.Name)
	}
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Errorf("unknown theme = %q, want %q", got.Name, FlexokiDark.Name)
	}
}

func TestNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range Names() {
		if seen[n] {
			t.Errorf("duplicate theme name %q", n)
		}
		seen[n] = true
	}
	if len(seen) != len(All) {
		t.Errorf("Names() has %d entries, want %d", len(seen), len(All))
	}
}
