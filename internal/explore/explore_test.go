package explore

import "testing"

func TestParse(t *testing.T) {
	text := "Fractions are parts of a whole.\n\n" +
		"1. Simple Explanation: A fraction shows\nhow many parts you have.  \n\n" +
		"2. Real-World Use: Sharing a chapati.\n\n" +
		"7. Extra: beyond the icon table\n\n" +
		"Keep practising!"

	got := Parse(text)
	if len(got) != 5 {
		t.Fatalf("Parse() returned %d sections, want 5: %+v", len(got), got)
	}

	if got[0].Numbered || got[0].Body != "Fractions are parts of a whole." {
		t.Errorf("section 0 = %+v, want plain paragraph", got[0])
	}

	s := got[1]
	if !s.Numbered || s.Number != 1 || s.Title != "Simple Explanation" {
		t.Errorf("section 1 = %+v", s)
	}
	if s.Body != "A fraction shows\nhow many parts you have." {
		t.Errorf("section 1 body = %q", s.Body)
	}
	if s.Icon != IconBook {
		t.Errorf("section 1 icon = %q, want %q", s.Icon, IconBook)
	}

	if got[2].Icon != IconLightbulb {
		t.Errorf("section 2 icon = %q, want %q", got[2].Icon, IconLightbulb)
	}
	if got[3].Icon != IconBook {
		t.Errorf("section 7 icon = %q, want default %q", got[3].Icon, IconBook)
	}
	if got[4].Numbered {
		t.Errorf("trailing paragraph parsed as numbered: %+v", got[4])
	}
}

func TestParseTitleStopsAtFirstColon(t *testing.T) {
	got := Parse("3. Related Topics: Ratios: and percentages")
	if len(got) != 1 {
		t.Fatalf("expected 1 section, got %d", len(got))
	}
	if got[0].Title != "Related Topics" || got[0].Body != "Ratios: and percentages" {
		t.Errorf("got %+v", got[0])
	}
	if got[0].Icon != IconTrending {
		t.Errorf("icon = %q, want %q", got[0].Icon, IconTrending)
	}
}

func TestParseEmpty(t *testing.T) {
	if got := Parse("\n\n  \n\n"); len(got) != 0 {
		t.Errorf("Parse(blank) = %+v, want none", got)
	}
}

func TestParseWithoutColonIsPlain(t *testing.T) {
	got := Parse("1. Just a numbered line without title")
	if len(got) != 1 || got[0].Numbered {
		t.Errorf("got %+v, want one plain section", got)
	}
}
