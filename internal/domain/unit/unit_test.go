package unit

import "testing"

func TestFromTitle(t *testing.T) {
	cases := []struct {
		title string
		want  int
	}{
		{"Unit 3 - Sorting", 3},
		{"unit12 recap", 12},
		{"U 4 notes", 4},
		{"Chapter 7: Graphs", 7},
		{"Calculus II", 2},
		{"Physics IX revision", 9},
		{"Linear Algebra", 0},
		{"", 0},
		// "unit" with no number resolves nothing
		{"unit overview", 0},
	}
	for _, c := range cases {
		if got := FromTitle(c.title); got != c.want {
			t.Errorf("FromTitle(%q) = %d, want %d", c.title, got, c.want)
		}
	}
}

func TestResolve_ExplicitWins(t *testing.T) {
	if got := Resolve(5, "Unit 3 - Sorting"); got != 5 {
		t.Errorf("Resolve = %d, want explicit 5", got)
	}
	if got := Resolve(0, "Unit 3 - Sorting"); got != 3 {
		t.Errorf("Resolve = %d, want 3 from title", got)
	}
}

func TestLabel(t *testing.T) {
	if Label(0) != "Other" {
		t.Errorf("Label(0) = %q", Label(0))
	}
	if Label(4) != "Unit 4" {
		t.Errorf("Label(4) = %q", Label(4))
	}
}
