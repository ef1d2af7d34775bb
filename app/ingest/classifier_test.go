package ingest

import (
	"testing"
)

func TestClassify_Categories(t *testing.T) {
	cases := []struct {
		text     string
		expected string
	}{
		{"Black Stars name squad for AFCON qualifier football match", CategorySports},
		{"Central bank holds policy rate as economy steadies", CategoryBusiness},
		{"Award-winning actress lands lead movie role", CategoryEntertainment},
		{"Hospital opens new maternity ward, doctors welcome move", CategoryHealth},
		{"Startup launches mobile app for farmers", CategoryTechnology},
		{"Parliament debates new election law", CategoryPolitics},
		{"Rainfall expected across the coast this weekend", CategoryGeneral},
	}

	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.expected {
			t.Errorf("Classify(%q) = %s, expected %s", tc.text, got, tc.expected)
		}
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// Sports is tested before politics, so a text with keywords from
	// both classifies as sports.
	if got := Classify("Minister opens new football league"); got != CategorySports {
		t.Errorf("Expected sports for mixed sports/politics text, got %s", got)
	}

	// Business before entertainment.
	if got := Classify("Music industry investment doubles"); got != CategoryBusiness {
		t.Errorf("Expected business for mixed business/entertainment text, got %s", got)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("PARLIAMENT PASSES BUDGET"); got != CategoryPolitics {
		t.Errorf("Expected politics for upper-case input, got %s", got)
	}
}

func TestClassify_EmptyText(t *testing.T) {
	if got := Classify(""); got != CategoryGeneral {
		t.Errorf("Expected general for empty text, got %s", got)
	}
}
