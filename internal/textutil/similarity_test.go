package textutil

import "testing"

func TestJaccard_Identical(t *testing.T) {
	if got := Jaccard("the vaccine works", "the vaccine works"); got != 1 {
		t.Errorf("Expected 1, got %f", got)
	}
}

func TestJaccard_CaseAndPunctuation(t *testing.T) {
	if got := Jaccard("The Vaccine works.", "the vaccine works"); got != 1 {
		t.Errorf("Expected tokenization to ignore case and punctuation, got %f", got)
	}
}

func TestJaccard_Disjoint(t *testing.T) {
	if got := Jaccard("apples oranges", "cats dogs"); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
}

func TestJaccard_Partial(t *testing.T) {
	// {a,b,c} vs {b,c,d}: 2 shared of 4 total
	got := Jaccard("alpha beta gamma", "beta gamma delta")
	if got != 0.5 {
		t.Errorf("Expected 0.5, got %f", got)
	}
}

func TestJaccard_EmptyCases(t *testing.T) {
	if got := Jaccard("", ""); got != 1 {
		t.Errorf("Expected two empties identical, got %f", got)
	}
	if got := Jaccard("something", ""); got != 0 {
		t.Errorf("Expected 0 for one empty side, got %f", got)
	}
}

func TestTokens_StripsPunctuation(t *testing.T) {
	set := Tokens(`"Earth," she said: is 71% water!`)
	for _, want := range []string{"earth", "she", "said", "is", "71", "water"} {
		if _, ok := set[want]; !ok {
			t.Errorf("Expected token %q in set %v", want, set)
		}
	}
}
