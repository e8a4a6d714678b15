package extract

import (
	"testing"

	"trustlens/internal/model"
)

func testScorer() *CandidateScorer {
	return NewCandidateScorer(model.DefaultConfig().Extraction)
}

func TestCandidateScorer_StatisticalClaim(t *testing.T) {
	scorer := testScorer()

	res := scorer.Score("The vaccine reduced hospitalizations by 87% according to the national health study.")
	if !res.IsClaim {
		t.Fatal("Expected statistical sentence accepted as claim")
	}
	if res.Confidence <= 0.6 {
		t.Errorf("Expected confidence above 0.6, got %f", res.Confidence)
	}
	if !res.Signals.Percentage {
		t.Error("Expected percentage signal")
	}
	if !res.Signals.ClaimMarker {
		t.Error("Expected claim marker signal for 'according to'")
	}
}

func TestCandidateScorer_QuestionNeverClaim(t *testing.T) {
	scorer := testScorer()

	res := scorer.Score("Did the vaccine reduce hospitalizations by 87%?")
	if res.IsClaim {
		t.Error("Expected question rejected")
	}
	if res.Confidence != 0 {
		t.Errorf("Expected zero confidence for question, got %f", res.Confidence)
	}
	if !res.Signals.Question {
		t.Error("Expected question signal set")
	}
}

func TestCandidateScorer_OpinionPenalty(t *testing.T) {
	scorer := testScorer()

	factual := scorer.Score("The economy grew by 3 percent last year, the ministry reported.")
	hedged := scorer.Score("I believe the economy grew by 3 percent last year, the ministry reported.")

	if hedged.Confidence >= factual.Confidence {
		t.Errorf("Expected opinion marker to lower confidence: %f vs %f",
			hedged.Confidence, factual.Confidence)
	}
	if !hedged.Signals.Opinion {
		t.Error("Expected opinion signal set")
	}
}

func TestCandidateScorer_NoSignalsRejected(t *testing.T) {
	scorer := testScorer()

	res := scorer.Score("Lovely weather together outside somewhere nice.")
	if res.IsClaim {
		t.Errorf("Expected rejection without primary signals, got confidence %f", res.Confidence)
	}
}

func TestCandidateScorer_Deterministic(t *testing.T) {
	scorer := testScorer()
	sentence := "Researchers found that global temperatures increased 1.2 degrees since 1900."

	first := scorer.Score(sentence)
	for i := 0; i < 10; i++ {
		if got := scorer.Score(sentence); got != first {
			t.Fatalf("Expected identical result on repeat %d, got %+v vs %+v", i, got, first)
		}
	}
}

func TestCandidateScorer_PercentageMonotonic(t *testing.T) {
	scorer := testScorer()

	without := scorer.Score("The study found that infections dropped sharply among participants.")
	with := scorer.Score("The study found that infections dropped 45% among participants.")

	if with.Confidence < without.Confidence {
		t.Errorf("Expected adding a percentage never to lower confidence: %f vs %f",
			with.Confidence, without.Confidence)
	}
}

func TestCandidateScorer_EmptySentence(t *testing.T) {
	scorer := testScorer()

	res := scorer.Score("   ")
	if res.IsClaim || res.Confidence != 0 {
		t.Errorf("Expected zero result for blank input, got %+v", res)
	}
}
