package sources

import (
	"context"
	"testing"

	"trustlens/internal/llm"
	"trustlens/internal/model"
)

func TestCoherence_CleanTextScoresHigh(t *testing.T) {
	c := NewCoherence(llm.NewService(nil, nil), nil)

	in := claimInput("the glacier lost mass")
	in.Context = "Researchers measured the glacier over four decades and found steady loss."

	score, err := c.Query(context.Background(), in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if score.Score != 10 {
		t.Errorf("Expected 10 for clean text, got %f", score.Score)
	}
	if score.Confidence != model.ConfidenceLow {
		t.Errorf("Expected low confidence from pattern fallback, got %s", score.Confidence)
	}
}

func TestCoherence_RedFlagsPenalized(t *testing.T) {
	c := NewCoherence(llm.NewService(nil, nil), nil)

	in := claimInput("this cure works")
	in.Context = "You won't believe this shocking miracle cure. Some people say it cures everything."

	score, err := c.Query(context.Background(), in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if score.Score >= 5 {
		t.Errorf("Expected heavy penalty for stacked red flags, got %f", score.Score)
	}
	if score.Score < 0 {
		t.Errorf("Expected clamp at 0, got %f", score.Score)
	}
}

func TestCoherence_FallsBackToClaimText(t *testing.T) {
	c := NewCoherence(llm.NewService(nil, nil), nil)

	in := claimInput("a guaranteed miracle cure for everything")
	// No surrounding context at all
	score, err := c.Query(context.Background(), in)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if score.Score >= 10 {
		t.Errorf("Expected claim text scanned when context empty, got %f", score.Score)
	}
}

func TestClampScore(t *testing.T) {
	if got := clampScore(-3); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
	if got := clampScore(14); got != 10 {
		t.Errorf("Expected 10, got %f", got)
	}
	if got := clampScore(6.5); got != 6.5 {
		t.Errorf("Expected passthrough, got %f", got)
	}
}
