package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"trustlens/internal/model"
)

// Renderer writes document reports as JSON or Markdown
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.DocumentReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a human-readable Markdown document
func (r *Renderer) RenderMarkdown(report *model.DocumentReport, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Markdown renders the report body
func (r *Renderer) Markdown(report *model.DocumentReport) string {
	var b strings.Builder

	title := report.Domain
	if title == "" {
		title = "document"
	}
	fmt.Fprintf(&b, "# Trust Report: %s\n\n", title)
	if report.SourceURL != "" {
		fmt.Fprintf(&b, "Source: %s\n\n", report.SourceURL)
	}
	fmt.Fprintf(&b, "Analyzed: %s\n\n", report.AnalyzedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Sentences scanned: %d, claims scored: %d, extractor confidence: %.2f\n\n",
		report.SentenceCount, len(report.Claims), report.ExtractorConfidence)

	if len(report.Claims) == 0 {
		b.WriteString("No checkable claims found.\n")
		return b.String()
	}

	for i, claim := range report.Claims {
		fmt.Fprintf(&b, "## Claim %d: score %d/10 (%s)\n\n", i+1, claim.FinalScore, claim.Aggregate.Confidence)
		fmt.Fprintf(&b, "> %s\n\n", claim.Candidate.Text)

		if claim.Override != nil {
			fmt.Fprintf(&b, "**Authoritative override** from %s (%s, confidence %.2f): %s\n\n",
				claim.Override.Source, claim.Override.Relationship,
				claim.Override.Confidence, claim.Override.Explanation)
			if claim.Override.URL != "" {
				fmt.Fprintf(&b, "Reference: %s\n\n", claim.Override.URL)
			}
		}

		names := make([]string, 0, len(claim.Aggregate.Components))
		for name := range claim.Aggregate.Components {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("| Source | Score | Confidence | Notes |\n")
		b.WriteString("|--------|-------|------------|-------|\n")
		for _, name := range names {
			component := claim.Aggregate.Components[name]
			score := fmt.Sprintf("%.1f", component.Score)
			if component.Unavailable {
				score = "n/a"
			}
			notes := component.Explanation
			if component.Error != "" {
				notes = component.Error
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				name, score, component.Confidence, sanitizeCell(notes))
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by trustlens. Scores are heuristic estimates, not fact-checks.\n")
	}
	return b.String()
}

// RenderSummary prints a one-line-per-claim summary to stdout
func (r *Renderer) RenderSummary(report *model.DocumentReport) {
	fmt.Printf("Analyzed %s: %d sentences, %d claims\n",
		displaySource(report), report.SentenceCount, len(report.Claims))
	for _, claim := range report.Claims {
		marker := ""
		if claim.Override != nil {
			marker = " [override: " + string(claim.Override.Relationship) + "]"
		}
		fmt.Printf("  %2d/10 (%s)%s %s\n",
			claim.FinalScore, claim.Aggregate.Confidence, marker, truncate(claim.Candidate.Text, 90))
	}
}

func displaySource(report *model.DocumentReport) string {
	if report.SourceURL != "" {
		return report.SourceURL
	}
	if report.Domain != "" {
		return report.Domain
	}
	return "document"
}

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "/")
	s = strings.ReplaceAll(s, "\n", " ")
	return truncate(s, 120)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
