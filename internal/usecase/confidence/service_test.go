package confidence

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
)

func TestScoreEmptyResultsUsesNeutralComponents(t *testing.T) {
	svc := New(zap.NewNop())
	report := svc.Score(100, "some query", nil)

	if report.Components.MatchQuality != 50 {
		t.Errorf("match quality = %v, want neutral 50", report.Components.MatchQuality)
	}
	if report.Components.DomainTrust != 50 {
		t.Errorf("domain trust = %v, want neutral 50", report.Components.DomainTrust)
	}
	// 100*0.3 + 50*0.4 + 50*0.3 = 65
	if report.Overall != 65 {
		t.Errorf("overall = %v, want 65", report.Overall)
	}
	if report.Grade != "C" {
		t.Errorf("grade = %q, want C", report.Grade)
	}
}

func TestScorePerfectMatch(t *testing.T) {
	svc := New(zap.NewNop())
	results := []domain.SearchResult{
		{Title: "integrate x squared", Snippet: "", TrustScore: domain.TrustListed},
	}
	report := svc.Score(100, "integrate x squared", results)

	if report.Components.MatchQuality != 100 {
		t.Errorf("match quality = %v, want 100", report.Components.MatchQuality)
	}
	if report.Components.DomainTrust != float64(domain.TrustListed) {
		t.Errorf("domain trust = %v, want %d", report.Components.DomainTrust, domain.TrustListed)
	}
	// 100*0.3 + 100*0.4 + 90*0.3 = 97
	if report.Overall != 97 {
		t.Errorf("overall = %v, want 97", report.Overall)
	}
	if report.Grade != "A+" || report.Reliability != "very_high" {
		t.Errorf("grade/reliability = %q/%q", report.Grade, report.Reliability)
	}
}

func TestScoreBounds(t *testing.T) {
	svc := New(zap.NewNop())
	inputs := []struct {
		ocr     float64
		query   string
		results []domain.SearchResult
	}{
		{-50, "q", nil},
		{250, "q", nil},
		{70, "", nil},
		{70, "q", []domain.SearchResult{{Title: "unrelated words entirely", TrustScore: 40}}},
	}
	for _, in := range inputs {
		report := svc.Score(in.ocr, in.query, in.results)
		if report.Overall < 0 || report.Overall > 100 {
			t.Errorf("overall %v out of bounds for inputs %+v", report.Overall, in)
		}
	}
}

func TestScoreMonotoneInTrust(t *testing.T) {
	svc := New(zap.NewNop())
	low := svc.Score(70, "solve equation", []domain.SearchResult{
		{Title: "solve equation", TrustScore: domain.TrustDefault},
	})
	high := svc.Score(70, "solve equation", []domain.SearchResult{
		{Title: "solve equation", TrustScore: domain.TrustListed},
	})
	if high.Overall <= low.Overall {
		t.Errorf("higher trust should raise the score: %v vs %v", high.Overall, low.Overall)
	}
}

func TestSimilarity(t *testing.T) {
	if got := similarity("a b c", "a b c"); math.Abs(got-1) > 1e-9 {
		t.Errorf("identical texts similarity = %v, want 1", got)
	}
	if got := similarity("alpha beta", "gamma delta"); got != 0 {
		t.Errorf("disjoint texts similarity = %v, want 0", got)
	}
	if got := similarity("", "anything"); got != 0 {
		t.Errorf("empty text similarity = %v, want 0", got)
	}
	part := similarity("solve quadratic equation", "quadratic equation tutorial")
	if part <= 0 || part >= 1 {
		t.Errorf("partial overlap similarity = %v, want in (0, 1)", part)
	}
}

func TestNeutralReport(t *testing.T) {
	r := domain.NeutralReport()
	if r.Overall != 50 || r.Grade != "C" || r.Reliability != "medium" {
		t.Errorf("neutral report = %+v", r)
	}
}
