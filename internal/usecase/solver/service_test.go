package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/edusolve/solvex/internal/domain"
	"github.com/edusolve/solvex/internal/logger"
	"github.com/edusolve/solvex/internal/usecase/search"
)

type mockExtractor struct {
	result domain.ExtractionResult
	calls  int
}

func (m *mockExtractor) Extract(_ context.Context, _ string) domain.ExtractionResult {
	m.calls++
	return m.result
}

type mockNormalizer struct {
	result domain.NormalizedQuery
}

func (m *mockNormalizer) Normalize(_ context.Context, text string, _ int) domain.NormalizedQuery {
	if m.result.Cleaned == "" {
		return domain.NormalizedQuery{
			Cleaned:        text,
			Translated:     text,
			SourceLanguage: "en",
			SearchQueries:  []string{text, text + " solution"},
			Keywords:       []string{"solve"},
		}
	}
	return m.result
}

type mockSearcher struct {
	outcome search.Outcome
	gotQ    string
	gotN    int
}

func (m *mockSearcher) Search(_ context.Context, query string, count int) search.Outcome {
	m.gotQ = query
	m.gotN = count
	return m.outcome
}

type mockFetcher struct {
	pages   []domain.FetchedPage
	delay   time.Duration
	gotURLs []string
}

func (m *mockFetcher) FetchAll(ctx context.Context, urls []string) []domain.FetchedPage {
	m.gotURLs = urls
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return m.pages
}

type mockVideoFinder struct {
	hits  []domain.VideoHit
	delay time.Duration
}

func (m *mockVideoFinder) Lookup(ctx context.Context, _ string) []domain.VideoHit {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return m.hits
}

type mockScorer struct {
	report domain.ConfidenceReport
}

func (m *mockScorer) Score(_ float64, _ string, _ []domain.SearchResult) domain.ConfidenceReport {
	return m.report
}

func happyOutcome() search.Outcome {
	return search.Outcome{
		Results: []domain.SearchResult{
			{URL: "https://www.khanacademy.org/a", Title: "khan", TrustScore: 90, IsTrusted: true},
			{URL: "https://randomblog.net/b", Title: "blog", TrustScore: 40},
		},
		TrustedCount: 1,
		Provider:     "searchapi",
	}
}

func newSolver(ext *mockExtractor, se *mockSearcher, fe *mockFetcher, vf *mockVideoFinder, sc *mockScorer, opts Options) *Service {
	return New(ext, &mockNormalizer{}, se, fe, vf, sc, opts, zap.NewNop())
}

func TestSolveTextPipeline(t *testing.T) {
	ext := &mockExtractor{}
	se := &mockSearcher{outcome: happyOutcome()}
	fe := &mockFetcher{pages: []domain.FetchedPage{{URL: "https://www.khanacademy.org/a", Success: true}}}
	vf := &mockVideoFinder{hits: []domain.VideoHit{{VideoID: "v1"}}}
	sc := &mockScorer{report: domain.ConfidenceReport{Overall: 80, Grade: "A", Reliability: "very_high"}}
	svc := newSolver(ext, se, fe, vf, sc, Options{})

	resp, err := svc.Solve(context.Background(), domain.NewTextQuery("solve 2x+3=7", 5))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if ext.calls != 0 {
		t.Error("extractor should not run for text input")
	}
	if resp.Pipeline != "text" {
		t.Errorf("pipeline = %q", resp.Pipeline)
	}
	if resp.ExtractedText != "" {
		t.Errorf("extracted_text should be empty for text input, got %q", resp.ExtractedText)
	}
	if se.gotQ != "solve 2x+3=7" {
		t.Errorf("search query = %q, want primary variant", se.gotQ)
	}
	if len(resp.Query.Keywords) != 1 || resp.Query.Keywords[0] != "solve" {
		t.Errorf("query keywords = %v", resp.Query.Keywords)
	}
	if se.gotN != 5 {
		t.Errorf("search count = %d, want 5", se.gotN)
	}
	if resp.SearchResults.Total != 2 || resp.SearchResults.TrustedCount != 1 {
		t.Errorf("search section = %+v", resp.SearchResults)
	}
	if len(resp.WebContent) != 1 || len(resp.YouTubeVideos) != 1 {
		t.Errorf("fan out sections missing: %d pages, %d videos",
			len(resp.WebContent), len(resp.YouTubeVideos))
	}
	if resp.Confidence.Overall != 80 {
		t.Errorf("confidence = %v", resp.Confidence.Overall)
	}
	if resp.Metadata.ImageProcessed {
		t.Error("image_processed should be false")
	}
	if resp.Metadata.QueriesGenerated != 2 {
		t.Errorf("queries_generated = %d", resp.Metadata.QueriesGenerated)
	}
	if len(resp.Metadata.ProcessingSteps) == 0 || resp.Metadata.ProcessingSteps[0] != "text_input" {
		t.Errorf("steps = %v", resp.Metadata.ProcessingSteps)
	}
}

func TestSolveImagePipeline(t *testing.T) {
	ext := &mockExtractor{result: domain.ExtractionResult{
		Success: true, Text: "integrate x squared", Confidence: 87.5, Method: "tesseract",
	}}
	se := &mockSearcher{outcome: happyOutcome()}
	fe := &mockFetcher{}
	vf := &mockVideoFinder{}
	sc := &mockScorer{report: domain.NeutralReport()}
	svc := newSolver(ext, se, fe, vf, sc, Options{})

	resp, err := svc.Solve(context.Background(), domain.NewImageQuery("/tmp/q.png", 5))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if ext.calls != 1 {
		t.Fatalf("extractor calls = %d", ext.calls)
	}
	if resp.Pipeline != "image" || !resp.Metadata.ImageProcessed {
		t.Errorf("pipeline = %q, image_processed = %v", resp.Pipeline, resp.Metadata.ImageProcessed)
	}
	if resp.ExtractedText != "integrate x squared" {
		t.Errorf("extracted_text = %q", resp.ExtractedText)
	}
	if resp.Metadata.ProcessingSteps[0] != "ocr_extraction" {
		t.Errorf("steps = %v", resp.Metadata.ProcessingSteps)
	}
	// Only the top trusted URLs go to the fetcher.
	if len(fe.gotURLs) != 2 || fe.gotURLs[0] != "https://www.khanacademy.org/a" {
		t.Errorf("fetch urls = %v", fe.gotURLs)
	}
}

func TestSolveExtractionFailure(t *testing.T) {
	ext := &mockExtractor{result: domain.FailedExtraction("no text detected")}
	svc := newSolver(ext, &mockSearcher{}, &mockFetcher{}, &mockVideoFinder{}, &mockScorer{}, Options{})

	_, err := svc.Solve(context.Background(), domain.NewImageQuery("/tmp/q.png", 5))
	if !errors.Is(err, domain.ErrExtractionFailed) {
		t.Fatalf("err = %v, want ErrExtractionFailed", err)
	}
}

func TestSolveNoInput(t *testing.T) {
	svc := newSolver(&mockExtractor{}, &mockSearcher{}, &mockFetcher{}, &mockVideoFinder{}, &mockScorer{}, Options{})
	if _, err := svc.Solve(context.Background(), domain.Query{}); !errors.Is(err, domain.ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
}

func TestSolveSlowBranchDoesNotBlockOthers(t *testing.T) {
	se := &mockSearcher{outcome: happyOutcome()}
	fe := &mockFetcher{pages: []domain.FetchedPage{{URL: "https://a.com", Success: true}}}
	vf := &mockVideoFinder{delay: time.Second, hits: []domain.VideoHit{{VideoID: "late"}}}
	sc := &mockScorer{report: domain.ConfidenceReport{Overall: 91, Grade: "A+", Reliability: "very_high"}}
	svc := newSolver(&mockExtractor{}, se, fe, vf, sc, Options{FanoutTimeout: 100 * time.Millisecond})

	start := time.Now()
	resp, err := svc.Solve(context.Background(), domain.NewTextQuery("q", 5))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("solve took %v, fan out deadline not enforced", elapsed)
	}
	if len(resp.WebContent) != 1 {
		t.Error("fetch branch result should survive a slow sibling")
	}
	if resp.Confidence.Overall != 91 {
		t.Errorf("confidence = %v, scoring branch should survive", resp.Confidence.Overall)
	}
	if len(resp.YouTubeVideos) != 0 {
		t.Errorf("slow video branch should be dropped, got %v", resp.YouTubeVideos)
	}
}

func TestSolveAllBranchesTimeOutUsesDefaults(t *testing.T) {
	se := &mockSearcher{outcome: happyOutcome()}
	fe := &mockFetcher{delay: time.Second}
	vf := &mockVideoFinder{delay: time.Second}
	sc := &mockScorer{report: domain.ConfidenceReport{Overall: 95}}
	svc := New(&mockExtractor{}, &mockNormalizer{}, se, fe, vf, &slowScorer{sc},
		Options{FanoutTimeout: 80 * time.Millisecond}, zap.NewNop())

	resp, err := svc.Solve(context.Background(), domain.NewTextQuery("q", 5))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if resp.Confidence.Overall != 50 || resp.Confidence.Grade != "C" {
		t.Errorf("confidence should fall back to neutral, got %+v", resp.Confidence)
	}
	if len(resp.WebContent) != 0 || len(resp.YouTubeVideos) != 0 {
		t.Error("timed out branches should contribute empty sections")
	}
	if !resp.Success {
		t.Error("degraded response is still a success")
	}
}

type slowScorer struct{ inner *mockScorer }

func (s *slowScorer) Score(ocr float64, q string, r []domain.SearchResult) domain.ConfidenceReport {
	time.Sleep(time.Second)
	return s.inner.Score(ocr, q, r)
}

func TestSolveUsesRequestScopedLogger(t *testing.T) {
	core, observed := observer.New(zap.InfoLevel)
	ctx := logger.ContextWithLogger(context.Background(), zap.New(core))

	se := &mockSearcher{outcome: happyOutcome()}
	svc := newSolver(&mockExtractor{}, se, &mockFetcher{}, &mockVideoFinder{},
		&mockScorer{report: domain.NeutralReport()}, Options{})

	if _, err := svc.Solve(ctx, domain.NewTextQuery("q", 5)); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if observed.FilterMessage("pipeline completed").Len() != 1 {
		t.Error("completion entry should land on the logger carried in the context")
	}
}

func TestSolveEmptySearchStillAssembles(t *testing.T) {
	se := &mockSearcher{outcome: search.Outcome{}}
	fe := &mockFetcher{}
	svc := newSolver(&mockExtractor{}, se, fe, &mockVideoFinder{}, &mockScorer{report: domain.NeutralReport()}, Options{})

	resp, err := svc.Solve(context.Background(), domain.NewTextQuery("q", 5))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if !resp.Success {
		t.Error("empty search should not fail the pipeline")
	}
	if resp.SearchResults.Total != 0 {
		t.Errorf("total = %d", resp.SearchResults.Total)
	}
	if len(fe.gotURLs) != 0 {
		t.Errorf("fetcher got urls %v for empty search", fe.gotURLs)
	}
}
