package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/edusolve/solvex/internal/domain"
	healthuc "github.com/edusolve/solvex/internal/usecase/health"
	"github.com/edusolve/solvex/internal/usecase/search"
	solveruc "github.com/edusolve/solvex/internal/usecase/solver"
)

type stubExtractor struct {
	result  domain.ExtractionResult
	gotPath string
}

func (s *stubExtractor) Extract(_ context.Context, path string) domain.ExtractionResult {
	s.gotPath = path
	return s.result
}

type stubNormalizer struct{}

func (stubNormalizer) Normalize(_ context.Context, text string, _ int) domain.NormalizedQuery {
	return domain.NormalizedQuery{
		Cleaned:        text,
		Translated:     text,
		SourceLanguage: "en",
		SearchQueries:  []string{text},
	}
}

type stubSearcher struct{}

func (stubSearcher) Search(_ context.Context, _ string, _ int) search.Outcome {
	return search.Outcome{
		Results: []domain.SearchResult{
			{URL: "https://www.khanacademy.org/a", Title: "khan", TrustScore: 90, IsTrusted: true},
		},
		TrustedCount: 1,
		Provider:     "searchapi",
	}
}

type stubFetcher struct{}

func (stubFetcher) FetchAll(_ context.Context, urls []string) []domain.FetchedPage {
	pages := make([]domain.FetchedPage, len(urls))
	for i, u := range urls {
		pages[i] = domain.FetchedPage{URL: u, Success: true, Content: "content"}
	}
	return pages
}

type stubVideoFinder struct{}

func (stubVideoFinder) Lookup(_ context.Context, _ string) []domain.VideoHit {
	return []domain.VideoHit{{VideoID: "v1", Title: "tutorial"}}
}

type stubScorer struct{}

func (stubScorer) Score(_ float64, _ string, _ []domain.SearchResult) domain.ConfidenceReport {
	return domain.NeutralReport()
}

func newTestServer(t *testing.T, ext *stubExtractor) (*Server, http.Handler) {
	t.Helper()
	solver := solveruc.New(ext, stubNormalizer{}, stubSearcher{}, stubFetcher{},
		stubVideoFinder{}, stubScorer{}, solveruc.Options{}, zap.NewNop())
	srv := NewServer(solver, healthuc.New("test"), 0, zap.NewNop())
	srv.tempDir = t.TempDir()

	r := chirouter.NewRouter()
	srv.Routes(r)
	return srv, r
}

func TestSolveTextJSON(t *testing.T) {
	_, handler := newTestServer(t, &stubExtractor{})

	body := strings.NewReader(`{"text":"solve 2x+3=7","max_results":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp solveruc.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Pipeline != "text" {
		t.Errorf("response = %+v", resp)
	}
	if resp.SearchResults.Total != 1 {
		t.Errorf("search total = %d", resp.SearchResults.Total)
	}
}

func TestSolveEmptyBody(t *testing.T) {
	_, handler := newTestServer(t, &stubExtractor{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error == "" {
		t.Error("error message missing")
	}
}

func multipartImageRequest(t *testing.T, withImage bool, text string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if withImage {
		part, err := mw.CreateFormFile("image", "question.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write([]byte("fake png bytes"))
	}
	if text != "" {
		mw.WriteField("text", text)
	}
	mw.WriteField("max_results", "5")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestSolveImageUpload(t *testing.T) {
	ext := &stubExtractor{result: domain.ExtractionResult{
		Success: true, Text: "integrate x squared", Confidence: 92, Method: "tesseract",
	}}
	srv, handler := newTestServer(t, ext)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartImageRequest(t, true, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp solveruc.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Pipeline != "image" || resp.ExtractedText != "integrate x squared" {
		t.Errorf("response = %+v", resp)
	}
	if !strings.HasPrefix(filepath.Base(ext.gotPath), "solvex-") {
		t.Errorf("extractor got path %q", ext.gotPath)
	}

	// The spooled upload is removed after the request.
	entries, err := os.ReadDir(srv.tempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not cleaned up: %v", entries)
	}
}

func TestSolveImageExtractionFailure(t *testing.T) {
	ext := &stubExtractor{result: domain.FailedExtraction("no text detected")}
	srv, handler := newTestServer(t, ext)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartImageRequest(t, true, ""))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Error != "OCR extraction failed" {
		t.Errorf("error = %q", resp.Error)
	}
	if resp.Details != "no text detected" {
		t.Errorf("details = %q", resp.Details)
	}

	entries, err := os.ReadDir(srv.tempDir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("temp dir not cleaned up after failure: %v", entries)
	}
}

func TestSolveMultipartTextOnly(t *testing.T) {
	_, handler := newTestServer(t, &stubExtractor{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartImageRequest(t, false, "solve for x"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp solveruc.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Pipeline != "text" {
		t.Errorf("pipeline = %q", resp.Pipeline)
	}
}

func TestSolveMultipartNoInput(t *testing.T) {
	_, handler := newTestServer(t, &stubExtractor{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, multipartImageRequest(t, false, ""))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

type countingSearcher struct {
	gotN int
}

func (c *countingSearcher) Search(_ context.Context, _ string, count int) search.Outcome {
	c.gotN = count
	return search.Outcome{}
}

func TestSolveDefaultMaxResults(t *testing.T) {
	se := &countingSearcher{}
	solver := solveruc.New(&stubExtractor{}, stubNormalizer{}, se, stubFetcher{},
		stubVideoFinder{}, stubScorer{}, solveruc.Options{}, zap.NewNop())
	srv := NewServer(solver, healthuc.New("test"), 2, zap.NewNop())
	srv.tempDir = t.TempDir()

	r := chirouter.NewRouter()
	srv.Routes(r)

	body := strings.NewReader(`{"text":"solve 2x+3=7"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/solve", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if se.gotN != 2 {
		t.Errorf("search count = %d, want configured default 2", se.gotN)
	}
}

func TestHealthAndStatus(t *testing.T) {
	_, handler := newTestServer(t, &stubExtractor{})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status endpoint = %d", w.Code)
	}
	var st healthuc.Status
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Version != "test" {
		t.Errorf("version = %q", st.Version)
	}
}
