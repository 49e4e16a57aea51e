package normalize

import (
	"reflect"
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "solve   for\n\tx", "solve for x"},
		{"spaces operators", "2x+3=7", "2x + 3 = 7"},
		{"maps unicode operators", "6×7÷2", "6 * 7 / 2"},
		{"strips noise characters", "what is 2+2 @#$%^&", "what is 2 + 2"},
		{"keeps math symbols", "√16 + ∫x dx", "√16 + ∫x dx"},
		{"keeps devanagari", "२x + ३ = ७ हल करें", "२x + ३ = ७ हल करें"},
		{"empty input", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateSearchQueries(t *testing.T) {
	got := GenerateSearchQueries("integrate x squared", 5)
	want := []string{
		"integrate x squared",
		"integrate x squared solution",
		"integrate x squared solved example explanation",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("queries = %v, want %v", got, want)
	}
}

func TestGenerateSearchQueriesExamVariant(t *testing.T) {
	got := GenerateSearchQueries("JEE 2023 projectile motion problem", 5)
	if len(got) != 3 {
		t.Fatalf("expected 3 queries, got %d", len(got))
	}
	if !strings.Contains(got[2], "JEE solution step by step") {
		t.Errorf("third query = %q, want exam-prep variant", got[2])
	}
}

func TestGenerateSearchQueriesCap(t *testing.T) {
	got := GenerateSearchQueries("some question", 1)
	if len(got) != 1 {
		t.Fatalf("expected 1 query, got %d", len(got))
	}
	if got[0] != "some question" {
		t.Errorf("primary query = %q, want verbatim text", got[0])
	}
}

func TestGenerateSearchQueriesEmpty(t *testing.T) {
	if got := GenerateSearchQueries("   ", 5); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("Find the value of x in the following equation")
	want := []string{"value", "equation"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keywords = %v, want %v", got, want)
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 30; i++ {
		sb.WriteString("word")
		sb.WriteByte(byte('a' + i))
		sb.WriteByte(' ')
	}
	if got := ExtractKeywords(sb.String()); len(got) != maxKeywords {
		t.Errorf("expected %d keywords, got %d", maxKeywords, len(got))
	}
}
