package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/propdash/propdash/clients"
	"github.com/propdash/propdash/models"
)

var testKnowledgeBase = []string{
	"You are a commercial real estate assistant.",
	"The portfolio covers Manhattan office space.",
}

// encodeJSON mirrors the real services, which always reply with a JSON
// content type; resty only unmarshals results when it sees one.
func encodeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newAssembler(t *testing.T, handler http.HandlerFunc) *ContextAssembler {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	properties := clients.NewPropertyClient(srv.URL, 5*time.Second, zap.NewNop())
	return NewContextAssembler(testKnowledgeBase, properties, 3, zap.NewNop())
}

func propertyService(t *testing.T, results []models.SearchResult, summary *models.MarketSummary) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			encodeJSON(w, map[string]any{"results": results, "total_found": len(results)})
		case "/market-summary":
			if summary == nil {
				http.Error(w, "unavailable", http.StatusInternalServerError)
				return
			}
			encodeJSON(w, map[string]any{"summary": summary})
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	}
}

func record(address string) models.SearchResult {
	return models.SearchResult{
		Property:   models.PropertyRecord{Address: address, FormattedInfo: "Property: " + address},
		MatchScore: 3,
	}
}

func TestAssemble_NonPropertyQueryIsStaticOnly(t *testing.T) {
	assembler := newAssembler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("retrieval service should not be contacted")
	})

	got := assembler.Assemble(context.Background(), "tell me a joke")
	want := strings.Join(testKnowledgeBase, "\n\n")
	if got != want {
		t.Fatalf("context diverged from static baseline:\n%q", got)
	}
}

func TestAssemble_PropertyQueryAddsListingsAndOverview(t *testing.T) {
	results := []models.SearchResult{record("1412 Broadway"), record("345 Seventh Avenue")}
	summary := &models.MarketSummary{TotalProperties: 225, AverageRent: 1250000, AverageSize: 13400}
	assembler := newAssembler(t, propertyService(t, results, summary))

	got := assembler.Assemble(context.Background(), "What does rent look like on Broadway?")

	if !strings.HasPrefix(got, strings.Join(testKnowledgeBase, "\n\n")) {
		t.Fatal("static context must come first")
	}
	if n := strings.Count(got, "- Property: "); n != 2 {
		t.Fatalf("expected 2 record lines, got %d:\n%s", n, got)
	}
	if !strings.Contains(got, "## Market Overview") {
		t.Fatalf("missing market overview:\n%s", got)
	}
	for _, line := range []string{"Total properties: 225", "Average annual rent: $1250000", "Average size: 13400 sq ft"} {
		if !strings.Contains(got, line) {
			t.Fatalf("missing overview line %q:\n%s", line, got)
		}
	}
}

func TestAssemble_CapsRecordsAtSearchLimit(t *testing.T) {
	results := []models.SearchResult{
		record("1412 Broadway"), record("345 Seventh Avenue"),
		record("36 W 36th St"), record("15 W 38th St"),
	}
	assembler := newAssembler(t, propertyService(t, results, nil))

	got := assembler.Assemble(context.Background(), "properties please")
	if n := strings.Count(got, "- Property: "); n != 3 {
		t.Fatalf("expected 3 record lines, got %d", n)
	}
}

func TestAssemble_RetrievalFailureDegradesToStatic(t *testing.T) {
	assembler := newAssembler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	})

	got := assembler.Assemble(context.Background(), "show me properties on Broadway")
	if got != strings.Join(testKnowledgeBase, "\n\n") {
		t.Fatalf("expected static-only context on failure:\n%q", got)
	}
}

func TestIsPropertyQuery(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"Show me properties on Broadway", true},
		{"what is the RENT at 1412?", true},
		{"any suites with 5,000 square feet?", true},
		{"who is the broker for this one?", true},
		{"tell me a joke", false},
		{"what's the weather today", false},
	}
	for _, tc := range cases {
		assembler := NewContextAssembler(testKnowledgeBase, nil, 3, zap.NewNop())
		if got := assembler.IsPropertyQuery(tc.query); got != tc.want {
			t.Errorf("IsPropertyQuery(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}
