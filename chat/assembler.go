package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/propdash/propdash/clients"
	"github.com/propdash/propdash/models"
)

// propertyKeywords gates dynamic retrieval. Matching is case-insensitive
// substring matching; an irrelevant hit only costs a little prompt space,
// while a miss loses retrieved facts, so the set leans broad.
var propertyKeywords = []string{
	"property", "properties", "rent", "lease", "square feet", "sq ft",
	"floor", "suite", "building", "office", "space", "broker", "associate",
	"listing", "broadway", "avenue", "street",
}

// ContextAssembler builds the system-prompt context for one turn: the static
// knowledge base, plus retrieved property data when the query calls for it.
type ContextAssembler struct {
	knowledgeBase []string
	properties    *clients.PropertyClient
	searchLimit   int
	logger        *zap.Logger
}

func NewContextAssembler(knowledgeBase []string, properties *clients.PropertyClient, searchLimit int, logger *zap.Logger) *ContextAssembler {
	return &ContextAssembler{
		knowledgeBase: knowledgeBase,
		properties:    properties,
		searchLimit:   searchLimit,
		logger:        logger,
	}
}

func (a *ContextAssembler) IsPropertyQuery(text string) bool {
	lowered := strings.ToLower(text)
	for _, keyword := range propertyKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

// Assemble never fails: any retrieval problem is logged and the static
// context is returned on its own, so a sick search service can not take the
// turn down with it.
func (a *ContextAssembler) Assemble(ctx context.Context, query string) string {
	static := strings.Join(a.knowledgeBase, "\n\n")
	if !a.IsPropertyQuery(query) {
		return static
	}

	// Independent reads, joined before rendering.
	var (
		wg      sync.WaitGroup
		results []models.SearchResult
		summary *models.MarketSummary
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		found, err := a.properties.Search(ctx, query, a.searchLimit)
		if err != nil {
			a.logger.Warn("property search failed, continuing with static context", zap.Error(err))
			return
		}
		results = found
	}()
	go func() {
		defer wg.Done()
		got, err := a.properties.MarketSummary(ctx)
		if err != nil {
			a.logger.Warn("market summary failed, continuing without overview", zap.Error(err))
			return
		}
		summary = got
	}()
	wg.Wait()

	var b strings.Builder
	b.WriteString(static)

	if len(results) > 0 {
		if len(results) > a.searchLimit {
			results = results[:a.searchLimit]
		}
		b.WriteString("\n\n## Relevant Property Listings\n")
		for _, result := range results {
			b.WriteString("- ")
			b.WriteString(formatRecord(result.Property))
			b.WriteString("\n")
		}
	}

	if summary != nil {
		b.WriteString("\n## Market Overview\n")
		fmt.Fprintf(&b, "Total properties: %d\n", summary.TotalProperties)
		fmt.Fprintf(&b, "Average annual rent: $%.0f\n", summary.AverageRent)
		fmt.Fprintf(&b, "Average size: %.0f sq ft\n", summary.AverageSize)
	}

	return b.String()
}

// formatRecord renders one property as a single descriptive line, preferring
// the search service's own formatting when it supplied one.
func formatRecord(p models.PropertyRecord) string {
	if p.FormattedInfo != "" {
		return p.FormattedInfo
	}

	parts := []string{
		fmt.Sprintf("Property: %s", p.Address),
		fmt.Sprintf("Floor/Suite: %s/%s", p.Floor, p.Suite),
		fmt.Sprintf("Size: %d sq ft", p.SizeSF),
		fmt.Sprintf("Annual Rent: $%.0f", p.AnnualRent),
	}
	if len(p.Associates) > 0 {
		parts = append(parts, fmt.Sprintf("Associates: %s", strings.Join(p.Associates, ", ")))
	}
	return strings.Join(parts, " | ")
}
