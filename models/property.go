package models

// PropertyRecord mirrors the property search service's response shape.
// The chat pipeline treats it as read-only: records are folded into model
// context as formatted strings and never written back.
type PropertyRecord struct {
	ID            int      `json:"id"`
	Address       string   `json:"address"`
	Floor         string   `json:"floor"`
	Suite         string   `json:"suite"`
	SizeSF        int      `json:"size_sf"`
	RentPerSFYear float64  `json:"rent_per_sf_year"`
	AnnualRent    float64  `json:"annual_rent"`
	MonthlyRent   float64  `json:"monthly_rent"`
	GCI3Years     float64  `json:"gci_3_years"`
	Associates    []string `json:"associates"`
	BrokerEmail   string   `json:"broker_email"`
	BuildingClass string   `json:"building_class"`
	FormattedInfo string   `json:"formatted_info"`
}

// SearchResult is one ranked hit. Scoring is opaque to this service; only
// the ordering and the formatted info are consumed.
type SearchResult struct {
	Property     PropertyRecord `json:"property"`
	MatchScore   int            `json:"match_score"`
	MatchReasons []string       `json:"match_reasons"`
}

type MarketSummary struct {
	TotalProperties int     `json:"total_properties"`
	AverageRent     float64 `json:"average_rent"`
	MedianRent      float64 `json:"median_rent"`
	MinRent         float64 `json:"min_rent"`
	MaxRent         float64 `json:"max_rent"`
	AverageSize     float64 `json:"average_size"`
	RentPerSqft     float64 `json:"rent_per_sqft"`
}
