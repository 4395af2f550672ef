package catalog

// Product is a purchasable catalog entry. The catalog is a fixed, process-wide
// immutable list; nothing mutates it after init and nothing persists it.
type Product struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	PriceInCents int64    `json:"price_in_cents"`
	Currency     string   `json:"currency"`
	Features     []string `json:"features"`
}

const PremiumAnalysisReportID = "premium_analysis_report"

var products = []Product{
	{
		ID:           PremiumAnalysisReportID,
		Name:         "Premium Analysis Report",
		Description:  "In-depth economic analysis report for the EU27 countries (PDF)",
		PriceInCents: 2999,
		Currency:     "USD",
		Features: []string{
			"Detailed economic analysis report (PDF)",
			"Economic indicator data for all EU27 countries",
			"AI-generated economic forecasts",
			"Country-by-country comparison",
			"High-resolution charts and graphs",
			"3 months of data update support",
		},
	},
}

// GetProductByID resolves a catalog entry by its id.
func GetProductByID(id string) (Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Products returns a copy of the catalog for listing.
func Products() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}
