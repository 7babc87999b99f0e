// Package market defines the goods under negotiation and the scenario
// matrix the harness runs. Fair-price factors derived from product
// attributes feed the persona's quality and urgency multipliers.
package market

// Product describes a lot of goods the buyer wants.
type Product struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	Quantity     int     `json:"quantity"`
	QualityGrade string  `json:"quality_grade"`
	Origin       string  `json:"origin"`
	MarketPrice  float64 `json:"base_market_price"`
	ExportGrade  bool    `json:"export_grade"`
}

// Catalog returns the stock product list used by the harness.
func Catalog() []Product {
	return []Product{
		{
			Name:         "Alphonso Mangoes",
			Category:     "Mangoes",
			Quantity:     100,
			QualityGrade: "A",
			Origin:       "Ratnagiri",
			MarketPrice:  180000,
			ExportGrade:  true,
		},
		{
			Name:         "Kesar Mangoes",
			Category:     "Mangoes",
			Quantity:     150,
			QualityGrade: "B",
			Origin:       "Gujarat",
			MarketPrice:  150000,
		},
	}
}

// QualityFactor maps a product's grade and export status to a fair-price
// multiplier: A-grade commands a premium, B-grade a small discount,
// export-grade stacks another premium.
func QualityFactor(p Product) float64 {
	factor := 1.0
	switch {
	case len(p.QualityGrade) > 0 && (p.QualityGrade[0] == 'A' || p.QualityGrade[0] == 'a'):
		factor *= 1.05
	case len(p.QualityGrade) > 0 && (p.QualityGrade[0] == 'B' || p.QualityGrade[0] == 'b'):
		factor *= 0.98
	}
	if p.ExportGrade {
		factor *= 1.05
	}
	return factor
}

// UrgencyFactor converts an observed urgency score in [0, 1] to a
// fair-price multiplier. Urgent sellers justify paying up to 10% more to
// close before the window shuts.
func UrgencyFactor(urgency float64) float64 {
	if urgency < 0 {
		urgency = 0
	}
	if urgency > 1 {
		urgency = 1
	}
	return 1 + 0.10*urgency
}

// Scenario fixes the buyer budget and the seller's hidden minimum as
// multiples of market price.
type Scenario struct {
	Name         string
	BudgetPct    float64
	SellerMinPct float64
}

// Scenarios returns the standard difficulty matrix.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "easy", BudgetPct: 1.2, SellerMinPct: 0.80},
		{Name: "medium", BudgetPct: 1.0, SellerMinPct: 0.85},
		{Name: "hard", BudgetPct: 0.9, SellerMinPct: 0.82},
	}
}
